package external

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PriceSource is the public page a currency price is scraped from.
type PriceSource interface {
	// FetchPrice scrapes the current price of currency.
	// Returns apperrors.ErrUpstreamNotFound when the page or price is missing and
	// apperrors.ErrTransport when the source cannot be reached.
	FetchPrice(ctx context.Context, currency string) (decimal.Decimal, error)

	// CurrencyExists reports whether the source has a page for currency.
	CurrencyExists(ctx context.Context, currency string) (bool, error)

	// PageURL returns the page scraped for currency.
	PageURL(currency string) string
}

// RefreshLocker guards a refresh across service instances.
type RefreshLocker interface {
	// TryLock attempts to take the lock for key. When acquired is false another holder owns it
	// and release is nil.
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, acquired bool, err error)
}
