package domain

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MaxFrequency is the largest frequency the scrapers table can hold.
const MaxFrequency = math.MaxInt32

// ValidFrequency reports whether seconds fits a stored frequency.
func ValidFrequency(seconds int) bool {
	return seconds >= 0 && seconds <= MaxFrequency
}

// Scraper pairs a currency with a polling frequency and caches the last scraped price.
type Scraper struct {
	ID             int64           `json:"id"`
	Currency       string          `json:"currency"`         // Trimmed currency name (e.g., "Bitcoin")
	Value          decimal.Decimal `json:"value"`            // Last scraped price, zero until first refresh
	Frequency      int             `json:"frequency"`        // Seconds a value stays fresh
	CreatedAt      time.Time       `json:"created_at"`       // Set once
	ValueUpdatedAt time.Time       `json:"value_updated_at"` // Set on every value write
}

// FrequencyDuration returns the frequency as a time.Duration.
func (s Scraper) FrequencyDuration() time.Duration {
	return time.Duration(s.Frequency) * time.Second
}

// Staleness returns how long ago the value was written, relative to now.
func (s Scraper) Staleness(now time.Time) time.Duration {
	return now.Sub(s.ValueUpdatedAt)
}

// IsStale reports whether the cached value is older than the frequency.
// A value exactly frequency seconds old is still fresh.
func (s Scraper) IsStale(now time.Time) bool {
	return s.Staleness(now) > s.FrequencyDuration()
}

// Slug returns the normalized currency name used to address the price source.
func (s Scraper) Slug() string {
	return CurrencySlug(s.Currency)
}

// CurrencySlug trims name, joins whitespace separated words with hyphens and lowercases the result.
// "  Bitcoin Cash " becomes "bitcoin-cash".
func CurrencySlug(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "-"))
}
