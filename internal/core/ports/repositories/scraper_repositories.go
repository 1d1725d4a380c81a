package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/price_scraper_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ScraperReader defines read operations for scraper data
type ScraperReader interface {
	// ListScrapers retrieves all scrapers ordered by ID.
	ListScrapers(ctx context.Context) ([]domain.Scraper, error)

	// FindScraperByID retrieves a scraper by its ID. Returns apperrors.ErrNotFound when absent.
	FindScraperByID(ctx context.Context, scraperID int64) (*domain.Scraper, error)

	// FindScraperByCurrency retrieves the first scraper whose currency has the same page slug.
	FindScraperByCurrency(ctx context.Context, currency string) (*domain.Scraper, error)
}

// ScraperWriter defines write operations for scraper data
type ScraperWriter interface {
	// CreateScraper persists a new scraper and returns it with its assigned ID.
	// When enforceUnique is set and the currency slug is already tracked it returns apperrors.ErrDuplicate.
	CreateScraper(ctx context.Context, scraper domain.Scraper, enforceUnique bool) (*domain.Scraper, error)

	// UpdateScraperFrequency replaces the frequency of a scraper.
	UpdateScraperFrequency(ctx context.Context, scraperID int64, frequency int) (*domain.Scraper, error)

	// UpdateScraperValue stores a freshly scraped value.
	UpdateScraperValue(ctx context.Context, scraperID int64, value decimal.Decimal, updatedAt time.Time) (*domain.Scraper, error)

	// DeleteScraper removes a scraper and returns the deleted row.
	DeleteScraper(ctx context.Context, scraperID int64) (*domain.Scraper, error)
}

// ScraperRepositoryFacade combines all scraper-related repository interfaces
type ScraperRepositoryFacade interface {
	ScraperReader
	ScraperWriter
}

// ScraperRepositoryWithTx extends ScraperRepositoryFacade with transaction capabilities
type ScraperRepositoryWithTx interface {
	ScraperRepositoryFacade
	TransactionManager
}
