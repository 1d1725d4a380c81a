package services

import (
	"context"

	"github.com/SscSPs/price_scraper_app/internal/core/domain"
	"github.com/SscSPs/price_scraper_app/internal/dto"
)

// ScraperReaderSvc defines read operations for scrapers.
// Reads refresh stale values before returning when refresh-on-read is enabled.
type ScraperReaderSvc interface {
	// ListScrapers retrieves all scrapers.
	ListScrapers(ctx context.Context) ([]domain.Scraper, error)

	// GetScraper retrieves a single scraper by ID.
	GetScraper(ctx context.Context, scraperID int64) (*domain.Scraper, error)
}

// ScraperWriterSvc defines write operations for scrapers
type ScraperWriterSvc interface {
	CreateScraper(ctx context.Context, req dto.CreateScraperRequest) (*domain.Scraper, error)
	UpdateScraperFrequency(ctx context.Context, req dto.UpdateScraperRequest) (*domain.Scraper, error)
	DeleteScraper(ctx context.Context, scraperID int64) (*domain.Scraper, error)
}

// ScraperRefresherSvc defines the explicit refresh operations.
type ScraperRefresherSvc interface {
	// RefreshScraper scrapes a new value for one scraper regardless of staleness.
	RefreshScraper(ctx context.Context, scraperID int64) (*domain.Scraper, error)

	// RefreshStale scrapes every stale scraper and returns the full list.
	RefreshStale(ctx context.Context) ([]domain.Scraper, error)
}

// ScraperSvcFacade combines all scraper-related service interfaces
type ScraperSvcFacade interface {
	ScraperReaderSvc
	ScraperWriterSvc
	ScraperRefresherSvc
}
