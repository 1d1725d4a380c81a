package mapping

import (
	"github.com/SscSPs/price_scraper_app/internal/core/domain"
	"github.com/SscSPs/price_scraper_app/internal/models"
)

// ToModelScraper converts a domain Scraper to a model Scraper
func ToModelScraper(d domain.Scraper) models.Scraper {
	return models.Scraper{
		ScraperID:      d.ID,
		Currency:       d.Currency,
		Value:          d.Value,
		Frequency:      d.Frequency,
		CreatedAt:      d.CreatedAt,
		ValueUpdatedAt: d.ValueUpdatedAt,
	}
}

// ToDomainScraper converts a model Scraper to a domain Scraper
func ToDomainScraper(m models.Scraper) domain.Scraper {
	return domain.Scraper{
		ID:             m.ScraperID,
		Currency:       m.Currency,
		Value:          m.Value,
		Frequency:      m.Frequency,
		CreatedAt:      m.CreatedAt,
		ValueUpdatedAt: m.ValueUpdatedAt,
	}
}

// ToDomainScraperSlice converts a slice of model Scrapers to a slice of domain Scrapers
func ToDomainScraperSlice(ms []models.Scraper) []domain.Scraper {
	ds := make([]domain.Scraper, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainScraper(m)
	}
	return ds
}
