package dto

import (
	"time"

	"github.com/SscSPs/price_scraper_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateScraperRequest defines the payload for POST /scrapers.
type CreateScraperRequest struct {
	Currency  string `json:"currency" binding:"required,notblank,max=50"`
	Frequency *int   `json:"frequency" binding:"required,min=0,max=2147483647"` // Seconds
}

// UpdateScraperRequest defines the payload for PUT /scrapers.
type UpdateScraperRequest struct {
	ID        int64 `json:"id" binding:"required,min=1"`
	Frequency *int  `json:"frequency" binding:"required,min=0,max=2147483647"` // Seconds
}

// DeleteScraperRequest defines the payload for DELETE /scrapers.
type DeleteScraperRequest struct {
	ID int64 `json:"id" binding:"required,min=1"`
}

// ScraperResponse defines the data returned for a scraper.
type ScraperResponse struct {
	ID             int64           `json:"id"`
	Currency       string          `json:"currency"`
	Value          decimal.Decimal `json:"value" swaggertype:"string"`
	Frequency      int             `json:"frequency"`
	CreatedAt      time.Time       `json:"created_at"`
	ValueUpdatedAt time.Time       `json:"value_updated_at"`
}

// ScraperEnvelope wraps a single scraper in API responses.
type ScraperEnvelope struct {
	Scraper ScraperResponse `json:"scraper"`
}

// ListScrapersResponse wraps the scraper list in API responses.
type ListScrapersResponse struct {
	Scrapers []ScraperResponse `json:"scrapers"`
}

// ToScraperResponse converts a domain.Scraper to ScraperResponse DTO
func ToScraperResponse(s *domain.Scraper) ScraperResponse {
	return ScraperResponse{
		ID:             s.ID,
		Currency:       s.Currency,
		Value:          s.Value,
		Frequency:      s.Frequency,
		CreatedAt:      s.CreatedAt,
		ValueUpdatedAt: s.ValueUpdatedAt,
	}
}

// ToScraperEnvelope converts a domain.Scraper to the single scraper response body.
func ToScraperEnvelope(s *domain.Scraper) ScraperEnvelope {
	return ScraperEnvelope{Scraper: ToScraperResponse(s)}
}

// ToListScrapersResponse converts a slice of domain.Scraper to the list response body.
func ToListScrapersResponse(scrapers []domain.Scraper) ListScrapersResponse {
	res := make([]ScraperResponse, len(scrapers))
	for i := range scrapers {
		res[i] = ToScraperResponse(&scrapers[i])
	}
	return ListScrapersResponse{Scrapers: res}
}
