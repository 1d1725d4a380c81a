package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Scraper is the persisted row of the scrapers table.
type Scraper struct {
	ScraperID      int64           `db:"scraper_id"`
	Currency       string          `db:"currency"`
	Value          decimal.Decimal `db:"value"` // NUMERIC(30,10)
	Frequency      int             `db:"frequency"`
	CreatedAt      time.Time       `db:"created_at"`
	ValueUpdatedAt time.Time       `db:"value_updated_at"`
}
