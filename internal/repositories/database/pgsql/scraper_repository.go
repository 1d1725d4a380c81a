package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/price_scraper_app/internal/apperrors"
	"github.com/SscSPs/price_scraper_app/internal/core/domain"
	portsrepo "github.com/SscSPs/price_scraper_app/internal/core/ports/repositories"
	"github.com/SscSPs/price_scraper_app/internal/models"
	"github.com/SscSPs/price_scraper_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const scraperColumns = `scraper_id, currency, value, frequency, created_at, value_updated_at`

type PgxScraperRepository struct {
	BaseRepository
}

// newPgxScraperRepository creates a new repository for scraper data.
func newPgxScraperRepository(db DB) portsrepo.ScraperRepositoryWithTx {
	return &PgxScraperRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// Ensure implementation matches interface
var _ portsrepo.ScraperRepositoryWithTx = (*PgxScraperRepository)(nil)

func scanScraper(row pgx.Row) (models.Scraper, error) {
	var m models.Scraper
	err := row.Scan(
		&m.ScraperID,
		&m.Currency,
		&m.Value,
		&m.Frequency,
		&m.CreatedAt,
		&m.ValueUpdatedAt,
	)
	return m, err
}

// scanOne scans a single RETURNING/SELECT row, translating pgx.ErrNoRows into apperrors.ErrNotFound.
func scanOne(row pgx.Row, op string, scraperID int64) (*domain.Scraper, error) {
	m, err := scanScraper(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: scraper %d: %w", op, scraperID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: scraper %d: %w", op, scraperID, err)
	}
	d := mapping.ToDomainScraper(m)
	return &d, nil
}

// ListScrapers retrieves all scrapers.
func (r *PgxScraperRepository) ListScrapers(ctx context.Context) ([]domain.Scraper, error) {
	query := `SELECT ` + scraperColumns + ` FROM scrapers ORDER BY scraper_id;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query scrapers: %w", err)
	}
	defer rows.Close()

	modelScrapers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Scraper, error) {
		return scanScraper(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan scrapers: %w", err)
	}

	return mapping.ToDomainScraperSlice(modelScrapers), nil
}

// FindScraperByID retrieves a scraper by its ID.
func (r *PgxScraperRepository) FindScraperByID(ctx context.Context, scraperID int64) (*domain.Scraper, error) {
	query := `SELECT ` + scraperColumns + ` FROM scrapers WHERE scraper_id = $1;`
	return scanOne(r.Pool.QueryRow(ctx, query, scraperID), "failed to find scraper", scraperID)
}

// FindScraperByCurrency retrieves the oldest scraper whose currency maps to the same page slug.
func (r *PgxScraperRepository) FindScraperByCurrency(ctx context.Context, currency string) (*domain.Scraper, error) {
	query := `
		SELECT ` + scraperColumns + `
		FROM scrapers
		WHERE currency_slug = $1
		ORDER BY scraper_id
		LIMIT 1;
	`
	m, err := scanScraper(r.Pool.QueryRow(ctx, query, domain.CurrencySlug(currency)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find scraper by currency %s: %w", currency, err)
	}
	d := mapping.ToDomainScraper(m)
	return &d, nil
}

// CreateScraper inserts a new scraper. With enforceUnique the insert is serialized per currency slug
// through a transaction scoped advisory lock and skipped when the slug is already tracked.
func (r *PgxScraperRepository) CreateScraper(ctx context.Context, scraper domain.Scraper, enforceUnique bool) (_ *domain.Scraper, err error) {
	modelScraper := mapping.ToModelScraper(scraper)
	slug := domain.CurrencySlug(scraper.Currency)

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = r.Rollback(ctx, tx)
		}
	}()

	if enforceUnique {
		if _, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1));`, slug); err != nil {
			return nil, fmt.Errorf("failed to lock currency %s: %w", modelScraper.Currency, err)
		}
	}

	query := `
		INSERT INTO scrapers (currency, currency_slug, value, frequency, created_at, value_updated_at)
		SELECT $1::varchar, $2::varchar, $3::numeric, $4::integer, $5::timestamptz, $6::timestamptz
		WHERE NOT $7::boolean OR NOT EXISTS (
			SELECT 1 FROM scrapers WHERE currency_slug = $2::varchar
		)
		RETURNING ` + scraperColumns + `;
	`
	created, err := scanScraper(tx.QueryRow(ctx, query,
		modelScraper.Currency,
		slug,
		modelScraper.Value,
		modelScraper.Frequency,
		modelScraper.CreatedAt,
		modelScraper.ValueUpdatedAt,
		enforceUnique,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = fmt.Errorf("scraper for currency %s: %w", modelScraper.Currency, apperrors.ErrDuplicate)
			return nil, err
		}
		return nil, fmt.Errorf("failed to insert scraper %s: %w", modelScraper.Currency, err)
	}

	if err = r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	d := mapping.ToDomainScraper(created)
	return &d, nil
}

// UpdateScraperFrequency replaces the frequency of a scraper, leaving every other column untouched.
func (r *PgxScraperRepository) UpdateScraperFrequency(ctx context.Context, scraperID int64, frequency int) (*domain.Scraper, error) {
	query := `
		UPDATE scrapers
		SET frequency = $1
		WHERE scraper_id = $2
		RETURNING ` + scraperColumns + `;
	`
	return scanOne(r.Pool.QueryRow(ctx, query, frequency, scraperID), "failed to update scraper frequency", scraperID)
}

// UpdateScraperValue stores a scraped value together with its timestamp.
func (r *PgxScraperRepository) UpdateScraperValue(ctx context.Context, scraperID int64, value decimal.Decimal, updatedAt time.Time) (*domain.Scraper, error) {
	query := `
		UPDATE scrapers
		SET value = $1, value_updated_at = $2
		WHERE scraper_id = $3
		RETURNING ` + scraperColumns + `;
	`
	return scanOne(r.Pool.QueryRow(ctx, query, value, updatedAt, scraperID), "failed to update scraper value", scraperID)
}

// DeleteScraper removes a scraper and returns the row as it was before deletion.
func (r *PgxScraperRepository) DeleteScraper(ctx context.Context, scraperID int64) (*domain.Scraper, error) {
	query := `DELETE FROM scrapers WHERE scraper_id = $1 RETURNING ` + scraperColumns + `;`
	return scanOne(r.Pool.QueryRow(ctx, query, scraperID), "failed to delete scraper", scraperID)
}
