package pgsql

import (
	portsrepo "github.com/SscSPs/price_scraper_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgx repository on top of db (usually a *pgxpool.Pool).
func NewRepositoryProvider(db DB) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ScraperRepo: newPgxScraperRepository(db),
	}
}
