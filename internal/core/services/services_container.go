package services

import (
	"github.com/SscSPs/price_scraper_app/internal/core/ports/external"
	portsrepo "github.com/SscSPs/price_scraper_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/price_scraper_app/internal/core/ports/services"
	"github.com/SscSPs/price_scraper_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// locker may be nil when no Redis is configured.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, source external.PriceSource, locker external.RefreshLocker) *portssvc.ServiceContainer {
	options := []ScraperServiceOption{
		WithFetchTimeout(cfg.FetchTimeout),
		WithRefreshConcurrency(cfg.RefreshConcurrency),
		WithRefreshOnRead(cfg.RefreshOnRead),
		WithUniqueCurrency(cfg.EnforceUniqueCurrency),
		WithCurrencyValidation(cfg.ValidateCurrencyOnCreate),
	}
	if locker != nil {
		options = append(options, WithRefreshLocker(locker, cfg.RefreshLockTTL))
	}

	return &portssvc.ServiceContainer{
		Scraper: NewScraperService(repos.ScraperRepo, source, options...),
	}
}
