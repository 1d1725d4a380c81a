package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/price_scraper_app/internal/apperrors"
	"github.com/SscSPs/price_scraper_app/internal/core/domain"
	"github.com/SscSPs/price_scraper_app/internal/core/ports/external"
	portsrepo "github.com/SscSPs/price_scraper_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/price_scraper_app/internal/core/ports/services"
	"github.com/SscSPs/price_scraper_app/internal/dto"
	"github.com/SscSPs/price_scraper_app/internal/metrics"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	defaultFetchTimeout       = 10 * time.Second
	defaultRefreshConcurrency = 4
	defaultRefreshLockTTL     = 30 * time.Second
)

// scraperService implements the ScraperSvcFacade interface
type scraperService struct {
	BaseService
	scraperRepo portsrepo.ScraperRepositoryFacade
	source      external.PriceSource
	locker      external.RefreshLocker // nil disables the cross-instance guard

	now              func() time.Time
	fetchTimeout     time.Duration
	concurrency      int
	lockTTL          time.Duration
	refreshOnRead    bool
	enforceUnique    bool
	validateOnCreate bool

	fetches singleflight.Group
}

// ScraperServiceOption is a functional option for configuring the scraper service
type ScraperServiceOption func(*scraperService)

// WithClock overrides the time source.
func WithClock(now func() time.Time) ScraperServiceOption {
	return func(s *scraperService) {
		s.now = now
	}
}

// WithRefreshLocker guards every fetch with a lock shared between instances.
func WithRefreshLocker(locker external.RefreshLocker, ttl time.Duration) ScraperServiceOption {
	return func(s *scraperService) {
		s.locker = locker
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

// WithFetchTimeout bounds a single price fetch.
func WithFetchTimeout(timeout time.Duration) ScraperServiceOption {
	return func(s *scraperService) {
		if timeout > 0 {
			s.fetchTimeout = timeout
		}
	}
}

// WithRefreshConcurrency caps the number of parallel fetches while refreshing a list.
func WithRefreshConcurrency(n int) ScraperServiceOption {
	return func(s *scraperService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithRefreshOnRead toggles the lazy refresh performed by reads.
func WithRefreshOnRead(enabled bool) ScraperServiceOption {
	return func(s *scraperService) {
		s.refreshOnRead = enabled
	}
}

// WithUniqueCurrency toggles rejection of a second scraper for an already tracked currency.
func WithUniqueCurrency(enabled bool) ScraperServiceOption {
	return func(s *scraperService) {
		s.enforceUnique = enabled
	}
}

// WithCurrencyValidation toggles the upstream existence check on create.
func WithCurrencyValidation(enabled bool) ScraperServiceOption {
	return func(s *scraperService) {
		s.validateOnCreate = enabled
	}
}

// NewScraperService creates a new scraper service with the provided options
func NewScraperService(repo portsrepo.ScraperRepositoryFacade, source external.PriceSource, options ...ScraperServiceOption) portssvc.ScraperSvcFacade {
	svc := &scraperService{
		scraperRepo:      repo,
		source:           source,
		now:              time.Now,
		fetchTimeout:     defaultFetchTimeout,
		concurrency:      defaultRefreshConcurrency,
		lockTTL:          defaultRefreshLockTTL,
		refreshOnRead:    true,
		enforceUnique:    true,
		validateOnCreate: true,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

var _ portssvc.ScraperSvcFacade = (*scraperService)(nil)

func scraperNotFound(scraperID int64, err error) error {
	return apperrors.NewAppError(apperrors.KindNotFound, fmt.Sprintf("id [%d] does not exist", scraperID), err)
}

func (s *scraperService) ListScrapers(ctx context.Context) ([]domain.Scraper, error) {
	scrapers, err := s.scraperRepo.ListScrapers(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list scrapers from repository")
		return nil, fmt.Errorf("failed to list scrapers: %w", err)
	}
	if scrapers == nil {
		return []domain.Scraper{}, nil
	}
	if !s.refreshOnRead {
		return scrapers, nil
	}
	return s.refreshAll(ctx, scrapers)
}

func (s *scraperService) GetScraper(ctx context.Context, scraperID int64) (*domain.Scraper, error) {
	scraper, err := s.findScraper(ctx, scraperID)
	if err != nil {
		return nil, err
	}
	if !s.refreshOnRead {
		return scraper, nil
	}
	return s.refresh(ctx, *scraper, false)
}

func (s *scraperService) CreateScraper(ctx context.Context, req dto.CreateScraperRequest) (*domain.Scraper, error) {
	currency := strings.TrimSpace(req.Currency)
	if currency == "" || req.Frequency == nil {
		return nil, apperrors.NewAppError(apperrors.KindMalformedPayload, "Please send the correct payload", nil)
	}
	if !domain.ValidFrequency(*req.Frequency) {
		return nil, apperrors.NewAppError(apperrors.KindMalformedPayload, "Please send the correct payload", nil)
	}

	if s.enforceUnique {
		_, err := s.scraperRepo.FindScraperByCurrency(ctx, currency)
		switch {
		case err == nil:
			return nil, currencyExists(currency, nil)
		case !errors.Is(err, apperrors.ErrNotFound):
			s.LogError(ctx, err, "Failed to check currency uniqueness", slog.String("currency", currency))
			return nil, fmt.Errorf("failed to check currency %s: %w", currency, err)
		}
	}

	if s.validateOnCreate {
		exists, err := s.source.CurrencyExists(ctx, currency)
		if err != nil {
			s.LogError(ctx, err, "Failed to validate currency against price source", slog.String("currency", currency))
			return nil, err
		}
		if !exists {
			return nil, apperrors.NewAppError(apperrors.KindUpstreamNotFound,
				fmt.Sprintf("%s not found in %s", domain.CurrencySlug(currency), s.source.PageURL(currency)), nil)
		}
	}

	now := s.now().UTC()
	scraper := domain.Scraper{
		Currency:       currency,
		Value:          decimal.Zero,
		Frequency:      *req.Frequency,
		CreatedAt:      now,
		ValueUpdatedAt: now,
	}

	created, err := s.scraperRepo.CreateScraper(ctx, scraper, s.enforceUnique)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, currencyExists(currency, err)
		}
		s.LogError(ctx, err, "Failed to create scraper in repository", slog.String("currency", currency))
		return nil, fmt.Errorf("failed to create scraper: %w", err)
	}

	s.LogInfo(ctx, "Scraper created", slog.Int64("scraper_id", created.ID), slog.String("currency", created.Currency))
	return created, nil
}

func currencyExists(currency string, err error) error {
	return apperrors.NewAppError(apperrors.KindConflict, fmt.Sprintf("[%s] already exists", currency), err)
}

func (s *scraperService) UpdateScraperFrequency(ctx context.Context, req dto.UpdateScraperRequest) (*domain.Scraper, error) {
	if req.Frequency == nil || !domain.ValidFrequency(*req.Frequency) {
		return nil, apperrors.NewAppError(apperrors.KindMalformedPayload, "Please send the correct payload", nil)
	}

	updated, err := s.scraperRepo.UpdateScraperFrequency(ctx, req.ID, *req.Frequency)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, scraperNotFound(req.ID, err)
		}
		s.LogError(ctx, err, "Failed to update scraper frequency", slog.Int64("scraper_id", req.ID))
		return nil, fmt.Errorf("failed to update scraper %d: %w", req.ID, err)
	}

	s.LogInfo(ctx, "Scraper frequency updated", slog.Int64("scraper_id", updated.ID), slog.Int("frequency", updated.Frequency))
	return updated, nil
}

func (s *scraperService) DeleteScraper(ctx context.Context, scraperID int64) (*domain.Scraper, error) {
	deleted, err := s.scraperRepo.DeleteScraper(ctx, scraperID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, scraperNotFound(scraperID, err)
		}
		s.LogError(ctx, err, "Failed to delete scraper", slog.Int64("scraper_id", scraperID))
		return nil, fmt.Errorf("failed to delete scraper %d: %w", scraperID, err)
	}

	s.LogInfo(ctx, "Scraper deleted", slog.Int64("scraper_id", deleted.ID), slog.String("currency", deleted.Currency))
	return deleted, nil
}

func (s *scraperService) RefreshScraper(ctx context.Context, scraperID int64) (*domain.Scraper, error) {
	scraper, err := s.findScraper(ctx, scraperID)
	if err != nil {
		return nil, err
	}
	return s.refresh(ctx, *scraper, true)
}

func (s *scraperService) RefreshStale(ctx context.Context) ([]domain.Scraper, error) {
	scrapers, err := s.scraperRepo.ListScrapers(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list scrapers from repository")
		return nil, fmt.Errorf("failed to list scrapers: %w", err)
	}
	if scrapers == nil {
		return []domain.Scraper{}, nil
	}
	return s.refreshAll(ctx, scrapers)
}

func (s *scraperService) findScraper(ctx context.Context, scraperID int64) (*domain.Scraper, error) {
	scraper, err := s.scraperRepo.FindScraperByID(ctx, scraperID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, scraperNotFound(scraperID, err)
		}
		s.LogError(ctx, err, "Failed to find scraper", slog.Int64("scraper_id", scraperID))
		return nil, fmt.Errorf("failed to find scraper %d: %w", scraperID, err)
	}
	return scraper, nil
}

// refreshAll refreshes every stale scraper in parallel, keeping the input order.
// The first failure cancels the remaining fetches and fails the whole call.
func (s *scraperService) refreshAll(ctx context.Context, scrapers []domain.Scraper) ([]domain.Scraper, error) {
	result := make([]domain.Scraper, len(scrapers))
	now := s.now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range scrapers {
		if !scrapers[i].IsStale(now) {
			metrics.RefreshTotal.WithLabelValues(metrics.RefreshFresh).Inc()
			result[i] = scrapers[i]
			continue
		}
		g.Go(func() error {
			updated, err := s.refresh(gctx, scrapers[i], true)
			if err != nil {
				return err
			}
			result[i] = *updated
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// fetchResult is shared between every caller joining the same in-flight fetch.
type fetchResult struct {
	price     decimal.Decimal
	fetchedAt time.Time
	locked    bool
}

// refresh scrapes a new value for scraper when it is stale or force is set and stores it.
func (s *scraperService) refresh(ctx context.Context, scraper domain.Scraper, force bool) (*domain.Scraper, error) {
	if !force && !scraper.IsStale(s.now()) {
		metrics.RefreshTotal.WithLabelValues(metrics.RefreshFresh).Inc()
		return &scraper, nil
	}

	slug := scraper.Slug()
	ch := s.fetches.DoChan(slug, func() (any, error) {
		// Outlives the first caller's request; bounded by fetchTimeout.
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
		defer cancel()
		return s.fetchPrice(fetchCtx, scraper.Currency, slug)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		s.LogError(ctx, res.Err, "Failed to refresh scraper",
			slog.Int64("scraper_id", scraper.ID), slog.String("currency", scraper.Currency))
		return nil, res.Err
	}

	fetched := res.Val.(fetchResult)
	if fetched.locked {
		metrics.RefreshTotal.WithLabelValues(metrics.RefreshLocked).Inc()
		s.LogDebug(ctx, "Refresh held by another instance, returning stored value", slog.String("currency", scraper.Currency))
		return s.findScraper(ctx, scraper.ID)
	}
	if res.Shared {
		metrics.RefreshTotal.WithLabelValues(metrics.RefreshShared).Inc()
	} else {
		metrics.RefreshTotal.WithLabelValues(metrics.RefreshFetched).Inc()
	}

	updated, err := s.scraperRepo.UpdateScraperValue(ctx, scraper.ID, fetched.price, fetched.fetchedAt)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, scraperNotFound(scraper.ID, err)
		}
		s.LogError(ctx, err, "Failed to store scraped value", slog.Int64("scraper_id", scraper.ID))
		return nil, fmt.Errorf("failed to store value for scraper %d: %w", scraper.ID, err)
	}

	s.LogDebug(ctx, "Scraper refreshed",
		slog.Int64("scraper_id", updated.ID),
		slog.String("currency", updated.Currency),
		slog.String("value", updated.Value.String()))
	return updated, nil
}

func (s *scraperService) fetchPrice(ctx context.Context, currency, slug string) (fetchResult, error) {
	if s.locker != nil {
		release, acquired, err := s.locker.TryLock(ctx, slug, s.lockTTL)
		switch {
		case err != nil:
			// Best effort: fetch unguarded.
			s.LogWarn(ctx, "Refresh lock unavailable, fetching without it",
				slog.String("currency", currency), slog.String("error", err.Error()))
		case !acquired:
			return fetchResult{locked: true}, nil
		default:
			defer func() {
				if err := release(context.WithoutCancel(ctx)); err != nil {
					s.LogWarn(ctx, "Failed to release refresh lock", slog.String("currency", currency), slog.String("error", err.Error()))
				}
			}()
		}
	}

	start := time.Now()
	price, err := s.source.FetchPrice(ctx, currency)
	took := time.Since(start)
	if err != nil {
		metrics.ObserveFetch(fetchOutcome(err), took)
		return fetchResult{}, err
	}
	metrics.ObserveFetch(metrics.OutcomeSuccess, took)

	return fetchResult{price: price, fetchedAt: s.now().UTC()}, nil
}

func fetchOutcome(err error) string {
	switch apperrors.KindOf(err) {
	case apperrors.KindUpstreamNotFound:
		return metrics.OutcomeUpstreamNotFound
	case apperrors.KindTransportFailure:
		return metrics.OutcomeTransportFailure
	default:
		return metrics.OutcomeError
	}
}
