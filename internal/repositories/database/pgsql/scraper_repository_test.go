package pgsql

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/SscSPs/price_scraper_app/internal/apperrors"
	"github.com/SscSPs/price_scraper_app/internal/core/domain"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

var scraperRowColumns = []string{"scraper_id", "currency", "value", "frequency", "created_at", "value_updated_at"}

type ScraperRepositoryTestSuite struct {
	suite.Suite
	mock pgxmock.PgxPoolIface
	repo *PgxScraperRepository
	ctx  context.Context
	now  time.Time
}

func (suite *ScraperRepositoryTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	suite.Require().NoError(err)
	suite.mock = mock
	suite.repo = newPgxScraperRepository(mock).(*PgxScraperRepository)
	suite.ctx = context.Background()
	suite.now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
}

func (suite *ScraperRepositoryTestSuite) TearDownTest() {
	suite.NoError(suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func (suite *ScraperRepositoryTestSuite) row(id int64, currency, value string, frequency int) *pgxmock.Rows {
	return pgxmock.NewRows(scraperRowColumns).AddRow(id, currency, value, frequency, suite.now, suite.now)
}

// --- Test Cases ---

func (suite *ScraperRepositoryTestSuite) TestListScrapers_Success() {
	rows := pgxmock.NewRows(scraperRowColumns).
		AddRow(int64(1), "Bitcoin", "64000.5", 60, suite.now, suite.now).
		AddRow(int64(2), "Ethereum", "0", 300, suite.now, suite.now)
	suite.mock.ExpectQuery(regexp.QuoteMeta(`FROM scrapers ORDER BY scraper_id`)).WillReturnRows(rows)

	scrapers, err := suite.repo.ListScrapers(suite.ctx)

	suite.Require().NoError(err)
	suite.Require().Len(scrapers, 2)
	suite.Equal(int64(1), scrapers[0].ID)
	suite.Equal("Bitcoin", scrapers[0].Currency)
	suite.True(decimal.RequireFromString("64000.5").Equal(scrapers[0].Value))
	suite.Equal(60, scrapers[0].Frequency)
	suite.Equal("Ethereum", scrapers[1].Currency)
	suite.True(scrapers[1].Value.IsZero())
}

func (suite *ScraperRepositoryTestSuite) TestListScrapers_Empty() {
	suite.mock.ExpectQuery(regexp.QuoteMeta(`FROM scrapers ORDER BY scraper_id`)).
		WillReturnRows(pgxmock.NewRows(scraperRowColumns))

	scrapers, err := suite.repo.ListScrapers(suite.ctx)

	suite.Require().NoError(err)
	suite.Empty(scrapers)
}

func (suite *ScraperRepositoryTestSuite) TestListScrapers_QueryError() {
	suite.mock.ExpectQuery(regexp.QuoteMeta(`FROM scrapers`)).WillReturnError(errors.New("connection reset"))

	scrapers, err := suite.repo.ListScrapers(suite.ctx)

	suite.Require().Error(err)
	suite.Nil(scrapers)
	suite.Contains(err.Error(), "failed to query scrapers")
}

func (suite *ScraperRepositoryTestSuite) TestFindScraperByID_Success() {
	suite.mock.ExpectQuery(regexp.QuoteMeta(`FROM scrapers WHERE scraper_id = $1`)).
		WithArgs(int64(7)).
		WillReturnRows(suite.row(7, "Bitcoin", "100", 60))

	scraper, err := suite.repo.FindScraperByID(suite.ctx, 7)

	suite.Require().NoError(err)
	suite.Equal(int64(7), scraper.ID)
	suite.Equal(suite.now, scraper.CreatedAt)
}

func (suite *ScraperRepositoryTestSuite) TestFindScraperByID_NotFound() {
	suite.mock.ExpectQuery(regexp.QuoteMeta(`FROM scrapers WHERE scraper_id = $1`)).
		WithArgs(int64(99)).
		WillReturnRows(pgxmock.NewRows(scraperRowColumns))

	scraper, err := suite.repo.FindScraperByID(suite.ctx, 99)

	suite.Nil(scraper)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ScraperRepositoryTestSuite) TestFindScraperByCurrency_NotFound() {
	suite.mock.ExpectQuery(regexp.QuoteMeta(`WHERE currency_slug = $1`)).
		WithArgs("dogecoin").
		WillReturnRows(pgxmock.NewRows(scraperRowColumns))

	scraper, err := suite.repo.FindScraperByCurrency(suite.ctx, "Dogecoin")

	suite.Nil(scraper)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ScraperRepositoryTestSuite) TestFindScraperByCurrency_MatchesSlug() {
	suite.mock.ExpectQuery(regexp.QuoteMeta(`WHERE currency_slug = $1`)).
		WithArgs("bitcoin-cash").
		WillReturnRows(suite.row(4, "bitcoin-cash", "412.9", 60))

	scraper, err := suite.repo.FindScraperByCurrency(suite.ctx, "  Bitcoin   Cash ")

	suite.Require().NoError(err)
	suite.Equal(int64(4), scraper.ID)
}

func (suite *ScraperRepositoryTestSuite) TestCreateScraper_DuplicateSlugSpelling() {
	input := domain.Scraper{Currency: "Bitcoin Cash", Frequency: 60, CreatedAt: suite.now, ValueUpdatedAt: suite.now}

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(regexp.QuoteMeta(`SELECT pg_advisory_xact_lock(hashtext($1))`)).
		WithArgs("bitcoin-cash").
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	suite.mock.ExpectQuery(regexp.QuoteMeta(`WHERE currency_slug = $2::varchar`)).
		WithArgs("Bitcoin Cash", "bitcoin-cash", pgxmock.AnyArg(), 60, pgxmock.AnyArg(), pgxmock.AnyArg(), true).
		WillReturnRows(pgxmock.NewRows(scraperRowColumns))
	suite.mock.ExpectRollback()

	created, err := suite.repo.CreateScraper(suite.ctx, input, true)

	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *ScraperRepositoryTestSuite) TestCreateScraper_UniqueEnforced_Success() {
	input := domain.Scraper{Currency: "Bitcoin", Value: decimal.Zero, Frequency: 60, CreatedAt: suite.now, ValueUpdatedAt: suite.now}

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(regexp.QuoteMeta(`SELECT pg_advisory_xact_lock`)).
		WithArgs("bitcoin").
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	suite.mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO scrapers`)).
		WithArgs("Bitcoin", "bitcoin", pgxmock.AnyArg(), 60, pgxmock.AnyArg(), pgxmock.AnyArg(), true).
		WillReturnRows(suite.row(1, "Bitcoin", "0", 60))
	suite.mock.ExpectCommit()

	created, err := suite.repo.CreateScraper(suite.ctx, input, true)

	suite.Require().NoError(err)
	suite.Equal(int64(1), created.ID)
	suite.Equal("Bitcoin", created.Currency)
	suite.Equal(60, created.Frequency)
}

func (suite *ScraperRepositoryTestSuite) TestCreateScraper_Duplicate() {
	input := domain.Scraper{Currency: "Bitcoin", Frequency: 60, CreatedAt: suite.now, ValueUpdatedAt: suite.now}

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(regexp.QuoteMeta(`SELECT pg_advisory_xact_lock`)).
		WithArgs("bitcoin").
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	suite.mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO scrapers`)).
		WithArgs("Bitcoin", "bitcoin", pgxmock.AnyArg(), 60, pgxmock.AnyArg(), pgxmock.AnyArg(), true).
		WillReturnRows(pgxmock.NewRows(scraperRowColumns))
	suite.mock.ExpectRollback()

	created, err := suite.repo.CreateScraper(suite.ctx, input, true)

	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *ScraperRepositoryTestSuite) TestCreateScraper_UniquenessDisabled() {
	input := domain.Scraper{Currency: "Bitcoin", Frequency: 30, CreatedAt: suite.now, ValueUpdatedAt: suite.now}

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO scrapers`)).
		WithArgs("Bitcoin", "bitcoin", pgxmock.AnyArg(), 30, pgxmock.AnyArg(), pgxmock.AnyArg(), false).
		WillReturnRows(suite.row(2, "Bitcoin", "0", 30))
	suite.mock.ExpectCommit()

	created, err := suite.repo.CreateScraper(suite.ctx, input, false)

	suite.Require().NoError(err)
	suite.Equal(int64(2), created.ID)
}

func (suite *ScraperRepositoryTestSuite) TestCreateScraper_BeginFails() {
	suite.mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

	created, err := suite.repo.CreateScraper(suite.ctx, domain.Scraper{Currency: "Bitcoin"}, true)

	suite.Nil(created)
	suite.Require().Error(err)
	suite.Equal(apperrors.KindInternal, apperrors.KindOf(err))
}

func (suite *ScraperRepositoryTestSuite) TestUpdateScraperFrequency_Success() {
	suite.mock.ExpectQuery(regexp.QuoteMeta(`SET frequency = $1`)).
		WithArgs(120, int64(3)).
		WillReturnRows(suite.row(3, "Bitcoin", "10", 120))

	updated, err := suite.repo.UpdateScraperFrequency(suite.ctx, 3, 120)

	suite.Require().NoError(err)
	suite.Equal(120, updated.Frequency)
	suite.Equal("Bitcoin", updated.Currency)
}

func (suite *ScraperRepositoryTestSuite) TestUpdateScraperFrequency_NotFound() {
	suite.mock.ExpectQuery(regexp.QuoteMeta(`SET frequency = $1`)).
		WithArgs(120, int64(404)).
		WillReturnRows(pgxmock.NewRows(scraperRowColumns))

	updated, err := suite.repo.UpdateScraperFrequency(suite.ctx, 404, 120)

	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ScraperRepositoryTestSuite) TestUpdateScraperValue_Success() {
	value := decimal.RequireFromString("65000.25")
	later := suite.now.Add(2 * time.Minute)
	suite.mock.ExpectQuery(regexp.QuoteMeta(`SET value = $1, value_updated_at = $2`)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), int64(1)).
		WillReturnRows(pgxmock.NewRows(scraperRowColumns).AddRow(int64(1), "Bitcoin", "65000.25", 60, suite.now, later))

	updated, err := suite.repo.UpdateScraperValue(suite.ctx, 1, value, later)

	suite.Require().NoError(err)
	suite.True(value.Equal(updated.Value))
	suite.Equal(later, updated.ValueUpdatedAt)
}

func (suite *ScraperRepositoryTestSuite) TestDeleteScraper_Success() {
	suite.mock.ExpectQuery(regexp.QuoteMeta(`DELETE FROM scrapers WHERE scraper_id = $1 RETURNING`)).
		WithArgs(int64(5)).
		WillReturnRows(suite.row(5, "Solana", "150", 60))

	deleted, err := suite.repo.DeleteScraper(suite.ctx, 5)

	suite.Require().NoError(err)
	suite.Equal(int64(5), deleted.ID)
	suite.Equal("Solana", deleted.Currency)
}

func (suite *ScraperRepositoryTestSuite) TestDeleteScraper_NotFound() {
	suite.mock.ExpectQuery(regexp.QuoteMeta(`DELETE FROM scrapers`)).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows(scraperRowColumns))

	deleted, err := suite.repo.DeleteScraper(suite.ctx, 5)

	suite.Nil(deleted)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Run Test Suite ---
func TestScraperRepository(t *testing.T) {
	suite.Run(t, new(ScraperRepositoryTestSuite))
}
