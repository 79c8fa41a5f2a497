package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/shandysiswandi/gocountry/internal/country/entity"
	"github.com/shandysiswandi/gocountry/internal/country/usecase"
	"github.com/shandysiswandi/gocountry/internal/pkg/pkgerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rowColumns = []string{
	"id", "name", "capital", "region", "population", "currency_code",
	"exchange_rate", "estimated_gdp", "flag_url", "last_refreshed_at",
}

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()

	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })

	return NewPostgresStore(sqlx.NewDb(raw, "postgres")), mock
}

func TestPostgresStore_SaveRefreshCommitsOneTransaction(t *testing.T) {
	store, mock := newMockStore(t)
	at := time.Date(2025, 10, 22, 18, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO countries")).
		WillReturnRows(sqlmock.NewRows(rowColumns).
			AddRow(1, "Nigeria", "Abuja", "Africa", 206139589, "NGN", 1600.23, 193000000.5, "https://flagcdn.com/ng.svg", at))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO countries")).
		WillReturnRows(sqlmock.NewRows(rowColumns).
			AddRow(2, "Antarctica", nil, "Polar", 1000, nil, nil, nil, nil, at))
	mock.ExpectQuery(regexp.QuoteMeta(countCountriesSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO refresh_metadata")).
		WithArgs(2, at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	meta, err := store.SaveRefresh(context.Background(), []entity.Country{
		{Name: "Nigeria", Capital: "Abuja", Region: "Africa", Population: 206139589, CurrencyCode: ptr("NGN"), ExchangeRate: ptr(1600.23)},
		{Name: "Antarctica", Region: "Polar", Population: 1000},
	}, at)
	require.NoError(t, err)
	assert.Equal(t, entity.RefreshMetadata{TotalCountries: 2, LastRefreshedAt: at}, meta)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveRefreshRollsBackOnFailure(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO countries")).
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	_, err := store.SaveRefresh(context.Background(), []entity.Country{{Name: "Ghana"}}, time.Now())
	require.ErrorContains(t, err, "deadlock detected")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FindByName(t *testing.T) {
	store, mock := newMockStore(t)
	at := time.Date(2025, 10, 22, 18, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM countries WHERE lower(name) = lower($1)")).
		WithArgs("nigeria").
		WillReturnRows(sqlmock.NewRows(rowColumns).
			AddRow(7, "Nigeria", "Abuja", "Africa", 10, "NGN", 1600.5, nil, nil, at))
	mock.ExpectQuery(regexp.QuoteMeta("FROM countries WHERE lower(name) = lower($1)")).
		WithArgs("Atlantis").
		WillReturnError(sql.ErrNoRows)

	got, err := store.FindByName(context.Background(), " nigeria ")
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, "Abuja", got.Capital)
	require.NotNil(t, got.CurrencyCode)
	assert.Equal(t, "NGN", *got.CurrencyCode)
	require.NotNil(t, got.ExchangeRate)
	assert.Equal(t, 1600.5, *got.ExchangeRate)
	assert.Nil(t, got.EstimatedGDP)
	assert.Empty(t, got.FlagURL)

	_, err = store.FindByName(context.Background(), "Atlantis")
	require.ErrorIs(t, err, pkgerror.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListBuildsFilteredQuery(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"WHERE lower(region) = lower($1) AND lower(currency_code) = lower($2) ORDER BY estimated_gdp DESC NULLS LAST, id ASC",
	)).
		WithArgs("africa", "NGN").
		WillReturnRows(sqlmock.NewRows(rowColumns).
			AddRow(1, "Nigeria", "Abuja", "Africa", 10, "NGN", 1.0, 2.0, nil, time.Now()))

	items, err := store.List(context.Background(), usecase.CountryFilter{
		Region:       "africa",
		CurrencyCode: "NGN",
		Sort:         entity.SortGDPDesc,
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Nigeria", items[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListQueryOrdering(t *testing.T) {
	tests := []struct {
		sort entity.SortOrder
		want string
	}{
		{sort: entity.SortDefault, want: "ORDER BY id ASC"},
		{sort: entity.SortGDPAsc, want: "ORDER BY estimated_gdp ASC NULLS FIRST, id ASC"},
		{sort: entity.SortName, want: "ORDER BY lower(name) ASC, id ASC"},
	}

	for _, tt := range tests {
		query, args := listQuery(usecase.CountryFilter{Sort: tt.sort})
		assert.Contains(t, query, tt.want)
		assert.NotContains(t, query, "WHERE")
		assert.Empty(t, args)
	}
}

func TestPostgresStore_DeleteSyncsMetadata(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(deleteCountrySQL)).
		WithArgs("Ghana").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE refresh_metadata")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, store.Delete(context.Background(), "Ghana"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(deleteCountrySQL)).
		WithArgs("Atlantis").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	require.ErrorIs(t, store.Delete(context.Background(), "Atlantis"), pkgerror.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CountAndMetadata(t *testing.T) {
	store, mock := newMockStore(t)
	at := time.Date(2025, 10, 22, 18, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(countCountriesSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(250))
	mock.ExpectQuery(regexp.QuoteMeta(selectMetadataSQL)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta(selectMetadataSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"total_countries", "last_refreshed_at"}).AddRow(250, at))

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 250, count)

	_, err = store.Metadata(context.Background())
	require.ErrorIs(t, err, pkgerror.ErrNotFound)

	meta, err := store.Metadata(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.RefreshMetadata{TotalCountries: 250, LastRefreshedAt: at}, meta)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmbeddedMigrationsAreOrdered(t *testing.T) {
	src, err := iofs.New(migrationFS, "migrations")
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	next, err := src.Next(first)
	require.NoError(t, err)
	assert.Equal(t, uint(2), next)

	body, ident, err := src.ReadUp(next)
	require.NoError(t, err)
	defer body.Close()
	assert.Equal(t, "create_refresh_metadata", ident)
}
