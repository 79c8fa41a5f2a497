package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shandysiswandi/gocountry/internal/country/entity"
	"github.com/shandysiswandi/gocountry/internal/country/usecase"
	"github.com/shandysiswandi/gocountry/internal/pkg/pkgerror"
)

var _ usecase.Store = (*PostgresStore)(nil)

var errNameRequired = errors.New("country name is required")

const (
	countryColumns = `id, name, capital, region, population, currency_code,
		exchange_rate, estimated_gdp, flag_url, last_refreshed_at`

	upsertCountrySQL = `INSERT INTO countries
		(name, capital, region, population, currency_code, exchange_rate, estimated_gdp, flag_url, last_refreshed_at)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5, $6, $7, NULLIF($8, ''), $9)
		ON CONFLICT ((lower(name))) DO UPDATE SET
			capital = EXCLUDED.capital,
			region = EXCLUDED.region,
			population = EXCLUDED.population,
			currency_code = EXCLUDED.currency_code,
			exchange_rate = EXCLUDED.exchange_rate,
			estimated_gdp = EXCLUDED.estimated_gdp,
			flag_url = EXCLUDED.flag_url,
			last_refreshed_at = EXCLUDED.last_refreshed_at
		RETURNING ` + countryColumns

	countCountriesSQL = `SELECT COUNT(*) FROM countries`

	upsertMetadataSQL = `INSERT INTO refresh_metadata (id, total_countries, last_refreshed_at)
		VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET
			total_countries = EXCLUDED.total_countries,
			last_refreshed_at = EXCLUDED.last_refreshed_at`

	selectMetadataSQL = `SELECT total_countries, last_refreshed_at FROM refresh_metadata WHERE id = 1`

	findCountrySQL = `SELECT ` + countryColumns + ` FROM countries WHERE lower(name) = lower($1)`

	deleteCountrySQL = `DELETE FROM countries WHERE lower(name) = lower($1)`

	syncMetadataCountSQL = `UPDATE refresh_metadata
		SET total_countries = (SELECT COUNT(*) FROM countries)
		WHERE id = 1`
)

type countryRow struct {
	ID              int64           `db:"id"`
	Name            string          `db:"name"`
	Capital         sql.NullString  `db:"capital"`
	Region          sql.NullString  `db:"region"`
	Population      int64           `db:"population"`
	CurrencyCode    sql.NullString  `db:"currency_code"`
	ExchangeRate    sql.NullFloat64 `db:"exchange_rate"`
	EstimatedGDP    sql.NullFloat64 `db:"estimated_gdp"`
	FlagURL         sql.NullString  `db:"flag_url"`
	LastRefreshedAt time.Time       `db:"last_refreshed_at"`
}

func (r countryRow) toEntity() entity.Country {
	c := entity.Country{
		ID:              r.ID,
		Name:            r.Name,
		Capital:         r.Capital.String,
		Region:          r.Region.String,
		Population:      r.Population,
		FlagURL:         r.FlagURL.String,
		LastRefreshedAt: r.LastRefreshedAt.UTC(),
	}
	if r.CurrencyCode.Valid {
		code := r.CurrencyCode.String
		c.CurrencyCode = &code
	}
	if r.ExchangeRate.Valid {
		rate := r.ExchangeRate.Float64
		c.ExchangeRate = &rate
	}
	if r.EstimatedGDP.Valid {
		gdp := r.EstimatedGDP.Float64
		c.EstimatedGDP = &gdp
	}

	return c
}

type metadataRow struct {
	TotalCountries  int       `db:"total_countries"`
	LastRefreshedAt time.Time `db:"last_refreshed_at"`
}

// PostgresStore persists countries in PostgreSQL. Names are unique through
// the lower(name) index, which also serializes concurrent upserts of one
// record.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Upsert(ctx context.Context, country entity.Country) (entity.Country, error) {
	return upsert(ctx, s.db, country)
}

func (s *PostgresStore) SaveRefresh(ctx context.Context, countries []entity.Country, refreshedAt time.Time) (entity.RefreshMetadata, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return entity.RefreshMetadata{}, fmt.Errorf("begin refresh: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, c := range countries {
		if _, err := upsert(ctx, tx, c); err != nil {
			return entity.RefreshMetadata{}, err
		}
	}

	var total int
	if err := sqlx.GetContext(ctx, tx, &total, countCountriesSQL); err != nil {
		return entity.RefreshMetadata{}, fmt.Errorf("count countries: %w", err)
	}

	if _, err := tx.ExecContext(ctx, upsertMetadataSQL, total, refreshedAt); err != nil {
		return entity.RefreshMetadata{}, fmt.Errorf("save refresh metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return entity.RefreshMetadata{}, fmt.Errorf("commit refresh: %w", err)
	}

	return entity.RefreshMetadata{TotalCountries: total, LastRefreshedAt: refreshedAt}, nil
}

func (s *PostgresStore) FindByName(ctx context.Context, name string) (entity.Country, error) {
	var row countryRow
	err := s.db.GetContext(ctx, &row, findCountrySQL, strings.TrimSpace(name))
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Country{}, pkgerror.ErrNotFound
	}
	if err != nil {
		return entity.Country{}, fmt.Errorf("find country: %w", err)
	}

	return row.toEntity(), nil
}

func (s *PostgresStore) List(ctx context.Context, filter usecase.CountryFilter) ([]entity.Country, error) {
	query, args := listQuery(filter)

	var rows []countryRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}

	items := make([]entity.Country, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.toEntity())
	}

	return items, nil
}

func (s *PostgresStore) Delete(ctx context.Context, name string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, deleteCountrySQL, strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("delete country: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete country: %w", err)
	}
	if n == 0 {
		return pkgerror.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, syncMetadataCountSQL); err != nil {
		return fmt.Errorf("sync refresh metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}

	return nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var total int
	if err := s.db.GetContext(ctx, &total, countCountriesSQL); err != nil {
		return 0, fmt.Errorf("count countries: %w", err)
	}

	return total, nil
}

func (s *PostgresStore) Metadata(ctx context.Context) (entity.RefreshMetadata, error) {
	var row metadataRow
	err := s.db.GetContext(ctx, &row, selectMetadataSQL)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.RefreshMetadata{}, pkgerror.ErrNotFound
	}
	if err != nil {
		return entity.RefreshMetadata{}, fmt.Errorf("load refresh metadata: %w", err)
	}

	return entity.RefreshMetadata{
		TotalCountries:  row.TotalCountries,
		LastRefreshedAt: row.LastRefreshedAt.UTC(),
	}, nil
}

func upsert(ctx context.Context, q sqlx.QueryerContext, c entity.Country) (entity.Country, error) {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return entity.Country{}, pkgerror.NewInvalidInput(errNameRequired)
	}

	var row countryRow
	err := sqlx.GetContext(ctx, q, &row, upsertCountrySQL,
		name,
		c.Capital,
		c.Region,
		c.Population,
		nullString(c.CurrencyCode),
		nullFloat(c.ExchangeRate),
		nullFloat(c.EstimatedGDP),
		c.FlagURL,
		c.LastRefreshedAt,
	)
	if err != nil {
		return entity.Country{}, fmt.Errorf("upsert country %q: %w", name, err)
	}

	return row.toEntity(), nil
}

func listQuery(filter usecase.CountryFilter) (string, []any) {
	var (
		where []string
		args  []any
	)

	if filter.Region != "" {
		args = append(args, filter.Region)
		where = append(where, fmt.Sprintf("lower(region) = lower($%d)", len(args)))
	}
	if filter.CurrencyCode != "" {
		args = append(args, filter.CurrencyCode)
		where = append(where, fmt.Sprintf("lower(currency_code) = lower($%d)", len(args)))
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(countryColumns)
	b.WriteString(" FROM countries")
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY ")
	b.WriteString(orderBy(filter.Sort))

	return b.String(), args
}

func orderBy(sort entity.SortOrder) string {
	switch sort {
	case entity.SortGDPDesc:
		return "estimated_gdp DESC NULLS LAST, id ASC"
	case entity.SortGDPAsc:
		return "estimated_gdp ASC NULLS FIRST, id ASC"
	case entity.SortName:
		return "lower(name) ASC, id ASC"
	default:
		return "id ASC"
	}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
