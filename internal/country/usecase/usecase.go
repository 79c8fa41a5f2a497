package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/gocountry/internal/country/entity"
	"github.com/shandysiswandi/gocountry/internal/pkg/pkgerror"
	"github.com/shandysiswandi/gocountry/internal/pkg/pkglog"
	"github.com/shandysiswandi/gocountry/internal/pkg/pkguid"
	"golang.org/x/sync/singleflight"
)

type Store interface {
	Upsert(ctx context.Context, country entity.Country) (entity.Country, error)
	SaveRefresh(ctx context.Context, countries []entity.Country, refreshedAt time.Time) (entity.RefreshMetadata, error)
	FindByName(ctx context.Context, name string) (entity.Country, error)
	List(ctx context.Context, filter CountryFilter) ([]entity.Country, error)
	Delete(ctx context.Context, name string) error
	Count(ctx context.Context) (int, error)
	Metadata(ctx context.Context) (entity.RefreshMetadata, error)
}

type DirectorySource interface {
	FetchCountries(ctx context.Context) ([]entity.DirectoryEntry, error)
}

type RateSource interface {
	FetchRates(ctx context.Context) (map[string]float64, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event entity.SnapshotEvent) error
}

type ImageLoader interface {
	Load(ctx context.Context) ([]byte, error)
}

type Clock interface {
	Now() time.Time
}

type Dependency struct {
	Store     Store
	Directory DirectorySource
	Rates     RateSource
	Events    EventPublisher
	Images    ImageLoader
	Estimator *Estimator
	Clock     Clock
	ID        pkguid.StringID

	// CycleTimeout bounds one shared refresh cycle. Zero means
	// DefaultCycleTimeout.
	CycleTimeout time.Duration
}

const DefaultCycleTimeout = 2 * time.Minute

type Usecase struct {
	store     Store
	directory DirectorySource
	rates     RateSource
	events    EventPublisher
	images    ImageLoader
	estimator *Estimator
	clock     Clock
	id        pkguid.StringID
	timeout   time.Duration
	refreshes singleflight.Group
}

func New(dep Dependency) *Usecase {
	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	estimator := dep.Estimator
	if estimator == nil {
		estimator = NewEstimator(nil)
	}

	id := dep.ID
	if id == nil {
		id = pkguid.NewUUID()
	}

	timeout := dep.CycleTimeout
	if timeout <= 0 {
		timeout = DefaultCycleTimeout
	}

	return &Usecase{
		timeout:   timeout,
		store:     dep.Store,
		directory: dep.Directory,
		rates:     dep.Rates,
		events:    dep.Events,
		images:    dep.Images,
		estimator: estimator,
		clock:     clock,
		id:        id,
	}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// Refresh runs one reconciliation cycle. Concurrent callers in the same
// process share the result of the cycle already in flight. The cycle is
// detached from any single caller: a caller whose ctx ends gets ctx.Err()
// while the cycle keeps running for the others, bounded by the cycle timeout.
func (u *Usecase) Refresh(ctx context.Context) (RefreshResult, error) {
	if u.store == nil || u.directory == nil || u.rates == nil {
		return RefreshResult{}, pkgerror.NewServer(errors.New("missing dependency"))
	}

	ch := u.refreshes.DoChan("refresh", func() (any, error) {
		cycleCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), u.timeout)
		defer cancel()
		return u.refresh(cycleCtx)
	})

	select {
	case res := <-ch:
		if res.Shared {
			slog.InfoContext(ctx, "joined in-flight refresh cycle")
		}
		if res.Err != nil {
			return RefreshResult{}, res.Err
		}
		return res.Val.(RefreshResult), nil
	case <-ctx.Done():
		slog.WarnContext(ctx, "stopped waiting for refresh cycle", "because", ctx.Err())
		return RefreshResult{}, ctx.Err()
	}
}

func (u *Usecase) refresh(ctx context.Context) (RefreshResult, error) {
	start := time.Now()
	defer func() {
		refreshDuration.Observe(time.Since(start).Seconds())
	}()

	entries, err := u.directory.FetchCountries(ctx)
	if err != nil {
		refreshCycles.WithLabelValues(outcomeDirectoryUnavailable).Inc()
		slog.ErrorContext(ctx, "refresh aborted: directory unavailable", "error", err)
		return RefreshResult{}, pkgerror.NewUnavailable(string(entity.SourceDirectory), err)
	}

	rates, err := u.rates.FetchRates(ctx)
	if err != nil {
		refreshCycles.WithLabelValues(outcomeRatesUnavailable).Inc()
		slog.ErrorContext(ctx, "refresh aborted: rates unavailable", "error", err)
		return RefreshResult{}, pkgerror.NewUnavailable(string(entity.SourceRates), err)
	}

	now := u.clock.Now().UTC()
	countries := reconcile(entries, rates, u.estimator, now)

	meta, err := u.store.SaveRefresh(ctx, countries, now)
	if err != nil {
		refreshCycles.WithLabelValues(outcomeStoreError).Inc()
		slog.ErrorContext(ctx, "refresh aborted: store rejected write", "error", err)
		return RefreshResult{}, storeErr(err)
	}

	refreshCycles.WithLabelValues(outcomeSuccess).Inc()
	countriesStored.Set(float64(meta.TotalCountries))
	slog.InfoContext(ctx, "refresh completed",
		"directory_entries", len(entries),
		"rates", len(rates),
		"upserted", len(countries),
		"total_countries", meta.TotalCountries,
	)

	u.publishSnapshot(ctx, meta.LastRefreshedAt)

	return RefreshResult{
		TotalCountries:  meta.TotalCountries,
		LastRefreshedAt: meta.LastRefreshedAt,
	}, nil
}

// publishSnapshot hands the current store contents to the summary reporter.
// Failures never fail the refresh.
func (u *Usecase) publishSnapshot(ctx context.Context, at time.Time) {
	if u.events == nil {
		return
	}

	countries, err := u.store.List(ctx, CountryFilter{})
	if err != nil {
		snapshotPublishErrors.Inc()
		slog.WarnContext(ctx, "failed to load snapshot for summary report", "error", err)
		return
	}

	event := entity.SnapshotEvent{
		EventID:       u.id.Generate(),
		CorrelationID: pkglog.GetCorrelationID(ctx),
		Countries:     countries,
		GeneratedAt:   at,
	}
	if err := u.events.Publish(ctx, event); err != nil {
		snapshotPublishErrors.Inc()
		slog.WarnContext(ctx, "failed to publish snapshot event", "event_id", event.EventID, "error", err)
	}
}

func (u *Usecase) Countries(ctx context.Context, filter CountryFilter) ([]entity.Country, error) {
	if !filter.Sort.Valid() {
		return nil, pkgerror.NewInvalidInput(errors.New("invalid sort"))
	}

	filter.Region = strings.TrimSpace(filter.Region)
	filter.CurrencyCode = strings.TrimSpace(filter.CurrencyCode)

	countries, err := u.store.List(ctx, filter)
	if err != nil {
		return nil, normalizeErr(err)
	}

	return countries, nil
}

func (u *Usecase) Country(ctx context.Context, name string) (entity.Country, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return entity.Country{}, pkgerror.NewInvalidInput(errors.New("name is required"))
	}

	country, err := u.store.FindByName(ctx, name)
	if err != nil {
		return entity.Country{}, mapStoreErr(err)
	}

	return country, nil
}

func (u *Usecase) DeleteCountry(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return pkgerror.NewInvalidInput(errors.New("name is required"))
	}

	if err := u.store.Delete(ctx, name); err != nil {
		if errors.Is(err, pkgerror.ErrNotFound) {
			return mapStoreErr(err)
		}
		return storeErr(err)
	}

	slog.InfoContext(ctx, "country deleted", "name", name)
	return nil
}

func (u *Usecase) Status(ctx context.Context) (StatusResult, error) {
	meta, err := u.store.Metadata(ctx)
	if errors.Is(err, pkgerror.ErrNotFound) {
		return StatusResult{}, nil
	}
	if err != nil {
		return StatusResult{}, normalizeErr(err)
	}

	refreshedAt := meta.LastRefreshedAt
	return StatusResult{
		TotalCountries:  meta.TotalCountries,
		LastRefreshedAt: &refreshedAt,
	}, nil
}

func (u *Usecase) SummaryImage(ctx context.Context) ([]byte, error) {
	if u.images == nil {
		return nil, pkgerror.NewBusiness("summary image not found", pkgerror.CodeNotFound)
	}

	data, err := u.images.Load(ctx)
	if errors.Is(err, pkgerror.ErrNotFound) {
		return nil, pkgerror.NewBusiness("summary image not found", pkgerror.CodeNotFound)
	}
	if err != nil {
		return nil, normalizeErr(err)
	}

	return data, nil
}

func mapStoreErr(err error) error {
	if errors.Is(err, pkgerror.ErrNotFound) {
		return pkgerror.NewBusiness("country not found", pkgerror.CodeNotFound)
	}
	return normalizeErr(err)
}

func storeErr(err error) error {
	var perr *pkgerror.Error
	if errors.As(err, &perr) {
		return perr
	}
	return pkgerror.NewStore(err)
}

func normalizeErr(err error) error {
	var perr *pkgerror.Error
	if errors.As(err, &perr) {
		return perr
	}
	return pkgerror.NewServer(err)
}
