package country

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shandysiswandi/gocountry/internal/country/event"
	"github.com/shandysiswandi/gocountry/internal/country/inbound"
	"github.com/shandysiswandi/gocountry/internal/country/outbound"
	"github.com/shandysiswandi/gocountry/internal/country/report"
	"github.com/shandysiswandi/gocountry/internal/country/store"
	"github.com/shandysiswandi/gocountry/internal/country/usecase"
	"github.com/shandysiswandi/gocountry/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/gocountry/internal/pkg/pkghttp"
	"github.com/shandysiswandi/gocountry/internal/pkg/pkgredis"
	"github.com/shandysiswandi/gocountry/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/gocountry/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/gocountry/internal/pkg/pkgsql"
	"github.com/shandysiswandi/gocountry/internal/pkg/pkguid"
)

type Dependency struct {
	Config    pkgconfig.Config
	Goroutine *pkgroutine.Manager
	Router    *pkgrouter.Router
	Context   context.Context
	ID        pkguid.StringID
}

// closers are run in reverse registration order.
type closers []func(context.Context) error

func (c closers) close(ctx context.Context) error {
	var errs []error
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func New(dep Dependency) (func(context.Context) error, error) {
	cfg := dep.Config
	var cls closers

	fail := func(err error) (func(context.Context) error, error) {
		_ = cls.close(context.Background())
		return nil, err
	}

	if dep.ID == nil {
		dep.ID = pkguid.NewUUID()
	}

	storage, closeStore, err := newStore(dep.Context, cfg)
	if err != nil {
		return fail(err)
	}
	if closeStore != nil {
		cls = append(cls, closeStore)
	}

	sink, closeSink, err := newSink(dep.Context, cfg)
	if err != nil {
		return fail(err)
	}
	if closeSink != nil {
		cls = append(cls, closeSink)
	}

	reporter := report.NewReporter(report.NewRenderer(), sink)
	bus := event.NewBus(int(cfg.GetInt("modules.country.report.buffer")))
	consumer := event.NewReportConsumer(bus, reporter, event.ConsumerConfig{
		Workers:     int(cfg.GetInt("modules.country.report.workers")),
		MaxRetries:  int(cfg.GetInt("modules.country.report.max_retries")),
		BaseBackoff: cfg.GetDuration("modules.country.report.backoff"),
		Timeout:     cfg.GetDuration("modules.country.report.timeout"),
	})
	consumer.Start()
	cls = append(cls, consumer.Stop)

	upstream := func(name string) *pkghttp.Client {
		return pkghttp.NewClient(name, pkghttp.Options{
			Timeout:     cfg.GetDuration("modules.country.upstream.timeout"),
			OpenTimeout: cfg.GetDuration("modules.country.upstream.breaker_open_timeout"),
		})
	}

	uc := usecase.New(usecase.Dependency{
		Store:     storage,
		Directory: outbound.NewDirectoryClient(upstream("directory"), cfg.GetString("modules.country.upstream.directory_url")),
		Rates:     outbound.NewRatesClient(upstream("rates"), cfg.GetString("modules.country.upstream.rates_url")),
		Events:    bus,
		Images:    reporter,
		ID:        dep.ID,

		CycleTimeout: cfg.GetDuration("modules.country.refresh.timeout"),
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	trigger, err := inbound.RegisterCron(dep.Context, inbound.CronConfig{
		Schedule: cfg.GetString("modules.country.refresh.schedule"),
		Timeout:  cfg.GetDuration("modules.country.refresh.timeout"),
		ID:       dep.ID,
	}, uc, dep.Goroutine)
	if err != nil {
		return fail(err)
	}
	if trigger != nil {
		cls = append(cls, trigger.Stop)
	}

	return cls.close, nil
}

func newStore(ctx context.Context, cfg pkgconfig.Config) (usecase.Store, func(context.Context) error, error) {
	driver := cfg.GetString("modules.country.store.driver")

	switch driver {
	case "", "memory":
		ids, err := pkguid.NewSnowflake(pkguid.RandomNode)
		if err != nil {
			return nil, nil, fmt.Errorf("init snowflake: %w", err)
		}
		slog.Info("country store ready", "driver", "memory")
		return store.NewInMemoryStore(ids), nil, nil

	case "postgres":
		db, err := pkgsql.Open(ctx, pkgsql.Options{
			DSN:             cfg.GetString("modules.country.store.postgres.dsn"),
			MaxOpenConns:    int(cfg.GetInt("modules.country.store.postgres.max_open_conns")),
			MaxIdleConns:    int(cfg.GetInt("modules.country.store.postgres.max_idle_conns")),
			ConnMaxLifetime: cfg.GetDuration("modules.country.store.postgres.conn_max_lifetime"),
		})
		if err != nil {
			return nil, nil, err
		}

		if cfg.GetBool("modules.country.store.postgres.migrate") {
			if err := store.Migrate(db.DB); err != nil {
				_ = db.Close()
				return nil, nil, err
			}
		}

		slog.Info("country store ready", "driver", "postgres")
		return store.NewPostgresStore(db), func(context.Context) error { return db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

func newSink(ctx context.Context, cfg pkgconfig.Config) (report.Sink, func(context.Context) error, error) {
	kind := cfg.GetString("modules.country.report.sink")

	switch kind {
	case "", "file":
		return report.NewFileSink(cfg.GetString("modules.country.report.dir")), nil, nil

	case "redis":
		client, err := pkgredis.NewClient(ctx, pkgredis.Options{
			Addr:     cfg.GetString("modules.country.report.redis.address"),
			Password: cfg.GetString("modules.country.report.redis.password"),
			DB:       int(cfg.GetInt("modules.country.report.redis.db")),
		})
		if err != nil {
			return nil, nil, err
		}

		sink := report.NewRedisSink(client, cfg.GetString("modules.country.report.redis.key"), 0)
		return sink, func(context.Context) error { return client.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown report sink %q", kind)
	}
}
