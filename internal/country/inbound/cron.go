package inbound

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shandysiswandi/gocountry/internal/country/usecase"
	"github.com/shandysiswandi/gocountry/internal/pkg/pkglog"
	"github.com/shandysiswandi/gocountry/internal/pkg/pkguid"
)

type refresher interface {
	Refresh(ctx context.Context) (usecase.RefreshResult, error)
}

// Runner schedules tracked background work.
type Runner interface {
	Go(ctx context.Context, f func(ctx context.Context) error)
}

type CronConfig struct {
	Schedule string
	Timeout  time.Duration
	// ID tags each run with a fresh correlation ID. Optional.
	ID pkguid.StringID
}

// CronTrigger runs Refresh on a cron schedule. A run that is still going when
// the next tick fires causes that tick to be skipped.
type CronTrigger struct {
	ctx     context.Context
	uc      refresher
	runner  Runner
	timeout time.Duration
	ids     pkguid.StringID
	cron    *cron.Cron
}

// RegisterCron starts the scheduled refresh. An empty schedule disables it and
// returns a nil trigger.
func RegisterCron(ctx context.Context, cfg CronConfig, uc refresher, runner Runner) (*CronTrigger, error) {
	if cfg.Schedule == "" {
		return nil, nil
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}

	logger := cronLogger{}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	t := &CronTrigger{
		ctx:     ctx,
		uc:      uc,
		runner:  runner,
		timeout: cfg.Timeout,
		ids:     cfg.ID,
		cron:    c,
	}

	if _, err := c.AddFunc(cfg.Schedule, t.run); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", cfg.Schedule, err)
	}

	c.Start()
	slog.Info("scheduled country refresh", "schedule", cfg.Schedule)

	return t, nil
}

// Stop halts the scheduler and waits for a running refresh until ctx expires.
func (t *CronTrigger) Stop(ctx context.Context) error {
	done := t.cron.Stop()

	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *CronTrigger) run() {
	done := make(chan struct{})

	t.runner.Go(t.ctx, func(ctx context.Context) error {
		defer close(done)

		ctx = pkglog.EnsureCorrelationID(ctx, t.ids)
		ctx, cancel := context.WithTimeout(ctx, t.timeout)
		defer cancel()

		result, err := t.uc.Refresh(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "scheduled refresh failed", "error", err)
			return nil
		}

		slog.InfoContext(ctx, "scheduled refresh finished",
			"total_countries", result.TotalCountries,
			"last_refreshed_at", result.LastRefreshedAt,
		)
		return nil
	})

	select {
	case <-done:
	case <-t.ctx.Done():
	}
}

type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
