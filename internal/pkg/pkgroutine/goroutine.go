package pkgroutine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultMaxGoroutine is used when NewManager receives a non-positive limit.
const DefaultMaxGoroutine int = 10

// ErrPanic wraps a recovered panic so Wait reports it like any other failure.
var ErrPanic = errors.New("pkgroutine: task panicked")

//nolint:gochecknoglobals // collectors are registered once per process
var (
	tasksRunning = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "background_tasks_running",
		Help: "Number of background tasks currently running",
	})
	tasksPanicked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "background_task_panics_total",
		Help: "Total number of recovered background task panics",
	})
)

// Manager runs tasks with at most N in flight and collects their errors.
type Manager struct {
	mu   sync.Mutex
	errs []error
	wg   sync.WaitGroup
	sema chan struct{}
}

func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = DefaultMaxGoroutine
	}
	return &Manager{sema: make(chan struct{}, maxGoroutine)}
}

// Go blocks until a slot is free or ctx is done. A task whose ctx ends before
// it starts is skipped.
func (m *Manager) Go(ctx context.Context, f func(ctx context.Context) error) {
	select {
	case m.sema <- struct{}{}:
	case <-ctx.Done():
		slog.WarnContext(ctx, "background task skipped", "because", ctx.Err())
		return
	}

	m.wg.Add(1)
	tasksRunning.Inc()
	go func() {
		defer m.wg.Done()
		defer tasksRunning.Dec()
		defer func() { <-m.sema }()

		if ctx.Err() != nil {
			slog.WarnContext(ctx, "background task skipped", "because", ctx.Err())
			return
		}
		m.collect(m.run(ctx, f))
	}()
}

func (m *Manager) run(ctx context.Context, f func(ctx context.Context) error) (err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			tasksPanicked.Inc()
			slog.ErrorContext(ctx, "panic in background task", "because", rvr, "stack", string(debug.Stack()))
			err = fmt.Errorf("%w: %v", ErrPanic, rvr)
		}
	}()
	return f(ctx)
}

func (m *Manager) collect(err error) {
	if err == nil {
		return
	}
	m.mu.Lock()
	m.errs = append(m.errs, err)
	m.mu.Unlock()
}

// Wait blocks until every scheduled task returns and joins their errors.
func (m *Manager) Wait() error {
	m.wg.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	return errors.Join(m.errs...)
}
