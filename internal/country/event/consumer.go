package event

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shandysiswandi/gocountry/internal/country/entity"
	"github.com/shandysiswandi/gocountry/internal/pkg/pkglog"
)

//nolint:gochecknoglobals // collectors are registered once per process
var reportEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "country_report_events_total",
	Help: "Snapshot events processed by the report consumer, by result",
}, []string{"result"})

type Handler interface {
	Handle(ctx context.Context, event entity.SnapshotEvent) error
}

type ConsumerConfig struct {
	Workers     int
	MaxRetries  int
	BaseBackoff time.Duration
	Timeout     time.Duration
}

// ReportConsumer drains the bus and hands each snapshot to the handler,
// retrying with exponential backoff. Events are processed at most once per
// EventID.
type ReportConsumer struct {
	bus         *Bus
	handler     Handler
	workers     int
	maxRetries  int
	baseBackoff time.Duration
	timeout     time.Duration
	seen        *recentIDs
	wg          sync.WaitGroup
}

func NewReportConsumer(bus *Bus, handler Handler, cfg ConsumerConfig) *ReportConsumer {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	baseBackoff := cfg.BaseBackoff
	if baseBackoff <= 0 {
		baseBackoff = 100 * time.Millisecond
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &ReportConsumer{
		bus:         bus,
		handler:     handler,
		workers:     workers,
		maxRetries:  maxRetries,
		baseBackoff: baseBackoff,
		timeout:     timeout,
		seen:        newRecentIDs(dedupWindow),
	}
}

func (c *ReportConsumer) Start() {
	for range c.workers {
		c.wg.Add(1)
		go c.worker()
	}
}

// Stop closes the bus and waits for in-flight events until ctx expires.
func (c *ReportConsumer) Stop(ctx context.Context) error {
	if c.bus != nil {
		c.bus.Close()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *ReportConsumer) worker() {
	defer c.wg.Done()

	for event := range c.bus.Subscribe() {
		c.processEvent(event)
	}
}

func (c *ReportConsumer) processEvent(event entity.SnapshotEvent) {
	if c.handler == nil {
		return
	}

	ctx := pkglog.SetCorrelationID(context.Background(), event.CorrelationID)
	log := slog.With("event_id", event.EventID)

	if event.EventID != "" {
		if !c.seen.add(event.EventID) {
			reportEvents.WithLabelValues("duplicate").Inc()
			log.InfoContext(ctx, "skip duplicate snapshot event")
			return
		}
	}

	backoff := c.baseBackoff
	for attempt := 1; ; attempt++ {
		err := c.handle(ctx, event)
		if err == nil {
			reportEvents.WithLabelValues("ok").Inc()
			log.InfoContext(ctx, "summary report generated", "countries", len(event.Countries), "attempts", attempt)
			return
		}

		if attempt > c.maxRetries {
			reportEvents.WithLabelValues("failed").Inc()
			log.ErrorContext(ctx, "failed to generate summary report after retries", "attempts", attempt, "error", err)
			return
		}

		log.WarnContext(ctx, "summary report attempt failed", "attempt", attempt, "retry_in", backoff, "error", err)
		sleepBackoff(backoff)
		backoff *= 2
	}
}

func (c *ReportConsumer) handle(ctx context.Context, event entity.SnapshotEvent) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return c.handler.Handle(ctx, event)
}

func sleepBackoff(d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	<-timer.C
}

// dedupWindow is how many recent event IDs are remembered for duplicate
// suppression.
const dedupWindow = 256

// recentIDs is a fixed-size set that forgets the oldest ID once full.
type recentIDs struct {
	mu   sync.Mutex
	ids  map[string]struct{}
	ring []string
	next int
}

func newRecentIDs(size int) *recentIDs {
	return &recentIDs{ids: make(map[string]struct{}, size), ring: make([]string, size)}
}

// add records id and reports whether it was not already present.
func (r *recentIDs) add(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.ids[id]; ok {
		return false
	}
	if old := r.ring[r.next]; old != "" {
		delete(r.ids, old)
	}
	r.ring[r.next] = id
	r.next = (r.next + 1) % len(r.ring)
	r.ids[id] = struct{}{}

	return true
}

func (r *recentIDs) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ids)
}
