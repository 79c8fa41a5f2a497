package pkghttp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

const (
	// DefaultTimeout bounds a single upstream call including reading the body.
	DefaultTimeout = 10 * time.Second

	maxBodyBytes = 32 << 20
)

// StatusError is returned when the upstream answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// Options configures a Client. Zero values fall back to sensible defaults.
type Options struct {
	Timeout          time.Duration
	MaxRequests      uint32
	Interval         time.Duration
	OpenTimeout      time.Duration
	FailureThreshold float64
	MinRequests      uint32
	Transport        http.RoundTripper
}

// Client performs GET requests guarded by a circuit breaker.
type Client struct {
	name string
	http *http.Client
	cb   *gobreaker.CircuitBreaker
}

// NewClient builds a Client whose breaker is identified by name in logs.
func NewClient(name string, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxRequests == 0 {
		opts.MaxRequests = 1
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Minute
	}
	if opts.OpenTimeout <= 0 {
		opts.OpenTimeout = 30 * time.Second
	}
	if opts.FailureThreshold <= 0 {
		opts.FailureThreshold = 0.6
	}
	if opts.MinRequests == 0 {
		opts.MinRequests = 3
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: opts.MaxRequests,
		Interval:    opts.Interval,
		Timeout:     opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < opts.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= opts.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &Client{
		name: name,
		http: &http.Client{Timeout: opts.Timeout, Transport: opts.Transport},
		cb:   cb,
	}
}

// Name returns the breaker name given at construction.
func (c *Client) Name() string {
	return c.name
}

// State reports the current breaker state.
func (c *Client) State() gobreaker.State {
	return c.cb.State()
}

// Get fetches url and returns the response body. Transport failures,
// timeouts, non-2xx statuses and an open breaker are all returned as errors.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	body, err := c.cb.Execute(func() (any, error) {
		return c.get(ctx, url)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%s: %w", c.name, err)
		}
		return nil, err
	}

	data, _ := body.([]byte)
	return data, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		//nolint:errcheck // drain for connection reuse
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}
