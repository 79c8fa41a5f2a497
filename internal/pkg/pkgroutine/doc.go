// Package pkgroutine runs background work (cron refreshes, shutdown hooks)
// under a bounded Manager that recovers panics and exposes Prometheus gauges.
package pkgroutine
