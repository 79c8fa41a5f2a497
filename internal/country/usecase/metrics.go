package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess              = "success"
	outcomeDirectoryUnavailable = "directory_unavailable"
	outcomeRatesUnavailable     = "rates_unavailable"
	outcomeStoreError           = "store_error"
)

//nolint:gochecknoglobals // collectors are registered once per process
var (
	refreshCycles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "country_refresh_cycles_total",
			Help: "Total number of refresh cycles by outcome",
		},
		[]string{"outcome"},
	)

	refreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "country_refresh_duration_seconds",
			Help:    "Duration of refresh cycles",
			Buckets: []float64{.1, .25, .5, 1, 2, 5, 10, 20, 30},
		},
	)

	countriesStored = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "country_records",
			Help: "Number of country records after the last successful refresh",
		},
	)

	snapshotPublishErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "country_snapshot_publish_errors_total",
			Help: "Total number of snapshot events that could not be handed to the reporter",
		},
	)
)
