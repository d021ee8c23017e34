// Package observability provides Prometheus metrics for the easydict
// translation client.
package observability

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LLMBuckets defines histogram buckets suited for LLM inference latencies,
// ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	// TranslationsTotal counts translation requests by model, dispatch mode,
	// and outcome.
	TranslationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "easydict_translations_total",
			Help: "Translation requests",
		},
		[]string{"model", "mode", "status"},
	)

	// TranslationDuration records end-to-end translation duration in seconds.
	TranslationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "easydict_translation_duration_seconds",
			Help:    "Translation duration",
			Buckets: LLMBuckets,
		},
		[]string{"model", "mode"},
	)

	// FirstDeltaLatency records time to the first streamed delta in seconds.
	FirstDeltaLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "easydict_first_delta_seconds",
			Help:    "Time to first streamed delta",
			Buckets: LLMBuckets,
		},
		[]string{"model"},
	)

	// ActiveStreams tracks the number of streaming translations in flight.
	ActiveStreams = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "easydict_streams_active",
			Help: "Active streaming translations",
		},
	)
)

func init() {
	prometheus.MustRegister(
		TranslationsTotal,
		TranslationDuration,
		FirstDeltaLatency,
		ActiveStreams,
	)
}

// ObserveTranslation records the outcome and duration of one translation
// request. Cancellation is its own status so dashboards don't count user
// aborts as failures.
func ObserveTranslation(model, mode string, err error, elapsed time.Duration) {
	status := "ok"
	switch {
	case errors.Is(err, context.Canceled):
		status = "canceled"
	case err != nil:
		status = "error"
	}
	TranslationsTotal.WithLabelValues(model, mode, status).Inc()
	TranslationDuration.WithLabelValues(model, mode).Observe(elapsed.Seconds())
}
