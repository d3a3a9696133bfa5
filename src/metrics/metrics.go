package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Verifications counts resolved verdicts by audit source and verdict.
	Verifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "capapp_verifications_total",
		Help: "Resolved fact-check verdicts by source and verdict",
	}, []string{"source", "verdict"})

	// UpstreamErrors counts failed calls to the fact database or the generative service.
	UpstreamErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "capapp_upstream_errors_total",
		Help: "Failed upstream calls by upstream",
	}, []string{"upstream"})

	// UpstreamDuration tracks upstream call latency.
	UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "capapp_upstream_duration_seconds",
		Help:    "Upstream call duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
	}, []string{"upstream"})

	// Alerts counts dispatched false/misleading alerts.
	Alerts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "capapp_alerts_total",
		Help: "Alerts dispatched for adverse verdicts",
	})

	// ScanDuration tracks how long one autoscan tick takes.
	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "capapp_scan_duration_seconds",
		Help:    "Autoscan tick duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
	})

	// Buffered reports statements waiting for the next autoscan tick.
	Buffered = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "capapp_buffered_statements",
		Help: "Statements waiting in the autoscan buffer",
	})

	// CooldownRejections counts manual checks refused by the per-user cooldown.
	CooldownRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "capapp_cooldown_rejections_total",
		Help: "Manual fact-checks rejected by the cooldown",
	})
)
