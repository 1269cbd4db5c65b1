// Package metrics defines the Prometheus instrumentation for clipforge.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clipforge_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clipforge_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "clipforge_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Clip pipeline metrics
var (
	ClipsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clipforge_clips_total",
			Help: "Total number of clip extraction requests by outcome",
		},
		[]string{"status"}, // "completed", or the failure kind
	)

	ClipDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "clipforge_clip_duration_seconds",
			Help:    "End-to-end clip extraction duration in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 45, 60},
		},
	)

	TranscodeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "clipforge_transcode_duration_seconds",
			Help:    "ffmpeg process duration in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 45, 60},
		},
	)

	ClipsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "clipforge_clips_in_flight",
			Help: "Number of clip extractions currently running",
		},
	)

	ClipOutputBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "clipforge_clip_output_bytes",
			Help:    "Size of finished clip artifacts in bytes",
			Buckets: prometheus.ExponentialBuckets(64*1024, 4, 8),
		},
	)
)
