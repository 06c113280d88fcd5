// Package metrics provides Prometheus metrics for the gateway pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the metrics interface consumed by the request pipeline.
type Recorder interface {
	RecordForwarded(target string)
	RecordRejection(reason string)
	RecordUpstreamFailure(target string)
	RecordUpstreamLatency(d time.Duration)
}

// Collector implements Recorder on top of Prometheus.
type Collector struct {
	forwarded       *prometheus.CounterVec
	rejections      *prometheus.CounterVec
	upstreamFailure *prometheus.CounterVec
	upstreamLatency prometheus.Histogram
}

// NewCollector creates a Collector and registers its metrics.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		forwarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "omnitron_forwarded_total",
			Help: "Requests forwarded upstream, by target.",
		}, []string{"target"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "omnitron_rejections_total",
			Help: "Requests rejected before forwarding, by reason.",
		}, []string{"reason"}),
		upstreamFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "omnitron_upstream_failures_total",
			Help: "Transport-level upstream failures, by target.",
		}, []string{"target"}),
		upstreamLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "omnitron_upstream_latency_seconds",
			Help:    "Upstream round-trip latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.forwarded,
		c.rejections,
		c.upstreamFailure,
		c.upstreamLatency,
	)

	return c
}

func (c *Collector) RecordForwarded(target string) {
	c.forwarded.WithLabelValues(target).Inc()
}

func (c *Collector) RecordRejection(reason string) {
	c.rejections.WithLabelValues(reason).Inc()
}

func (c *Collector) RecordUpstreamFailure(target string) {
	c.upstreamFailure.WithLabelValues(target).Inc()
}

func (c *Collector) RecordUpstreamLatency(d time.Duration) {
	c.upstreamLatency.Observe(d.Seconds())
}

// Handler returns an HTTP handler exposing the given registry.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// Nop is a Recorder that discards all observations. Useful in tests.
type Nop struct{}

func (Nop) RecordForwarded(string)             {}
func (Nop) RecordRejection(string)             {}
func (Nop) RecordUpstreamFailure(string)       {}
func (Nop) RecordUpstreamLatency(time.Duration) {}
