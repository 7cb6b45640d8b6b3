// Package prommetrics exports pixload metrics to Prometheus.
//
//	c := prommetrics.New("myapp")
//	prometheus.MustRegister(c)
//	engine, _ := pixload.New(pixload.WithMetricsCollector(c))
package prommetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/pixload"
)

var _ pixload.MetricsCollector = (*Collector)(nil)

// Collector implements pixload.MetricsCollector and prometheus.Collector.
type Collector struct {
	requests      *prometheus.CounterVec
	decodeLatency *prometheus.HistogramVec
	decodedBytes  prometheus.Counter
	deliveries    *prometheus.CounterVec
	evictions     prometheus.Counter
	evictedBytes  prometheus.Counter
	queueDepth    prometheus.Gauge
	invalidations prometheus.Counter
}

// New creates a Collector whose metric names start with namespace.
// Register it with a prometheus.Registerer before use.
func New(namespace string) *Collector {
	return &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pixload",
			Name:      "requests_total",
			Help:      "LoadImage calls by cache result.",
		}, []string{"cache"}),
		decodeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pixload",
			Name:      "decode_duration_seconds",
			Help:      "Time from opening a source to a decoded image.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}, []string{"status"}),
		decodedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pixload",
			Name:      "decoded_bytes_total",
			Help:      "Pixel bytes produced by successful decodes.",
		}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pixload",
			Name:      "deliveries_total",
			Help:      "Results handed to display targets by outcome.",
		}, []string{"outcome"}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pixload",
			Name:      "cache_evictions_total",
			Help:      "Entries removed from the memory cache.",
		}),
		evictedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pixload",
			Name:      "cache_evicted_bytes_total",
			Help:      "Bytes released by memory cache evictions.",
		}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pixload",
			Name:      "queue_depth",
			Help:      "Pending requests after the last enqueue.",
		}),
		invalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pixload",
			Name:      "invalidations_total",
			Help:      "Cache entries dropped because their source changed.",
		}),
	}
}

func (c *Collector) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		c.requests, c.decodeLatency, c.decodedBytes, c.deliveries,
		c.evictions, c.evictedBytes, c.queueDepth, c.invalidations,
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.collectors() {
		m.Describe(ch)
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, m := range c.collectors() {
		m.Collect(ch)
	}
}

// RecordRequest implements pixload.MetricsCollector.
func (c *Collector) RecordRequest(hit bool) {
	if hit {
		c.requests.WithLabelValues("hit").Inc()
		return
	}
	c.requests.WithLabelValues("miss").Inc()
}

// RecordDecode implements pixload.MetricsCollector.
func (c *Collector) RecordDecode(d time.Duration, bytes int64, err error) {
	if err != nil {
		c.decodeLatency.WithLabelValues("error").Observe(d.Seconds())
		return
	}
	c.decodeLatency.WithLabelValues("ok").Observe(d.Seconds())
	c.decodedBytes.Add(float64(bytes))
}

// RecordDelivery implements pixload.MetricsCollector.
func (c *Collector) RecordDelivery(outcome string) {
	c.deliveries.WithLabelValues(outcome).Inc()
}

// RecordEviction implements pixload.MetricsCollector.
func (c *Collector) RecordEviction(bytes int64) {
	c.evictions.Inc()
	c.evictedBytes.Add(float64(bytes))
}

// RecordQueueDepth implements pixload.MetricsCollector.
func (c *Collector) RecordQueueDepth(depth int) {
	c.queueDepth.Set(float64(depth))
}

// RecordInvalidation implements pixload.MetricsCollector.
func (c *Collector) RecordInvalidation() {
	c.invalidations.Inc()
}
