package pixload

import (
	"sync/atomic"
	"time"
)

// Delivery outcomes passed to MetricsCollector.RecordDelivery.
const (
	DeliveryApplied = "applied"
	DeliveryStale   = "stale"
	DeliveryEmpty   = "empty"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus;
// see the prommetrics package for a ready-made implementation.
//
// Methods are called from worker and owner goroutines concurrently and
// must not block.
type MetricsCollector interface {
	// RecordRequest is called for every LoadImage call.
	RecordRequest(hit bool)

	// RecordDecode is called after each decode attempt.
	// bytes is the footprint of the decoded image, err is nil if successful.
	RecordDecode(duration time.Duration, bytes int64, err error)

	// RecordDelivery is called on the owner goroutine with one of
	// DeliveryApplied, DeliveryStale or DeliveryEmpty.
	RecordDelivery(outcome string)

	// RecordEviction is called when an entry leaves the memory cache.
	RecordEviction(bytes int64)

	// RecordQueueDepth is called with the queue length after every enqueue.
	RecordQueueDepth(depth int)

	// RecordInvalidation is called when a changed source drops a cache entry.
	RecordInvalidation()
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRequest(bool)                       {}
func (NoopMetricsCollector) RecordDecode(time.Duration, int64, error) {}
func (NoopMetricsCollector) RecordDelivery(string)                    {}
func (NoopMetricsCollector) RecordEviction(int64)                     {}
func (NoopMetricsCollector) RecordQueueDepth(int)                     {}
func (NoopMetricsCollector) RecordInvalidation()                      {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	Requests         atomic.Int64
	CacheHits        atomic.Int64
	DecodeCount      atomic.Int64
	DecodeErrors     atomic.Int64
	DecodeTotalNanos atomic.Int64
	DecodedBytes     atomic.Int64
	Applied          atomic.Int64
	Stale            atomic.Int64
	Empty            atomic.Int64
	Evictions        atomic.Int64
	EvictedBytes     atomic.Int64
	MaxQueueDepth    atomic.Int64
	Invalidations    atomic.Int64
}

// RecordRequest implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRequest(hit bool) {
	b.Requests.Add(1)
	if hit {
		b.CacheHits.Add(1)
	}
}

// RecordDecode implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDecode(duration time.Duration, bytes int64, err error) {
	b.DecodeCount.Add(1)
	b.DecodeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.DecodeErrors.Add(1)
		return
	}
	b.DecodedBytes.Add(bytes)
}

// RecordDelivery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDelivery(outcome string) {
	switch outcome {
	case DeliveryApplied:
		b.Applied.Add(1)
	case DeliveryStale:
		b.Stale.Add(1)
	case DeliveryEmpty:
		b.Empty.Add(1)
	}
}

// RecordEviction implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEviction(bytes int64) {
	b.Evictions.Add(1)
	b.EvictedBytes.Add(bytes)
}

// RecordQueueDepth implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQueueDepth(depth int) {
	d := int64(depth)
	for {
		cur := b.MaxQueueDepth.Load()
		if d <= cur || b.MaxQueueDepth.CompareAndSwap(cur, d) {
			return
		}
	}
}

// RecordInvalidation implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInvalidation() {
	b.Invalidations.Add(1)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		Requests:       b.Requests.Load(),
		CacheHits:      b.CacheHits.Load(),
		DecodeCount:    b.DecodeCount.Load(),
		DecodeErrors:   b.DecodeErrors.Load(),
		DecodeAvgNanos: b.getAvgDecodeNanos(),
		DecodedBytes:   b.DecodedBytes.Load(),
		Applied:        b.Applied.Load(),
		Stale:          b.Stale.Load(),
		Empty:          b.Empty.Load(),
		Evictions:      b.Evictions.Load(),
		EvictedBytes:   b.EvictedBytes.Load(),
		MaxQueueDepth:  b.MaxQueueDepth.Load(),
		Invalidations:  b.Invalidations.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgDecodeNanos() int64 {
	count := b.DecodeCount.Load()
	if count == 0 {
		return 0
	}
	return b.DecodeTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	Requests       int64
	CacheHits      int64
	DecodeCount    int64
	DecodeErrors   int64
	DecodeAvgNanos int64
	DecodedBytes   int64
	Applied        int64
	Stale          int64
	Empty          int64
	Evictions      int64
	EvictedBytes   int64
	MaxQueueDepth  int64
	Invalidations  int64
}
