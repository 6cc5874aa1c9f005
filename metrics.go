package arena

import (
	"go.uber.org/atomic"
)

// MetricsCollector defines an interface for collecting arena metrics.
// Implement this interface to integrate with monitoring systems; the prom
// package provides a Prometheus implementation.
//
// Collectors are shared by every arena they are attached to and must be
// safe for concurrent use.
type MetricsCollector interface {
	// RecordPush is called after each push. err is nil if successful.
	RecordPush(size uint64, err error)

	// RecordPop is called with the number of bytes released by a pop,
	// pop-to, reset or temp end.
	RecordPop(bytes uint64)

	// RecordGrow is called when backing storage is added (pages committed
	// or a chain node allocated).
	RecordGrow(bytes uint64)

	// RecordShrink is called when backing storage is given back.
	RecordShrink(bytes uint64)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordPush(uint64, error) {}
func (NoopMetricsCollector) RecordPop(uint64)         {}
func (NoopMetricsCollector) RecordGrow(uint64)        {}
func (NoopMetricsCollector) RecordShrink(uint64)      {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	PushCount    atomic.Int64
	PushErrors   atomic.Int64
	PushedBytes  atomic.Uint64
	PoppedBytes  atomic.Uint64
	GrownBytes   atomic.Uint64
	ShrunkBytes  atomic.Uint64
	BackingBytes atomic.Int64
}

// RecordPush implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPush(size uint64, err error) {
	b.PushCount.Inc()
	if err != nil {
		b.PushErrors.Inc()
		return
	}
	b.PushedBytes.Add(size)
}

// RecordPop implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPop(bytes uint64) {
	b.PoppedBytes.Add(bytes)
}

// RecordGrow implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGrow(bytes uint64) {
	b.GrownBytes.Add(bytes)
	b.BackingBytes.Add(int64(bytes))
}

// RecordShrink implements MetricsCollector.
func (b *BasicMetricsCollector) RecordShrink(bytes uint64) {
	b.ShrunkBytes.Add(bytes)
	b.BackingBytes.Sub(int64(bytes))
}

// BasicMetricsStats is a point-in-time snapshot of BasicMetricsCollector.
type BasicMetricsStats struct {
	PushCount    int64
	PushErrors   int64
	PushedBytes  uint64
	PoppedBytes  uint64
	GrownBytes   uint64
	ShrunkBytes  uint64
	BackingBytes int64
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		PushCount:    b.PushCount.Load(),
		PushErrors:   b.PushErrors.Load(),
		PushedBytes:  b.PushedBytes.Load(),
		PoppedBytes:  b.PoppedBytes.Load(),
		GrownBytes:   b.GrownBytes.Load(),
		ShrunkBytes:  b.ShrunkBytes.Load(),
		BackingBytes: b.BackingBytes.Load(),
	}
}
