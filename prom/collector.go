// Package prom exports arena metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	m := prom.NewCollector(reg, "myapp")
//	a, err := arena.New(cfg, arena.WithMetrics(m))
package prom

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hupe1980/arena"
)

// Collector implements arena.MetricsCollector on Prometheus metrics.
// One Collector may be shared by many arenas.
type Collector struct {
	pushes       *prometheus.CounterVec
	pushedBytes  prometheus.Counter
	poppedBytes  prometheus.Counter
	grownBytes   prometheus.Counter
	shrunkBytes  prometheus.Counter
	backingBytes prometheus.Gauge
}

var _ arena.MetricsCollector = (*Collector)(nil)

// NewCollector creates the metrics and registers them with reg.
// A nil reg creates unregistered metrics.
func NewCollector(reg prometheus.Registerer, namespace string) *Collector {
	return &Collector{
		pushes: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "arena_pushes_total",
			Help:      "Total number of arena push operations, by result.",
		}, []string{"result"}),
		pushedBytes: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "arena_pushed_bytes_total",
			Help:      "Total number of bytes handed out by successful pushes.",
		}),
		poppedBytes: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "arena_popped_bytes_total",
			Help:      "Total number of bytes released by pop, reset and temp end.",
		}),
		grownBytes: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "arena_backing_grown_bytes_total",
			Help:      "Total number of backing bytes committed or allocated.",
		}),
		shrunkBytes: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "arena_backing_shrunk_bytes_total",
			Help:      "Total number of backing bytes decommitted or freed.",
		}),
		backingBytes: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "arena_backing_bytes",
			Help:      "Backing bytes currently held by all arenas using this collector.",
		}),
	}
}

// RecordPush implements arena.MetricsCollector.
func (c *Collector) RecordPush(size uint64, err error) {
	if err != nil {
		c.pushes.WithLabelValues(failureReason(err)).Inc()
		return
	}
	c.pushes.WithLabelValues("success").Inc()
	c.pushedBytes.Add(float64(size))
}

// RecordPop implements arena.MetricsCollector.
func (c *Collector) RecordPop(bytes uint64) {
	c.poppedBytes.Add(float64(bytes))
}

// RecordGrow implements arena.MetricsCollector.
func (c *Collector) RecordGrow(bytes uint64) {
	c.grownBytes.Add(float64(bytes))
	c.backingBytes.Add(float64(bytes))
}

// RecordShrink implements arena.MetricsCollector.
func (c *Collector) RecordShrink(bytes uint64) {
	c.shrunkBytes.Add(float64(bytes))
	c.backingBytes.Sub(float64(bytes))
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, arena.ErrOutOfMemory):
		return "out_of_memory"
	case errors.Is(err, arena.ErrCommitFailed):
		return "commit_failed"
	case errors.Is(err, arena.ErrAllocFailed):
		return "alloc_failed"
	case errors.Is(err, arena.ErrOutOfNodes):
		return "out_of_nodes"
	default:
		return "error"
	}
}
