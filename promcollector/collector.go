// Package promcollector exports rawmem allocation metrics to Prometheus.
package promcollector

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hupe1980/rawmem"
)

const (
	resultOK     = "ok"
	resultFailed = "failed"
)

var _ rawmem.MetricsCollector = (*Collector)(nil)

// Collector implements rawmem.MetricsCollector with Prometheus counters.
type Collector struct {
	allocations    *prometheus.CounterVec
	reallocations  *prometheus.CounterVec
	frees          prometheus.Counter
	outOfMemory    prometheus.Counter
	requestedBytes prometheus.Counter
}

// New creates a Collector and registers its metrics with reg. A nil reg
// creates unregistered metrics, which is useful in tests.
//
//	reg := prometheus.NewRegistry()
//	a := rawmem.New(rawmem.WithMetricsCollector(promcollector.New(reg)))
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		allocations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rawmem_allocations_total",
			Help: "Number of allocation attempts by result",
		}, []string{"result"}),
		reallocations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rawmem_reallocations_total",
			Help: "Number of reallocation attempts by result",
		}, []string{"result"}),
		frees: factory.NewCounter(prometheus.CounterOpts{
			Name: "rawmem_frees_total",
			Help: "Number of regions released",
		}),
		outOfMemory: factory.NewCounter(prometheus.CounterOpts{
			Name: "rawmem_out_of_memory_total",
			Help: "Number of out of memory panics raised by promoting variants",
		}),
		requestedBytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "rawmem_requested_bytes_total",
			Help: "Bytes requested by successful allocations and reallocations",
		}),
	}
}

func result(ok bool) string {
	if ok {
		return resultOK
	}
	return resultFailed
}

// RecordAlloc implements rawmem.MetricsCollector.
func (c *Collector) RecordAlloc(size uintptr, ok bool) {
	c.allocations.WithLabelValues(result(ok)).Inc()
	if ok {
		c.requestedBytes.Add(float64(size))
	}
}

// RecordRealloc implements rawmem.MetricsCollector.
func (c *Collector) RecordRealloc(size uintptr, ok bool) {
	c.reallocations.WithLabelValues(result(ok)).Inc()
	if ok {
		c.requestedBytes.Add(float64(size))
	}
}

// RecordFree implements rawmem.MetricsCollector.
func (c *Collector) RecordFree() {
	c.frees.Inc()
}

// RecordOutOfMemory implements rawmem.MetricsCollector.
func (c *Collector) RecordOutOfMemory(uintptr) {
	c.outOfMemory.Inc()
}
