package metrics

import (
	"math"
	"sync"
	"sync/atomic"
)

// BasicProvider is an in-memory Provider. It is concurrency-safe and intended
// for tests, examples, and applications that poll snapshots themselves rather
// than exposing a scrape endpoint. Instruments are created on first use and
// reused by name; options are stored but advisory.
type BasicProvider struct {
	mu         sync.Mutex
	counters   map[string]*BasicCounter
	gauges     map[string]*BasicGauge
	histograms map[string]*BasicHistogram
	configs    map[string]Config
}

// NewBasicProvider constructs an empty BasicProvider.
func NewBasicProvider() *BasicProvider {
	return &BasicProvider{
		counters:   make(map[string]*BasicCounter),
		gauges:     make(map[string]*BasicGauge),
		histograms: make(map[string]*BasicHistogram),
		configs:    make(map[string]Config),
	}
}

// Counter returns the monotonic counter registered under name, creating it on
// first use.
func (p *BasicProvider) Counter(name string, opts ...Option) Counter {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.counters[name]
	if !ok {
		c = &BasicCounter{}
		p.counters[name] = c
		p.configs[name] = buildConfig(opts)
	}
	return c
}

// Gauge returns the gauge registered under name, creating it on first use.
func (p *BasicProvider) Gauge(name string, opts ...Option) Gauge {
	p.mu.Lock()
	defer p.mu.Unlock()
	g, ok := p.gauges[name]
	if !ok {
		g = &BasicGauge{}
		p.gauges[name] = g
		p.configs[name] = buildConfig(opts)
	}
	return g
}

// Histogram returns the histogram registered under name, creating it on first use.
func (p *BasicProvider) Histogram(name string, opts ...Option) Histogram {
	p.mu.Lock()
	defer p.mu.Unlock()
	h, ok := p.histograms[name]
	if !ok {
		h = &BasicHistogram{min: math.Inf(1), max: math.Inf(-1)}
		p.histograms[name] = h
		p.configs[name] = buildConfig(opts)
	}
	return h
}

// BasicCounter is a thread-safe monotonic counter.
type BasicCounter struct {
	val atomic.Int64
}

func (c *BasicCounter) Inc()        { c.val.Add(1) }
func (c *BasicCounter) Add(n int64) { c.val.Add(n) }

// Value returns the current count.
func (c *BasicCounter) Value() int64 { return c.val.Load() }

// BasicGauge is a thread-safe gauge.
type BasicGauge struct {
	mu  sync.Mutex
	val float64
}

func (g *BasicGauge) Set(v float64) {
	g.mu.Lock()
	g.val = v
	g.mu.Unlock()
}

func (g *BasicGauge) Add(v float64) {
	g.mu.Lock()
	g.val += v
	g.mu.Unlock()
}

// Value returns the current gauge value.
func (g *BasicGauge) Value() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.val
}

// BasicHistogram tracks count, sum, min, and max of observations. It keeps no
// buckets; it is a lightweight aggregator, not a quantile estimator.
type BasicHistogram struct {
	mu    sync.Mutex
	count int64
	sum   float64
	min   float64
	max   float64
}

func (h *BasicHistogram) Observe(v float64) {
	h.mu.Lock()
	if v < h.min {
		h.min = v
	}
	if v > h.max {
		h.max = v
	}
	h.count++
	h.sum += v
	h.mu.Unlock()
}

// Summary is an immutable snapshot of a BasicHistogram.
type Summary struct {
	Count int64
	Sum   float64
	Min   float64
	Max   float64
	Mean  float64
}

// Snapshot returns the histogram state at the time of the call.
func (h *BasicHistogram) Snapshot() Summary {
	h.mu.Lock()
	s := Summary{Count: h.count, Sum: h.sum, Min: h.min, Max: h.max}
	h.mu.Unlock()
	if s.Count > 0 {
		s.Mean = s.Sum / float64(s.Count)
	}
	return s
}
