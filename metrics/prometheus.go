package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusProvider adapts Provider onto a prometheus.Registerer so pool
// instruments show up on an application's scrape endpoint. Instruments are
// registered lazily, on first use, and cached by name.
type PrometheusProvider struct {
	reg prometheus.Registerer

	mu         sync.Mutex
	counters   map[string]prometheus.Counter
	gauges     map[string]prometheus.Gauge
	histograms map[string]prometheus.Histogram
}

// NewPrometheusProvider constructs a provider registering instruments on reg.
// Passing prometheus.DefaultRegisterer is the common choice; tests usually
// pass a fresh prometheus.NewRegistry().
func NewPrometheusProvider(reg prometheus.Registerer) *PrometheusProvider {
	return &PrometheusProvider{
		reg:        reg,
		counters:   make(map[string]prometheus.Counter),
		gauges:     make(map[string]prometheus.Gauge),
		histograms: make(map[string]prometheus.Histogram),
	}
}

func (p *PrometheusProvider) Counter(name string, opts ...Option) Counter {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.counters[name]
	if !ok {
		cfg := buildConfig(opts)
		c = prometheus.NewCounter(prometheus.CounterOpts{
			Name:        name,
			Help:        cfg.Help,
			ConstLabels: prometheus.Labels(cfg.Labels),
		})
		p.reg.MustRegister(c)
		p.counters[name] = c
	}
	return promCounter{c}
}

func (p *PrometheusProvider) Gauge(name string, opts ...Option) Gauge {
	p.mu.Lock()
	defer p.mu.Unlock()
	g, ok := p.gauges[name]
	if !ok {
		cfg := buildConfig(opts)
		g = prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        name,
			Help:        cfg.Help,
			ConstLabels: prometheus.Labels(cfg.Labels),
		})
		p.reg.MustRegister(g)
		p.gauges[name] = g
	}
	return promGauge{g}
}

func (p *PrometheusProvider) Histogram(name string, opts ...Option) Histogram {
	p.mu.Lock()
	defer p.mu.Unlock()
	h, ok := p.histograms[name]
	if !ok {
		cfg := buildConfig(opts)
		h = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        name,
			Help:        cfg.Help,
			ConstLabels: prometheus.Labels(cfg.Labels),
			Buckets:     prometheus.DefBuckets,
		})
		p.reg.MustRegister(h)
		p.histograms[name] = h
	}
	return promHistogram{h}
}

type promCounter struct{ c prometheus.Counter }

func (w promCounter) Inc()        { w.c.Inc() }
func (w promCounter) Add(n int64) { w.c.Add(float64(n)) }

type promGauge struct{ g prometheus.Gauge }

func (w promGauge) Set(v float64) { w.g.Set(v) }
func (w promGauge) Add(v float64) { w.g.Add(v) }

type promHistogram struct{ h prometheus.Histogram }

func (w promHistogram) Observe(v float64) { w.h.Observe(v) }
