// Package metrics defines the instrumentation points used by the taskpool
// library and ships three implementations: a no-op provider (the default), an
// in-memory provider for tests and lightweight apps, and a Prometheus-backed
// provider for production scraping.
package metrics

// Provider constructs instruments used to record measurements.
// Implementations must be safe for concurrent use. Instruments are looked up
// by name; asking for the same name twice returns the same instrument.
type Provider interface {
	Counter(name string, opts ...Option) Counter
	Gauge(name string, opts ...Option) Gauge
	Histogram(name string, opts ...Option) Histogram
}

// Counter records monotonic counts.
type Counter interface {
	Inc()
	Add(n int64)
}

// Gauge records a value that can move both ways, e.g. current queue depth.
type Gauge interface {
	Set(v float64)
	Add(v float64)
}

// Histogram records a distribution of measurements, e.g. durations in seconds.
type Histogram interface {
	Observe(v float64)
}

// Config carries optional instrument metadata. Providers may ignore any of it.
type Config struct {
	Help string
	Unit string
	// Labels are static key-value pairs attached to the instrument itself.
	// Keep cardinality bounded.
	Labels map[string]string
}

// Option mutates Config.
type Option func(*Config)

// WithHelp sets a human-readable description for the instrument.
func WithHelp(help string) Option {
	return func(c *Config) { c.Help = help }
}

// WithUnit sets an advisory unit for the instrument (e.g. "1", "seconds").
func WithUnit(unit string) Option {
	return func(c *Config) { c.Unit = unit }
}

// WithLabels attaches static labels to the instrument.
func WithLabels(labels map[string]string) Option {
	return func(c *Config) {
		if len(labels) == 0 {
			return
		}
		if c.Labels == nil {
			c.Labels = make(map[string]string, len(labels))
		}
		for k, v := range labels {
			c.Labels[k] = v
		}
	}
}

func buildConfig(opts []Option) Config {
	var cfg Config
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}
	return cfg
}

// Nop returns a Provider whose instruments discard every measurement.
func Nop() Provider { return nopProvider{} }

type nopProvider struct{}

func (nopProvider) Counter(string, ...Option) Counter     { return nopCounter{} }
func (nopProvider) Gauge(string, ...Option) Gauge         { return nopGauge{} }
func (nopProvider) Histogram(string, ...Option) Histogram { return nopHistogram{} }

type nopCounter struct{}

func (nopCounter) Inc()      {}
func (nopCounter) Add(int64) {}

type nopGauge struct{}

func (nopGauge) Set(float64) {}
func (nopGauge) Add(float64) {}

type nopHistogram struct{}

func (nopHistogram) Observe(float64) {}
