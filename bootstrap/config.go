package bootstrap

import (
	"fmt"

	"github.com/kbukum/jobreturn/config"
	"github.com/kbukum/jobreturn/observability"
)

// Config is the agent configuration read at startup.
//
//	name: minion
//	logging:
//	  level: debug
//	tracing:
//	  enabled: true
//	  endpoint: otel-collector:4318
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// TracingConfig enables OTLP trace export.
type TracingConfig struct {
	Enabled                    bool `yaml:"enabled" mapstructure:"enabled"`
	observability.TracerConfig `yaml:",inline" mapstructure:",squash"`
}

// MetricsConfig enables OTLP metric export.
type MetricsConfig struct {
	Enabled                   bool `yaml:"enabled" mapstructure:"enabled"`
	observability.MeterConfig `yaml:",inline" mapstructure:",squash"`
}

// DefaultConfig returns the configuration NewApp starts from before the
// loaded values are applied. Settings whose zero value is meaningful, such
// as a tracing sample rate of 0, are only defaulted here.
func DefaultConfig(serviceName string) Config {
	var c Config
	c.Name = serviceName
	c.Tracing.SampleRate = observability.DefaultTracerConfig(serviceName).SampleRate
	return c
}

// ApplyDefaults applies default values. It leaves the tracing sample rate
// alone; 0 disables sampling.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()

	tracing := observability.DefaultTracerConfig(c.Name)
	tracing.Environment = c.Environment
	fillTracer(&c.Tracing.TracerConfig, tracing)

	metrics := observability.DefaultMeterConfig(c.Name)
	metrics.Environment = c.Environment
	fillMeter(&c.Metrics.MeterConfig, metrics)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if c.Tracing.Enabled && (c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1) {
		return fmt.Errorf("config.tracing.sample_rate must be between 0 and 1 (got: %v)", c.Tracing.SampleRate)
	}
	if c.Metrics.Enabled && c.Metrics.Interval < 0 {
		return fmt.Errorf("config.metrics.interval must not be negative (got: %s)", c.Metrics.Interval)
	}
	return nil
}

func fillTracer(c *observability.TracerConfig, d observability.TracerConfig) {
	if c.ServiceName == "" {
		c.ServiceName = d.ServiceName
	}
	if c.ServiceVersion == "" {
		c.ServiceVersion = d.ServiceVersion
	}
	if c.Environment == "" {
		c.Environment = d.Environment
	}
	if c.Endpoint == "" {
		c.Endpoint = d.Endpoint
		c.Insecure = d.Insecure
	}
}

func fillMeter(c *observability.MeterConfig, d observability.MeterConfig) {
	if c.ServiceName == "" {
		c.ServiceName = d.ServiceName
	}
	if c.ServiceVersion == "" {
		c.ServiceVersion = d.ServiceVersion
	}
	if c.Environment == "" {
		c.Environment = d.Environment
	}
	if c.Endpoint == "" {
		c.Endpoint = d.Endpoint
		c.Insecure = d.Insecure
	}
	if c.Interval == 0 {
		c.Interval = d.Interval
	}
}
