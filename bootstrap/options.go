package bootstrap

import (
	"github.com/kbukum/jobreturn/config"
	"github.com/kbukum/jobreturn/logger"
	"github.com/kbukum/jobreturn/returner"
)

// Option configures the App during creation.
type Option func(*appOptions)

type appOptions struct {
	logger    *logger.Logger
	source    config.Source
	cfg       *Config
	registry  *returner.Registry
	loaderOps []config.LoaderOption
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger for the application.
// If not set, the global logger is initialized from the Logging section.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) { o.logger = l }
}

// WithSource uses src instead of loading files and environment. The agent
// config is then taken from WithConfig, or defaults.
func WithSource(src config.Source) Option {
	return func(o *appOptions) { o.source = src }
}

// WithConfig sets the agent config when the options come from WithSource.
// Start from DefaultConfig to keep the defaults that ApplyDefaults cannot
// tell apart from deliberate zero values.
func WithConfig(cfg Config) Option {
	return func(o *appOptions) { o.cfg = &cfg }
}

// WithRegistry replaces the registry of built-in returners.
func WithRegistry(reg *returner.Registry) Option {
	return func(o *appOptions) { o.registry = reg }
}

// WithLoaderOptions passes options to the config loader.
func WithLoaderOptions(opts ...config.LoaderOption) Option {
	return func(o *appOptions) { o.loaderOps = append(o.loaderOps, opts...) }
}
