package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/kbukum/jobreturn/config"
	"github.com/kbukum/jobreturn/logger"
	"github.com/kbukum/jobreturn/mongo"
	"github.com/kbukum/jobreturn/observability"
	"github.com/kbukum/jobreturn/returner"
	"github.com/kbukum/jobreturn/version"
	"github.com/kbukum/jobreturn/xmpp"
)

// App is a configured agent able to hand job results to returners.
type App struct {
	Name       string
	Version    string
	Cfg        Config
	Source     config.Source
	Registry   *returner.Registry
	Dispatcher *returner.Dispatcher
	Logger     *logger.Logger
	Summary    *Summary

	onStop []Hook
}

// NewApp loads the configuration of serviceName, initializes logging and
// telemetry, and registers the built-in returners.
func NewApp(ctx context.Context, serviceName string, opts ...Option) (*App, error) {
	start := time.Now()
	o := resolveOptions(opts)

	src, cfg, err := loadConfig(serviceName, o)
	if err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	app := &App{
		Name:    cfg.Name,
		Version: version.GetVersionInfo().Version,
		Cfg:     cfg,
		Source:  src,
	}
	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(cfg.Logging)
		app.Logger = logger.GetGlobalLogger()
	}
	app.Summary = NewSummary(app.Name, app.Version)

	metrics, err := app.initTelemetry(ctx)
	if err != nil {
		_ = app.Shutdown(context.WithoutCancel(ctx))
		return nil, err
	}

	app.Registry = o.registry
	if app.Registry == nil {
		app.Registry = BuiltinRegistry()
	}
	for _, name := range app.Registry.List() {
		app.Summary.AddReturner(name, app.Registry.Available(name))
	}

	dispOpts := []returner.Option{
		returner.WithLogger(app.Logger.WithComponent("returner")),
		returner.WithServiceName(app.Name),
	}
	if metrics != nil {
		dispOpts = append(dispOpts, returner.WithMetrics(metrics))
	}
	app.Dispatcher = returner.NewDispatcher(app.Registry, src, dispOpts...)

	app.Summary.SetStartupDuration(time.Since(start))
	app.Summary.Log(app.Logger)
	return app, nil
}

// BuiltinRegistry returns a registry holding the mongo and xmpp returners.
func BuiltinRegistry() *returner.Registry {
	reg := returner.NewRegistry()
	mongo.Register(reg)
	xmpp.Register(reg)
	return reg
}

// Return sends r to every returner named in spec, a comma-separated list
// such as "mongo,xmpp".
func (a *App) Return(ctx context.Context, spec string, r returner.Result) error {
	return a.Dispatcher.DispatchAll(ctx, strings.Split(spec, ","), r)
}

// Shutdown runs the stop hooks, flushing telemetry exporters.
func (a *App) Shutdown(ctx context.Context) error {
	hooks := a.onStop
	a.onStop = nil
	if err := runHooksReverse(ctx, hooks); err != nil {
		a.Logger.Error("shutdown failed", logger.ErrorFields("shutdown", err))
		return err
	}
	return nil
}

func (a *App) initTelemetry(ctx context.Context) (*observability.Metrics, error) {
	if a.Cfg.Tracing.Enabled {
		tp, err := observability.InitTracer(ctx, a.Cfg.Tracing.TracerConfig)
		if err != nil {
			return nil, fmt.Errorf("init tracing: %w", err)
		}
		a.OnStop(tp.Shutdown)
		a.Summary.AddTelemetry("tracing -> " + a.Cfg.Tracing.Endpoint)
	}
	if !a.Cfg.Metrics.Enabled {
		return nil, nil
	}
	mp, err := observability.InitMeter(ctx, a.Cfg.Metrics.MeterConfig)
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	a.OnStop(mp.Shutdown)
	a.Summary.AddTelemetry("metrics -> " + a.Cfg.Metrics.Endpoint)
	return observability.NewMetrics(observability.Meter(a.Name))
}

// loadConfig returns the options source and the agent config decoded
// from it on top of DefaultConfig.
func loadConfig(serviceName string, o *appOptions) (config.Source, Config, error) {
	cfg := DefaultConfig(serviceName)
	if o.source != nil {
		if o.cfg != nil {
			cfg = *o.cfg
		}
		if cfg.Name == "" {
			cfg.Name = serviceName
		}
		return o.source, cfg, nil
	}

	src, err := config.LoadSource(serviceName, o.loaderOps...)
	if err != nil {
		return nil, cfg, fmt.Errorf("load config: %w", err)
	}
	if err := src.Viper().Unmarshal(&cfg, viper.DecodeHook(config.DecodeHook())); err != nil {
		return nil, cfg, fmt.Errorf("failed to unmarshal config for %s: %w", serviceName, err)
	}
	if cfg.Name == "" {
		cfg.Name = serviceName
	}
	return src, cfg, nil
}
