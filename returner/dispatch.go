package returner

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/kbukum/jobreturn/config"
	"github.com/kbukum/jobreturn/logger"
	"github.com/kbukum/jobreturn/observability"
	"github.com/kbukum/jobreturn/provider"
)

// Dispatcher hands results to named returners.
type Dispatcher struct {
	registry    *Registry
	source      config.Source
	log         *logger.Logger
	metrics     *observability.Metrics
	serviceName string
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for dispatch logs.
func WithLogger(log *logger.Logger) Option {
	return func(d *Dispatcher) { d.log = log }
}

// WithMetrics records send metrics on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// WithServiceName sets the prefix of dispatch span names.
func WithServiceName(name string) Option {
	return func(d *Dispatcher) { d.serviceName = name }
}

// NewDispatcher creates a dispatcher over reg reading settings from src.
func NewDispatcher(reg *Registry, src config.Source, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry:    reg,
		source:      src,
		log:         logger.Get("returner"),
		serviceName: "minion",
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch validates r, creates the named returner and sends r once.
// A correlation id is generated unless ctx already carries one.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, r Result) error {
	if logger.CorrelationID(ctx) == "" {
		ctx = logger.WithCorrelationID(ctx, uuid.NewString())
	}
	log := d.log.WithContext(ctx).WithFields(map[string]interface{}{
		logger.FieldReturner: name,
		logger.FieldMinionID: r.ID,
		logger.FieldJobID:    r.JID,
	})

	if err := r.Validate(); err != nil {
		log.Error("invalid job result", logger.Fields(logger.FieldError, err.Error()))
		return err
	}

	ret, err := d.registry.Create(name, d.source)
	if err != nil {
		log.Error("returner unavailable", logger.Fields(logger.FieldError, err.Error()))
		return err
	}

	middlewares := []provider.SinkMiddleware[Result]{
		provider.WithSinkLogging[Result](d.log),
		provider.WithSinkTracing[Result](d.serviceName),
	}
	if d.metrics != nil {
		middlewares = append(middlewares, provider.WithSinkMetrics[Result](d.metrics))
	}
	return provider.ChainSink(middlewares...)(ret).Send(ctx, r)
}

// DispatchAll sends r to every returner in names, which may also be given
// as one comma-separated string ("mongo,xmpp"). Every returner is tried;
// the failures are returned together.
func (d *Dispatcher) DispatchAll(ctx context.Context, names []string, r Result) error {
	if logger.CorrelationID(ctx) == "" {
		ctx = logger.WithCorrelationID(ctx, uuid.NewString())
	}
	var mErr multierror.Error
	for _, name := range splitNames(names) {
		if err := d.Dispatch(ctx, name, r); err != nil {
			mErr.Errors = append(mErr.Errors, err)
		}
	}
	return mErr.ErrorOrNil()
}

// Dispatch sends r once to the named returner of reg.
func Dispatch(ctx context.Context, reg *Registry, src config.Source, name string, r Result) error {
	return NewDispatcher(reg, src).Dispatch(ctx, name, r)
}

func splitNames(names []string) []string {
	var out []string
	for _, n := range names {
		for _, part := range strings.Split(n, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
