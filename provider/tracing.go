package provider

import (
	"context"

	"github.com/kbukum/jobreturn/logger"
	"github.com/kbukum/jobreturn/observability"
)

// WithSinkTracing returns a SinkMiddleware that opens a span named
// "{serviceName}.{providerName}" around each Send.
func WithSinkTracing[I any](serviceName string) SinkMiddleware[I] {
	return func(inner Sink[I]) Sink[I] {
		return &tracingSink[I]{inner: inner, serviceName: serviceName}
	}
}

type tracingSink[I any] struct {
	inner       Sink[I]
	serviceName string
}

func (t *tracingSink[I]) Name() string                         { return t.inner.Name() }
func (t *tracingSink[I]) IsAvailable(ctx context.Context) bool { return t.inner.IsAvailable(ctx) }

func (t *tracingSink[I]) Send(ctx context.Context, input I) error {
	ctx, span := observability.StartSpan(ctx, t.serviceName+"."+t.inner.Name())
	defer span.End()

	observability.SetSpanAttribute(ctx, observability.AttrReturner, t.inner.Name())
	if id := logger.CorrelationID(ctx); id != "" {
		observability.SetSpanAttribute(ctx, observability.AttrCorrelationID, id)
	}

	err := t.inner.Send(ctx, input)
	observability.SetSpanError(ctx, err)
	return err
}
