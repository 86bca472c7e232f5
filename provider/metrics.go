package provider

import (
	"context"
	"time"

	"github.com/kbukum/jobreturn/errors"
	"github.com/kbukum/jobreturn/observability"
)

// WithSinkMetrics returns a SinkMiddleware that records send count,
// duration and failures by error code.
func WithSinkMetrics[I any](metrics *observability.Metrics) SinkMiddleware[I] {
	return func(inner Sink[I]) Sink[I] {
		return &metricsSink[I]{inner: inner, metrics: metrics}
	}
}

type metricsSink[I any] struct {
	inner   Sink[I]
	metrics *observability.Metrics
}

func (m *metricsSink[I]) Name() string                         { return m.inner.Name() }
func (m *metricsSink[I]) IsAvailable(ctx context.Context) bool { return m.inner.IsAvailable(ctx) }

func (m *metricsSink[I]) Send(ctx context.Context, input I) error {
	name := m.inner.Name()
	m.metrics.RecordSendStart(ctx, name)
	start := time.Now()
	err := m.inner.Send(ctx, input)

	status := "ok"
	if err != nil {
		status = "error"
		code := string(errors.ErrCodeInternal)
		if appErr, ok := errors.AsAppError(err); ok {
			code = string(appErr.Code)
		}
		m.metrics.RecordError(ctx, name, code)
	}
	m.metrics.RecordSend(ctx, name, status, time.Since(start))
	return err
}
