package provider

import (
	"context"
	"time"

	"github.com/kbukum/jobreturn/logger"
)

// WithSinkLogging returns a SinkMiddleware that logs each Send with the
// provider name, duration and outcome.
func WithSinkLogging[I any](log *logger.Logger) SinkMiddleware[I] {
	return func(inner Sink[I]) Sink[I] {
		return &loggingSink[I]{inner: inner, log: log}
	}
}

type loggingSink[I any] struct {
	inner Sink[I]
	log   *logger.Logger
}

func (l *loggingSink[I]) Name() string                         { return l.inner.Name() }
func (l *loggingSink[I]) IsAvailable(ctx context.Context) bool { return l.inner.IsAvailable(ctx) }

func (l *loggingSink[I]) Send(ctx context.Context, input I) error {
	start := time.Now()
	err := l.inner.Send(ctx, input)

	fields := map[string]interface{}{
		logger.FieldReturner: l.inner.Name(),
		logger.FieldDuration: time.Since(start).Milliseconds(),
	}
	log := l.log.WithContext(ctx)
	if err != nil {
		fields[logger.FieldError] = err.Error()
		log.Error("returner send failed", fields)
	} else {
		log.Debug("returner send ok", fields)
	}
	return err
}
