package provider

// SinkMiddleware transforms a Sink by wrapping it.
type SinkMiddleware[I any] func(Sink[I]) Sink[I]

// ChainSink composes multiple middlewares into one. The first middleware is
// outermost: ChainSink(a, b, c)(sink) is a(b(c(sink))).
func ChainSink[I any](middlewares ...SinkMiddleware[I]) SinkMiddleware[I] {
	return func(inner Sink[I]) Sink[I] {
		for i := len(middlewares) - 1; i >= 0; i-- {
			inner = middlewares[i](inner)
		}
		return inner
	}
}
