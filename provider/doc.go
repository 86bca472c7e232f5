// Package provider is the small plugin framework returners are built on.
//
// A Sink[I] accepts one input and reports only success or failure. Sinks are
// created through a Registry of named factories; every factory may carry
// capability checks that run before construction, so a sink whose
// dependency is missing is reported as unavailable instead of being built:
//
//	reg := provider.NewRegistry[Returner]()
//	reg.RegisterFactory("mongo", newMongo, mongoDriverCheck)
//	r, err := reg.Create("mongo", src) // UNAVAILABLE when the check fails
//
// # Middleware
//
// SinkMiddleware[I] wraps a sink. ChainSink composes several, the first
// being outermost:
//
//	wrapped := provider.ChainSink(
//	    provider.WithSinkLogging[Result](log),
//	    provider.WithSinkMetrics[Result](metrics),
//	    provider.WithSinkTracing[Result]("minion"),
//	)(sink)
package provider
