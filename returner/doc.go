// Package returner defines the job result record and the plumbing that
// hands a result to a named returner.
//
// A returner is a provider.Sink[Result]: it resolves its connection
// settings, opens a connection, performs one write or send and closes the
// connection again. Returners are registered in a Registry behind capability
// checks and invoked through a Dispatcher, which tags every dispatch with a
// correlation id and wraps the returner with logging, tracing and metrics:
//
//	d := returner.NewDispatcher(reg, src, returner.WithLogger(log))
//	err := d.Dispatch(ctx, "mongo", result)
package returner
