package provider

import "context"

// Sink represents a provider that accepts input with no meaningful output:
// a database insert, a chat message.
type Sink[I any] interface {
	Provider
	Send(ctx context.Context, input I) error
}
