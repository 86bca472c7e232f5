package provider

import (
	"context"

	"github.com/kbukum/jobreturn/config"
)

// Provider is the base interface all providers must implement.
type Provider interface {
	// Name returns the provider's unique name.
	Name() string
	// IsAvailable reports whether the provider's dependencies are usable.
	IsAvailable(ctx context.Context) bool
}

// Factory creates a provider that reads its settings from src.
type Factory[T Provider] func(src config.Source) (T, error)

// Capability checks that a dependency of a provider is present. A non-nil
// error makes the provider unavailable.
type Capability func() error
