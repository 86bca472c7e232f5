package returner

import (
	"github.com/kbukum/jobreturn/provider"
)

// Returner delivers one Result to an external system per Send.
type Returner = provider.Sink[Result]

// Registry holds the returner factories known to the agent.
type Registry = provider.Registry[Returner]

// Factory builds a returner reading its settings from a config.Source.
type Factory = provider.Factory[Returner]

// NewRegistry creates an empty returner registry.
func NewRegistry() *Registry {
	return provider.NewRegistry[Returner]()
}
