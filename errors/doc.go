// Package errors provides the structured error type shared by all returners.
// Errors carry a machine-readable code, optional details and the underlying
// cause, and work with the standard errors.Is and errors.As.
package errors
