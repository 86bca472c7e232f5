package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Connection errors
const (
	// ErrCodeConnectionFailed indicates a failed connection to a backend.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	// ErrCodeTimeout indicates the operation timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Configuration errors
const (
	// ErrCodeMissingField indicates a required setting is absent.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeInvalidInput indicates a value is malformed.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeUnavailable indicates a returner failed its capability check.
	ErrCodeUnavailable ErrorCode = "UNAVAILABLE"
	// ErrCodeNotFound indicates an unknown returner or a missing document.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Backend errors
const (
	// ErrCodeDatabaseError indicates a document store failure.
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
	// ErrCodeExternalService indicates an error from a remote service.
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	// ErrCodeInternal indicates an unexpected failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeConnectionFailed: true,
	ErrCodeTimeout:          true,
	ErrCodeDatabaseError:    true,
	ErrCodeExternalService:  true,
}

// IsRetryableCode returns true if the error code indicates a transient error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
