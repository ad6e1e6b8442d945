package domain

import "errors"

// NetworkError wraps a transport-level failure with the operation that
// produced it. These surface as connection state "error", never panics.
type NetworkError struct {
	Op  string // operation that failed (e.g., "dial", "subscribe", "read")
	Err error
}

func (e *NetworkError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a network error for the given operation.
func NewNetworkError(op string, err error) *NetworkError {
	return &NetworkError{Op: op, Err: err}
}

var (
	// ErrUnknownVenue is returned when no adapter is registered for a venue id.
	ErrUnknownVenue = errors.New("unknown venue")

	// ErrNoSnapshot is returned when a venue has not produced a snapshot yet.
	ErrNoSnapshot = errors.New("no snapshot for venue")

	// ErrNotBookUpdate marks a feed message that parsed as JSON but does not
	// carry order-book data. Callers discard the message and move on.
	ErrNotBookUpdate = errors.New("not an order book update")

	// ErrConfigNotFound is returned when the configuration file is missing.
	ErrConfigNotFound = errors.New("configuration not found")
)
