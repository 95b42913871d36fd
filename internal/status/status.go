// Package status defines the result envelope returned by every store adapter
// and orchestrator operation, plus the sentinel errors used to classify
// failures without string matching. Transport handlers map a Status onto
// their own response format; the core makes no assumption about HTTP codes.
package status

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when a create targets a key that is taken.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidOperation is returned when a mutation would violate a data
	// invariant, e.g. decrementing a favourites count below zero.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrUnavailable covers any failure talking to a store or sibling
	// service: network errors, timeouts, and unclassifiable responses alike.
	ErrUnavailable = errors.New("store unavailable")
)

// Kind classifies the outcome of an operation.
type Kind string

const (
	OK               Kind = "OK"
	NotFound         Kind = "NOT_FOUND"
	MissingParameter Kind = "MISSING_PARAMETER"
	AlreadyExists    Kind = "ALREADY_EXISTS"
	Conflict         Kind = "CONFLICT"
	Unavailable      Kind = "UNAVAILABLE"
	PartialFailure   Kind = "PARTIAL_FAILURE"
)

// Status is the uniform result envelope. Data is set only on full success.
type Status struct {
	Kind    Kind   `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Ok builds a success envelope without payload.
func Ok(message string) Status {
	return Status{Kind: OK, Message: message}
}

// OkData builds a success envelope carrying a payload.
func OkData(message string, data any) Status {
	return Status{Kind: OK, Message: message, Data: data}
}

// New builds an envelope for any non-payload outcome.
func New(kind Kind, message string) Status {
	return Status{Kind: kind, Message: message}
}

// FromError maps a classified error onto the matching envelope kind. An
// unrecognized error is reported as Unavailable: by the time an error
// reaches an orchestrator every expected condition has a sentinel, so
// whatever is left is a failing store.
func FromError(err error, message string) Status {
	switch {
	case errors.Is(err, ErrNotFound):
		return Status{Kind: NotFound, Message: message}
	case errors.Is(err, ErrAlreadyExists):
		return Status{Kind: AlreadyExists, Message: message}
	case errors.Is(err, ErrInvalidOperation):
		return Status{Kind: Conflict, Message: message}
	default:
		return Status{Kind: Unavailable, Message: message}
	}
}

// ParseKind maps a wire status string back onto a Kind. Unknown strings
// come back as Unavailable so a misbehaving sibling is treated as down
// rather than trusted.
func ParseKind(s string) Kind {
	switch Kind(s) {
	case OK, NotFound, MissingParameter, AlreadyExists, Conflict, Unavailable, PartialFailure:
		return Kind(s)
	default:
		return Unavailable
	}
}
