package llm

import "errors"

var (
	// ErrTimeout indicates the model call exceeded its per-kind deadline.
	ErrTimeout = errors.New("llm request timed out")

	// ErrUnavailable indicates the provider endpoint was unreachable.
	ErrUnavailable = errors.New("llm provider unavailable")

	// ErrInvalidOutput indicates the model response could not be parsed
	// into the expected structured format.
	ErrInvalidOutput = errors.New("invalid llm output format")
)
