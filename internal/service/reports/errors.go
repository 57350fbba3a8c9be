package reports

import "errors"

var (
	// ErrInsufficientInfo means the model could not map the prompt onto
	// the reporting schema.
	ErrInsufficientInfo = errors.New("not enough information to build a query")

	// ErrUnsafeQuery means the synthesized query failed static validation
	// and was rejected before touching the database.
	ErrUnsafeQuery = errors.New("synthesized query rejected as unsafe")
)
