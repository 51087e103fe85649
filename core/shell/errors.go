package shell

import "errors"

var (
	// ErrMalformedCommand is returned for syntax errors like a dangling
	// redirection operator or an empty pipeline stage.
	ErrMalformedCommand = errors.New("malformed command")

	// ErrIO is returned when a redirection target can't be opened.
	ErrIO = errors.New("i/o error")

	// ErrLimitExceeded is returned when a line is longer, or has more tokens,
	// than the configured Limits allow.
	ErrLimitExceeded = errors.New("limit exceeded")
)
