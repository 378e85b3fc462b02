package app

import "errors"

// Sentinel kinds for engine errors.
var (
	// ErrInvalidRequest marks malformed input: bad date range or missing
	// user. It is the only error kind fatal to a report request.
	ErrInvalidRequest = errors.New("invalid request")
)
