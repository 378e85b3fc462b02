package source

import "errors"

// Sentinel kinds for source adapter errors.
var (
	// ErrSourceFetch marks a store that is unreachable or timed out. The
	// engine recovers locally and degrades to a partial report.
	ErrSourceFetch = errors.New("source fetch failed")
)
