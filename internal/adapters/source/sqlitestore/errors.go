package sqlitestore

import "errors"

// Sentinel kinds for snapshot store errors.
var (
	ErrStore = errors.New("sqlite store failed")
)
