package normalize

import "errors"

// Sentinel kinds for normalization errors.
var (
	// ErrNormalization marks records whose fields cannot be resolved to a
	// valid canonical shape. The record is dropped and logged, not fatal.
	ErrNormalization = errors.New("normalization failed")

	// ErrIntegrity marks records that resolved but violate a
	// data-integrity guard (points above max, bad collaborator share).
	ErrIntegrity = errors.New("integrity violation")
)
