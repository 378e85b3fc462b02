package model

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrUnknownCategory = errors.New("unknown score category")
	ErrInvalidRange    = errors.New("invalid date range")
)
