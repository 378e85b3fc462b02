// Package source contains the score source adapters: one boundary per
// evaluation data source. Each adapter fetches raw rows for a user and
// date range from its read-only collaborator store, converts timestamps
// to the reporting timezone, and maps rows to canonical score records
// through the normalizer. Rows that fail normalization are dropped and
// reported as warnings, never fatal.
package source

import (
	"context"
	"time"

	"github.com/kaplanm/puantaj/internal/domain/model"
	"github.com/kaplanm/puantaj/internal/domain/normalize"
)

// Source type identifiers, shared with the normalizer's resolution tables.
const (
	TypeChecklist  = normalize.SourceChecklist
	TypeMoldChange = normalize.SourceMoldChange
	TypeHRTemplate = normalize.SourceHRTemplate
	TypePayroll    = normalize.SourcePayroll
)

// Result is one adapter's contribution to a report request.
type Result struct {
	Records  []model.CanonicalScoreRecord
	Warnings []string
}

// Adapter fetches and canonicalizes records from one evaluation source.
type Adapter interface {
	// Name identifies the source in warnings, logs, and metrics.
	Name() string

	// Fetch returns canonical records for the user within the inclusive
	// date range. Dropped-record problems surface as warnings in the
	// Result; only a store-level failure returns an error.
	Fetch(ctx context.Context, userID string, r model.DateRange) (Result, error)
}

// fetchWindow converts an inclusive civil date range into the half-open
// timestamp window [from, to) the stores query by.
func fetchWindow(r model.DateRange, loc *time.Location) (time.Time, time.Time) {
	from := r.Start.Time(loc)
	to := r.End.Time(loc).AddDate(0, 0, 1)
	return from, to
}
