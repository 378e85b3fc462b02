package source

import (
	"context"
	"fmt"
	"time"

	"github.com/kaplanm/puantaj/internal/domain/model"
	"github.com/kaplanm/puantaj/internal/domain/normalize"
)

// Default buddy-credit split: the primary operator's fraction of the
// task points when the source record carries no explicit percentage.
// Business policy may weight by role; keep it configurable.
const defaultPrimarySplit = 0.5

// MoldChangeRow is one completed dual-operator task. BuddyID is empty
// for solo completions. Fields carry the legacy-named task attributes,
// including the optional explicit primary percentage.
type MoldChangeRow struct {
	ID          string
	PrimaryID   string
	BuddyID     string
	CompletedAt time.Time
	Fields      normalize.RawFields
}

// MoldChangeStore is the read-only query boundary to the mold-change
// task collaborator.
type MoldChangeStore interface {
	// ListCompleted returns completed tasks where the user participated
	// as primary or buddy, with completion timestamps in [from, to).
	ListCompleted(ctx context.Context, userID string, from, to time.Time) ([]MoldChangeRow, error)
}

// MoldChangeAdapter splits dual-operator task points between the primary
// and the buddy operator and emits one event_task record per participant
// fetch. The two shares for the same task always sum to 1.0.
type MoldChangeAdapter struct {
	store        MoldChangeStore
	loc          *time.Location
	primarySplit float64
}

// MoldChangeOption applies a configuration option to the MoldChangeAdapter.
type MoldChangeOption func(*MoldChangeAdapter)

// WithMoldChangeLocation sets the reporting timezone.
func WithMoldChangeLocation(loc *time.Location) MoldChangeOption {
	return func(a *MoldChangeAdapter) {
		if loc != nil {
			a.loc = loc
		}
	}
}

// WithPrimarySplit sets the default fraction of task points credited to
// the primary operator when the record carries no explicit percentage.
func WithPrimarySplit(split float64) MoldChangeOption {
	return func(a *MoldChangeAdapter) {
		if split > 0 && split < 1 {
			a.primarySplit = split
		}
	}
}

// NewMoldChangeAdapter creates a mold-change adapter over store.
func NewMoldChangeAdapter(store MoldChangeStore, opts ...MoldChangeOption) *MoldChangeAdapter {
	a := &MoldChangeAdapter{
		store:        store,
		loc:          time.UTC,
		primarySplit: defaultPrimarySplit,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name identifies the source in warnings, logs, and metrics.
func (a *MoldChangeAdapter) Name() string { return TypeMoldChange }

// Fetch returns the user's share of each completed task they took part
// in. An explicit primary percentage on the record wins over the
// configured default; an out-of-range percentage falls back to the
// default and surfaces as a warning attached to the task id.
func (a *MoldChangeAdapter) Fetch(ctx context.Context, userID string, r model.DateRange) (Result, error) {
	from, to := fetchWindow(r, a.loc)
	rows, err := a.store.ListCompleted(ctx, userID, from, to)
	if err != nil {
		return Result{}, fmt.Errorf("%w: mold_change: %w", ErrSourceFetch, err)
	}

	var res Result
	for _, row := range rows {
		share, warning := a.shareFor(row, userID)
		if warning != "" {
			res.Warnings = append(res.Warnings, warning)
		}
		if share == 0 {
			// User did not participate in this row; defensive skip.
			continue
		}

		points := normalize.Number(row.Fields, "puan", "toplamPuan")
		maxPoints := normalize.Number(row.Fields, "maksimumPuan")
		fields := normalize.RawFields{
			"kategori":     "kalip_degisim",
			"puan":         points * share,
			"maksimumPuan": maxPoints * share,
			"katkiOrani":   share,
		}
		rec, err := normalize.Normalize(normalize.Input{
			SourceType: TypeMoldChange,
			SourceID:   row.ID,
			UserID:     userID,
			Date:       model.DateOf(row.CompletedAt.In(a.loc)),
			Fields:     fields,
		})
		if err != nil {
			res.Warnings = append(res.Warnings, err.Error())
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

// shareFor computes the fraction of row's points attributed to userID.
// Solo completions credit the primary in full. For dual-operator rows
// the primary's fraction comes from the record's explicit percentage
// when present and sane, otherwise from the configured default; the
// buddy always receives the complement, so the two shares sum to 1.0.
func (a *MoldChangeAdapter) shareFor(row MoldChangeRow, userID string) (float64, string) {
	if row.BuddyID == "" {
		if row.PrimaryID == userID {
			return 1, ""
		}
		return 0, ""
	}

	primary := a.primarySplit
	var warning string
	if pct := normalize.Number(row.Fields, "primerYuzde", "yuzde"); pct != 0 {
		if pct > 0 && pct <= 100 {
			primary = pct / 100
		} else {
			warning = fmt.Sprintf("mold_change %s: split percentage %v outside (0,100], using default", row.ID, pct)
		}
	}

	switch userID {
	case row.PrimaryID:
		return primary, warning
	case row.BuddyID:
		return 1 - primary, warning
	default:
		return 0, warning
	}
}
