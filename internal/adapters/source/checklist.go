package source

import (
	"context"
	"fmt"
	"time"

	"github.com/kaplanm/puantaj/internal/domain/model"
	"github.com/kaplanm/puantaj/internal/domain/normalize"
)

// ChecklistRow is one completed checklist instance as the checklist
// store hands it back. Fields carry the legacy-named instance
// attributes; Questions carry the per-question score fields.
type ChecklistRow struct {
	ID          string
	UserID      string
	CompletedAt time.Time
	Approved    bool
	Fields      normalize.RawFields
	Questions   []normalize.RawFields
}

// ChecklistStore is the read-only query boundary to the checklist
// collaborator. The checklist lifecycle itself lives elsewhere; this
// store only sees completed instances.
type ChecklistStore interface {
	// ListCompleted returns completed checklist instances for the user
	// with completion timestamps in [from, to).
	ListCompleted(ctx context.Context, userID string, from, to time.Time) ([]ChecklistRow, error)
}

// ChecklistAdapter maps completed and approved checklist instances to
// checklist / event_task records, one per instance.
type ChecklistAdapter struct {
	store ChecklistStore
	loc   *time.Location
}

// ChecklistOption applies a configuration option to the ChecklistAdapter.
type ChecklistOption func(*ChecklistAdapter)

// WithChecklistLocation sets the reporting timezone used to derive
// civil dates from completion timestamps.
func WithChecklistLocation(loc *time.Location) ChecklistOption {
	return func(a *ChecklistAdapter) {
		if loc != nil {
			a.loc = loc
		}
	}
}

// NewChecklistAdapter creates a checklist adapter over store.
func NewChecklistAdapter(store ChecklistStore, opts ...ChecklistOption) *ChecklistAdapter {
	a := &ChecklistAdapter{
		store: store,
		loc:   time.UTC,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name identifies the source in warnings, logs, and metrics.
func (a *ChecklistAdapter) Name() string { return TypeChecklist }

// Fetch returns one canonical record per completed and approved
// checklist instance. Question-level points and maximums are summed into
// the instance's points; the instance's category tag selects between
// checklist (routine) and event_task (event-triggered).
func (a *ChecklistAdapter) Fetch(ctx context.Context, userID string, r model.DateRange) (Result, error) {
	from, to := fetchWindow(r, a.loc)
	rows, err := a.store.ListCompleted(ctx, userID, from, to)
	if err != nil {
		return Result{}, fmt.Errorf("%w: checklist: %w", ErrSourceFetch, err)
	}

	var res Result
	for _, row := range rows {
		if !row.Approved {
			continue
		}

		var points, maxPoints float64
		for _, q := range row.Questions {
			points += normalize.Number(q, "puan", "soruPuani")
			maxPoints += normalize.Number(q, "maksimumPuan", "soruMaksimum")
		}

		fields := normalize.RawFields{
			"kategori":     normalize.Text(row.Fields, "kategori", "tip"),
			"puan":         points,
			"maksimumPuan": maxPoints,
		}
		rec, err := normalize.Normalize(normalize.Input{
			SourceType: TypeChecklist,
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
