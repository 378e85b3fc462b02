package source

import (
	"context"
	"fmt"
	"time"

	"github.com/kaplanm/puantaj/internal/domain/model"
	"github.com/kaplanm/puantaj/internal/domain/normalize"
)

// HRTemplateRow is one scored HR evaluation instance. Items carry the
// per-item score fields; depending on the schema generation an item uses
// puan/maksimumPuan or alinanPuan/maxPuan for the same concepts.
type HRTemplateRow struct {
	ID          string
	UserID      string
	EvaluatedAt time.Time
	Items       []normalize.RawFields
}

// HRTemplateStore is the read-only query boundary to the HR evaluation
// collaborator.
type HRTemplateStore interface {
	// ListEvaluations returns scored evaluations for the user with
	// evaluation timestamps in [from, to).
	ListEvaluations(ctx context.Context, userID string, from, to time.Time) ([]HRTemplateRow, error)
}

// HRTemplateAdapter sums template items into one hr_template record per
// evaluation. Both legacy item field-name variants resolve; an item
// carrying neither variant contributes 0.
type HRTemplateAdapter struct {
	store HRTemplateStore
	loc   *time.Location
}

// HRTemplateOption applies a configuration option to the HRTemplateAdapter.
type HRTemplateOption func(*HRTemplateAdapter)

// WithHRTemplateLocation sets the reporting timezone.
func WithHRTemplateLocation(loc *time.Location) HRTemplateOption {
	return func(a *HRTemplateAdapter) {
		if loc != nil {
			a.loc = loc
		}
	}
}

// NewHRTemplateAdapter creates an HR template adapter over store.
func NewHRTemplateAdapter(store HRTemplateStore, opts ...HRTemplateOption) *HRTemplateAdapter {
	a := &HRTemplateAdapter{
		store: store,
		loc:   time.UTC,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name identifies the source in warnings, logs, and metrics.
func (a *HRTemplateAdapter) Name() string { return TypeHRTemplate }

// Fetch returns one canonical record per evaluation, summed across its
// template items.
func (a *HRTemplateAdapter) Fetch(ctx context.Context, userID string, r model.DateRange) (Result, error) {
	from, to := fetchWindow(r, a.loc)
	rows, err := a.store.ListEvaluations(ctx, userID, from, to)
	if err != nil {
		return Result{}, fmt.Errorf("%w: hr_template: %w", ErrSourceFetch, err)
	}

	var res Result
	for _, row := range rows {
		var points, maxPoints float64
		for _, item := range row.Items {
			points += normalize.Number(item, "puan", "alinanPuan")
			maxPoints += normalize.Number(item, "maksimumPuan", "maxPuan")
		}

		fields := normalize.RawFields{
			"kategori":     "ik_sablonu",
			"puan":         points,
			"maksimumPuan": maxPoints,
		}
		rec, err := normalize.Normalize(normalize.Input{
			SourceType: TypeHRTemplate,
			SourceID:   row.ID,
			UserID:     userID,
			Date:       model.DateOf(row.EvaluatedAt.In(a.loc)),
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
