package source

import (
	"context"
	"fmt"
	"time"

	"github.com/kaplanm/puantaj/internal/domain/model"
	"github.com/kaplanm/puantaj/internal/domain/normalize"
)

// Payroll adjustment kinds as the payroll store records them.
const (
	PayrollOvertime = "mesai"
	PayrollAbsence  = "devamsizlik"
	PayrollBonus    = "prim"
)

// Default conversion rates from payroll quantities to points.
const (
	defaultOvertimeRate   = 2.0
	defaultAbsencePenalty = 3.0
)

// PayrollRow is one payroll-adjacent adjustment: overtime hours, absence
// hours, or a discretionary bonus evaluation.
type PayrollRow struct {
	ID         string
	UserID     string
	OccurredAt time.Time
	Kind       string
	Fields     normalize.RawFields
}

// PayrollStore is the read-only query boundary to the payroll
// collaborator.
type PayrollStore interface {
	// ListAdjustments returns adjustments for the user with timestamps
	// in [from, to).
	ListAdjustments(ctx context.Context, userID string, from, to time.Time) ([]PayrollRow, error)
}

// PayrollAdapter converts payroll adjustments to overtime, absence, and
// bonus records. Absence records are the only ones that carry negative
// points.
type PayrollAdapter struct {
	store          PayrollStore
	loc            *time.Location
	overtimeRate   float64
	absencePenalty float64
}

// PayrollOption applies a configuration option to the PayrollAdapter.
type PayrollOption func(*PayrollAdapter)

// WithPayrollLocation sets the reporting timezone.
func WithPayrollLocation(loc *time.Location) PayrollOption {
	return func(a *PayrollAdapter) {
		if loc != nil {
			a.loc = loc
		}
	}
}

// WithOvertimeRate sets the points credited per overtime hour.
func WithOvertimeRate(rate float64) PayrollOption {
	return func(a *PayrollAdapter) {
		if rate > 0 {
			a.overtimeRate = rate
		}
	}
}

// WithAbsencePenalty sets the points deducted per absence hour.
func WithAbsencePenalty(penalty float64) PayrollOption {
	return func(a *PayrollAdapter) {
		if penalty > 0 {
			a.absencePenalty = penalty
		}
	}
}

// NewPayrollAdapter creates a payroll adapter over store.
func NewPayrollAdapter(store PayrollStore, opts ...PayrollOption) *PayrollAdapter {
	a := &PayrollAdapter{
		store:          store,
		loc:            time.UTC,
		overtimeRate:   defaultOvertimeRate,
		absencePenalty: defaultAbsencePenalty,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name identifies the source in warnings, logs, and metrics.
func (a *PayrollAdapter) Name() string { return TypePayroll }

// Fetch returns one canonical record per adjustment. Overtime and
// absence points are derived from hours and the configured rates; bonus
// points pass through as recorded.
func (a *PayrollAdapter) Fetch(ctx context.Context, userID string, r model.DateRange) (Result, error) {
	from, to := fetchWindow(r, a.loc)
	rows, err := a.store.ListAdjustments(ctx, userID, from, to)
	if err != nil {
		return Result{}, fmt.Errorf("%w: payroll: %w", ErrSourceFetch, err)
	}

	var res Result
	for _, row := range rows {
		var points float64
		switch row.Kind {
		case PayrollOvertime:
			points = normalize.Number(row.Fields, "saat", "sure") * a.overtimeRate
		case PayrollAbsence:
			points = -normalize.Number(row.Fields, "saat", "sure") * a.absencePenalty
		case PayrollBonus:
			points = normalize.Number(row.Fields, "puan", "tutar")
		default:
			res.Warnings = append(res.Warnings, fmt.Sprintf("payroll %s: unknown adjustment kind %q", row.ID, row.Kind))
			continue
		}

		fields := normalize.RawFields{
			"kategori":     row.Kind,
			"puan":         points,
			"maksimumPuan": 0.0,
		}
		rec, err := normalize.Normalize(normalize.Input{
			SourceType: TypePayroll,
			SourceID:   row.ID,
			UserID:     userID,
			Date:       model.DateOf(row.OccurredAt.In(a.loc)),
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
