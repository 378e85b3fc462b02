// Package model contains domain models passed between layers.
package model

import "fmt"

// Category classifies where a score record came from. The enumeration is
// closed: records with any other category are rejected during
// normalization instead of being merged into a default bucket.
type Category string

// Score categories, in reporting order.
const (
	CategoryChecklist      Category = "checklist"
	CategoryEventTask      Category = "event_task"
	CategoryQualityControl Category = "quality_control"
	CategoryHRTemplate     Category = "hr_template"
	CategoryOvertime       Category = "overtime"
	CategoryAbsence        Category = "absence"
	CategoryControlScore   Category = "control_score"
	CategoryBonus          Category = "bonus"
)

// categories holds the enumeration in its canonical reporting order.
var categories = []Category{
	CategoryChecklist,
	CategoryEventTask,
	CategoryQualityControl,
	CategoryHRTemplate,
	CategoryOvertime,
	CategoryAbsence,
	CategoryControlScore,
	CategoryBonus,
}

// Categories returns the closed enumeration in reporting order. The
// returned slice is a copy.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether c belongs to the closed enumeration.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory converts a string to a Category, rejecting unknowns.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// CanonicalScoreRecord is the normalized representation of one
// point-bearing evaluation event from any source.
type CanonicalScoreRecord struct {
	UserID    string   `json:"user_id"`
	Date      Date     `json:"date"`
	Category  Category `json:"category"`
	Points    float64  `json:"points"`
	MaxPoints float64  `json:"max_points"`

	// Traceability back to the originating evaluation.
	SourceType string `json:"source_type"`
	SourceID   string `json:"source_id"`

	// CollaboratorShare is set only for dual-operator event tasks: the
	// fraction of the task's points attributed to this record's user.
	// Shares for the same SourceID sum to 1.0.
	CollaboratorShare *float64 `json:"collaborator_share,omitempty"`
}

// Tally accumulates points for one category.
type Tally struct {
	Points    float64 `json:"points"`
	MaxPoints float64 `json:"max_points"`
	Count     int     `json:"count"`
}

// Add folds another tally into this one.
func (t Tally) Add(other Tally) Tally {
	return Tally{
		Points:    t.Points + other.Points,
		MaxPoints: t.MaxPoints + other.MaxPoints,
		Count:     t.Count + other.Count,
	}
}

// DailyPerformance is one user's score for one calendar day, broken down
// by category. TotalScore is derived from CategoryTotals at construction
// time; there is no independent recomputation path.
type DailyPerformance struct {
	UserID         string             `json:"user_id"`
	Date           Date               `json:"date"`
	TotalScore     float64            `json:"total_score"`
	CategoryTotals map[Category]Tally `json:"category_totals"`
}

// MonthlyTotals is one user's roll-up for one calendar month.
type MonthlyTotals struct {
	UserID         string             `json:"user_id"`
	YearMonth      YearMonth          `json:"year_month"`
	TotalScore     float64            `json:"total_score"`
	DailyAverage   float64            `json:"daily_average"`
	CategoryTotals map[Category]Tally `json:"category_totals"`
}
