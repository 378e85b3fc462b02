// Package report assembles the externally consumed performance report.
// This is the only package allowed to shape the public response; all
// upstream components return internal types.
package report

import (
	"sort"

	"github.com/kaplanm/puantaj/internal/domain/model"
)

// DailyEntry is one day in the report's daily series.
type DailyEntry struct {
	Date           model.Date                     `json:"date"`
	TotalScore     float64                        `json:"totalScore"`
	CategoryTotals map[model.Category]model.Tally `json:"categoryTotals"`
}

// Monthly is the report's month roll-up block.
type Monthly struct {
	YearMonth      model.YearMonth                `json:"yearMonth"`
	TotalScore     float64                        `json:"totalScore"`
	DailyAverage   float64                        `json:"dailyAverage"`
	CategoryTotals map[model.Category]model.Tally `json:"categoryTotals"`
}

// CategoryShare is one category's slice of the total.
type CategoryShare struct {
	Points         float64 `json:"points"`
	MaxPoints      float64 `json:"maxPoints"`
	PercentOfTotal float64 `json:"percentOfTotal"`
}

// DrilldownEntry traces one canonical record back to its source.
type DrilldownEntry struct {
	SourceType string         `json:"sourceType"`
	SourceID   string         `json:"sourceId"`
	Date       model.Date     `json:"date"`
	Category   model.Category `json:"category"`
	Points     float64        `json:"points"`
	MaxPoints  float64        `json:"maxPoints"`
}

// Report is the JSON-serializable per-user response shape. Consumers
// must not depend on internal canonical-record fields beyond Drilldown.
type Report struct {
	UserID            string                           `json:"userId"`
	DateRange         model.DateRange                  `json:"dateRange"`
	DailySeries       []DailyEntry                     `json:"dailySeries"`
	Monthly           Monthly                          `json:"monthly"`
	CategoryBreakdown map[model.Category]CategoryShare `json:"categoryBreakdown"`
	Drilldown         []DrilldownEntry                 `json:"drilldown"`
	Partial           bool                             `json:"partial"`
	Warnings          []string                         `json:"warnings"`
}

// Build assembles the public report from internal aggregation output.
// Warnings and the partial flag come from the engine's per-source
// failure isolation; Build itself never fails.
func Build(userID string, dateRange model.DateRange, days []model.DailyPerformance, monthly model.MonthlyTotals, records []model.CanonicalScoreRecord, partial bool, warnings []string) Report {
	r := Report{
		UserID:            userID,
		DateRange:         dateRange,
		DailySeries:       make([]DailyEntry, 0, len(days)),
		CategoryBreakdown: make(map[model.Category]CategoryShare),
		Drilldown:         make([]DrilldownEntry, 0, len(records)),
		Partial:           partial,
		Warnings:          warnings,
	}
	if r.Warnings == nil {
		r.Warnings = []string{}
	}

	for _, day := range days {
		r.DailySeries = append(r.DailySeries, DailyEntry{
			Date:           day.Date,
			TotalScore:     day.TotalScore,
			CategoryTotals: day.CategoryTotals,
		})
	}

	r.Monthly = Monthly{
		YearMonth:      monthly.YearMonth,
		TotalScore:     monthly.TotalScore,
		DailyAverage:   monthly.DailyAverage,
		CategoryTotals: monthly.CategoryTotals,
	}

	r.CategoryBreakdown = breakdown(days)

	for _, rec := range records {
		r.Drilldown = append(r.Drilldown, DrilldownEntry{
			SourceType: rec.SourceType,
			SourceID:   rec.SourceID,
			Date:       rec.Date,
			Category:   rec.Category,
			Points:     rec.Points,
			MaxPoints:  rec.MaxPoints,
		})
	}
	sort.Slice(r.Drilldown, func(i, j int) bool {
		a, b := r.Drilldown[i], r.Drilldown[j]
		if a.Date != b.Date {
			return a.Date.Before(b.Date)
		}
		if a.SourceType != b.SourceType {
			return a.SourceType < b.SourceType
		}
		return a.SourceID < b.SourceID
	})

	return r
}

// breakdown computes each category's share of the period total.
// percentOfTotal is 0, never NaN or Inf, when the total is 0.
func breakdown(days []model.DailyPerformance) map[model.Category]CategoryShare {
	shares := make(map[model.Category]CategoryShare)
	var total float64
	for _, day := range days {
		total += day.TotalScore
		for category, tally := range day.CategoryTotals {
			share := shares[category]
			share.Points += tally.Points
			share.MaxPoints += tally.MaxPoints
			shares[category] = share
		}
	}
	if total != 0 {
		for category, share := range shares {
			share.PercentOfTotal = share.Points / total
			shares[category] = share
		}
	}
	return shares
}
