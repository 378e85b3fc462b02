// Package aggregate turns canonical score records into daily and monthly
// performance figures. All functions are pure; grouping keys use the
// record's civil date, which adapters have already converted to the
// reporting timezone.
package aggregate

import (
	"sort"

	"github.com/kaplanm/puantaj/internal/domain/model"
)

type dayKey struct {
	userID string
	date   model.Date
}

// Daily groups records by (user, date, category) and sums them into one
// DailyPerformance per user-day. TotalScore is accumulated from the same
// additions that fill CategoryTotals, so the construction invariant
// totalScore == sum(categoryTotals[*].points) holds without a correction
// pass. Output is ordered by user id, then ascending date, to keep runs
// diffable.
func Daily(records []model.CanonicalScoreRecord) []model.DailyPerformance {
	if len(records) == 0 {
		return nil
	}

	groups := make(map[dayKey]*model.DailyPerformance)
	for _, rec := range records {
		key := dayKey{userID: rec.UserID, date: rec.Date}
		day, ok := groups[key]
		if !ok {
			day = &model.DailyPerformance{
				UserID:         rec.UserID,
				Date:           rec.Date,
				CategoryTotals: make(map[model.Category]model.Tally),
			}
			groups[key] = day
		}
		day.CategoryTotals[rec.Category] = day.CategoryTotals[rec.Category].Add(model.Tally{
			Points:    rec.Points,
			MaxPoints: rec.MaxPoints,
			Count:     1,
		})
		day.TotalScore += rec.Points
	}

	out := make([]model.DailyPerformance, 0, len(groups))
	for _, day := range groups {
		out = append(out, *day)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
