package aggregate

import "github.com/kaplanm/puantaj/internal/domain/model"

// RollUp sums one user's daily performances for the target month.
// MonthlyTotals.TotalScore is the sum of the included days' TotalScore
// values; there is no independent recomputation from records. The daily
// average divides by the number of days that actually carry records, so
// non-working days do not dilute it; zero such days yields average 0.
func RollUp(userID string, days []model.DailyPerformance, ym model.YearMonth) model.MonthlyTotals {
	totals := model.MonthlyTotals{
		UserID:         userID,
		YearMonth:      ym,
		CategoryTotals: make(map[model.Category]model.Tally),
	}

	daysWithRecords := 0
	for _, day := range days {
		if day.UserID != userID || !ym.Contains(day.Date) {
			continue
		}
		totals.TotalScore += day.TotalScore
		daysWithRecords++
		for category, tally := range day.CategoryTotals {
			totals.CategoryTotals[category] = totals.CategoryTotals[category].Add(tally)
		}
	}

	if daysWithRecords > 0 {
		totals.DailyAverage = totals.TotalScore / float64(daysWithRecords)
	}
	return totals
}
