// Package scope restricts aggregation output to an organizational
// allow-list. The allow-list is computed by an external resolver and
// passed in; no authorization decision happens here.
package scope

import "github.com/kaplanm/puantaj/internal/domain/model"

// AllowList is a set of user ids permitted in the current request scope.
// A nil AllowList means unrestricted.
type AllowList map[string]struct{}

// NewAllowList builds an AllowList from a slice of user ids. An empty
// slice yields a nil (unrestricted) list.
func NewAllowList(userIDs []string) AllowList {
	if len(userIDs) == 0 {
		return nil
	}
	set := make(AllowList, len(userIDs))
	for _, id := range userIDs {
		set[id] = struct{}{}
	}
	return set
}

// Allows reports whether the user id passes the scope.
func (a AllowList) Allows(userID string) bool {
	if a == nil {
		return true
	}
	_, ok := a[userID]
	return ok
}

// FilterRecords returns the subset of records whose user passes the
// scope. Input order is preserved.
func FilterRecords(records []model.CanonicalScoreRecord, allow AllowList) []model.CanonicalScoreRecord {
	if allow == nil {
		return records
	}
	out := make([]model.CanonicalScoreRecord, 0, len(records))
	for _, rec := range records {
		if allow.Allows(rec.UserID) {
			out = append(out, rec)
		}
	}
	return out
}

// FilterDaily returns the subset of daily performances whose user passes
// the scope. Input order is preserved.
func FilterDaily(days []model.DailyPerformance, allow AllowList) []model.DailyPerformance {
	if allow == nil {
		return days
	}
	out := make([]model.DailyPerformance, 0, len(days))
	for _, day := range days {
		if allow.Allows(day.UserID) {
			out = append(out, day)
		}
	}
	return out
}
