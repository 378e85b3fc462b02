package report

import "sort"

// RankEntry is one user's position in a team ranking.
type RankEntry struct {
	Rank       int     `json:"rank"`
	UserID     string  `json:"userId"`
	TotalScore float64 `json:"totalScore"`
}

// Rank orders reports by monthly total score, descending. Users with
// equal scores share a rank; ties break alphabetically for output
// stability.
func Rank(reports []Report) []RankEntry {
	entries := make([]RankEntry, 0, len(reports))
	for _, rep := range reports {
		entries = append(entries, RankEntry{
			UserID:     rep.UserID,
			TotalScore: rep.Monthly.TotalScore,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalScore != entries[j].TotalScore {
			return entries[i].TotalScore > entries[j].TotalScore
		}
		return entries[i].UserID < entries[j].UserID
	})
	for i := range entries {
		if i > 0 && entries[i].TotalScore == entries[i-1].TotalScore {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
	return entries
}
