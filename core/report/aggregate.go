package report

import (
	"math"
	"sort"
	"strings"

	"github.com/trezcool/kura/core/initiative"
)

// InitiativeResult is the aggregated leaderboard entry for one initiative.
type InitiativeResult struct {
	Project           string             `json:"project"`
	Solution          string             `json:"solution"`
	Impact            string             `json:"impact"`
	File              string             `json:"file"`
	TotalVoters       int                `json:"total_voters"`
	AveragePercentage float64            `json:"average_percentage"`
	VotedUsers        []string           `json:"voted_users"`
	UserPercentages   map[string]float64 `json:"user_percentages"`
	Rank              int                `json:"rank,omitempty"`
}

// aggregateFinalVotes reduces all submit=true FinalVote rows of one initiative
// to a single result. Blank usernames and the reserved admin account are
// excluded. Each user contributes at most one percentage: later rows overwrite
// earlier ones, while VotedUsers keeps first-seen order.
func aggregateFinalVotes(title string, rows []initiative.FinalVote, adminUsername string) InitiativeResult {
	userPcts := make(map[string]float64, len(rows))
	voted := make([]string, 0, len(rows))

	for _, row := range rows {
		if strings.TrimSpace(row.Username) == "" || row.Username == adminUsername {
			continue
		}
		if _, seen := userPcts[row.Username]; !seen {
			voted = append(voted, row.Username)
		}
		userPcts[row.Username] = row.Percentage
	}

	var avg float64
	if len(userPcts) > 0 {
		var sum float64
		for _, pct := range userPcts {
			sum += pct
		}
		avg = round2(sum / float64(len(userPcts)))
	}

	return InitiativeResult{
		Project:           title,
		TotalVoters:       len(userPcts),
		AveragePercentage: avg,
		VotedUsers:        voted,
		UserPercentages:   userPcts,
	}
}

// rankByAverage sorts results by average percentage descending and assigns
// dense 1-based ranks. The sort is stable: equal averages keep their input
// order and still get distinct consecutive ranks.
func rankByAverage(results []InitiativeResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].AveragePercentage > results[j].AveragePercentage
	})
	for i := range results {
		results[i].Rank = i + 1
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
