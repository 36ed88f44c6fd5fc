package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/kura/core"
	"github.com/trezcool/kura/core/initiative"
	"github.com/trezcool/kura/core/user"
)

func newTestReportService() *Service {
	conf := &core.Config{AppName: "Kura", AdminUsername: "Admin"}
	return NewService(conf, nil, nil)
}

func ini(title, teamFlag, country string) initiative.Initiative {
	i := initiative.Initiative{Title: title, Solution: "sol " + title, Impact: "imp " + title, File: title + ".pdf", TeamFlag: teamFlag}
	if country != "" {
		i.Country = null.StringFrom(country)
	}
	return i
}

func finalVote(username, title string, pct float64) initiative.FinalVote {
	return initiative.FinalVote{Username: username, IdeaTitle: title, Percentage: pct, Submit: true}
}

func Test_Service_assemble(t *testing.T) {
	svc := newTestReportService()

	initiatives := []initiative.Initiative{
		ini("Alpha", "Yes", "Kenya"),
		ini("Beta", "No", ""),
		ini("Gamma", "Maybe", "Kenya"),
		ini("Delta", "Yes", "Ghana"),
	}
	users := []user.User{
		{Username: "ann", Name: "Ann A"},
		{Username: "bob"},
		{Username: "Admin", Name: "Administrator"},
		{Username: "   "},
	}
	votes := []initiative.FinalVote{
		finalVote("ann", "Alpha", 70),
		finalVote("bob", "Alpha", 90),
		finalVote("ann", "Beta", 90),
		finalVote("bob", " Beta ", 90), // whitespace-insensitive title grouping
		finalVote("ann", "Retired Idea", 10),
		finalVote("Admin", "Delta", 100), // reserved account never counts
	}

	rep := svc.assemble(initiatives, users, votes)

	assert.Equal(t, 4, rep.TotalProjects)
	// Alpha, Beta, Delta and Retired Idea (counted even though no longer listed)
	assert.Equal(t, 4, rep.CompletedProjects)
	assert.Equal(t, 2, rep.TotalTeams)
	assert.Equal(t, 1, rep.IndividualIdeas)

	assert.Equal(t, []CountryCount{
		{Country: "Kenya", Count: 2},
		{Country: "Unknown", Count: 1},
		{Country: "Ghana", Count: 1},
	}, rep.CountryDistribution)

	require.Len(t, rep.Projects, 4)
	// Beta avg 90 ranks first; Alpha avg 80 second; Gamma/Delta tie at 0 in input order
	assert.Equal(t, "Beta", rep.Projects[0].Project)
	assert.Equal(t, 1, rep.Projects[0].Rank)
	assert.Equal(t, 90.0, rep.Projects[0].AveragePercentage)
	assert.Equal(t, []string{"ann", "bob"}, rep.Projects[0].VotedUsers)

	assert.Equal(t, "Alpha", rep.Projects[1].Project)
	assert.Equal(t, 2, rep.Projects[1].Rank)
	assert.Equal(t, 80.0, rep.Projects[1].AveragePercentage)
	assert.Equal(t, 2, rep.Projects[1].TotalVoters)
	assert.Equal(t, "sol Alpha", rep.Projects[1].Solution)
	assert.Equal(t, "imp Alpha", rep.Projects[1].Impact)
	assert.Equal(t, "Alpha.pdf", rep.Projects[1].File)

	assert.Equal(t, "Gamma", rep.Projects[2].Project)
	assert.Equal(t, 3, rep.Projects[2].Rank)
	assert.Equal(t, "Delta", rep.Projects[3].Project)
	assert.Equal(t, 4, rep.Projects[3].Rank)
	// admin's vote on Delta is invisible
	assert.Equal(t, 0, rep.Projects[3].TotalVoters)
	assert.Equal(t, []string{}, rep.Projects[3].VotedUsers)

	// admin and blank users never appear
	require.Len(t, rep.UsersSummary, 2)
	assert.Equal(t, UserSummary{Name: "Ann A", Username: "ann", Finished: 3, Remaining: 1}, rep.UsersSummary[0])
	// display name falls back to username
	assert.Equal(t, UserSummary{Name: "bob", Username: "bob", Finished: 2, Remaining: 2}, rep.UsersSummary[1])
}

func Test_Service_assemble_empty(t *testing.T) {
	svc := newTestReportService()
	rep := svc.assemble(nil, nil, nil)

	assert.Zero(t, rep.TotalProjects)
	assert.Zero(t, rep.CompletedProjects)
	assert.Equal(t, []CountryCount{}, rep.CountryDistribution)
	assert.Equal(t, []InitiativeResult{}, rep.Projects)
	assert.Equal(t, []UserSummary{}, rep.UsersSummary)
}

// remaining goes negative when a user has voted on more initiatives than
// currently listed; it is intentionally not clamped.
func Test_Service_assemble_negativeRemaining(t *testing.T) {
	svc := newTestReportService()
	rep := svc.assemble(
		[]initiative.Initiative{ini("Alpha", "Yes", "")},
		[]user.User{{Username: "ann"}},
		[]initiative.FinalVote{
			finalVote("ann", "Alpha", 50),
			finalVote("ann", "Old One", 60),
			finalVote("ann", "Older One", 70),
		},
	)
	require.Len(t, rep.UsersSummary, 1)
	assert.Equal(t, 3, rep.UsersSummary[0].Finished)
	assert.Equal(t, -2, rep.UsersSummary[0].Remaining)
}
