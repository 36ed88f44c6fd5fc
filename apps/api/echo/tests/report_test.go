package tests

import (
	"net/http"
	"testing"

	"github.com/trezcool/kura/core/initiative"
	"github.com/trezcool/kura/core/report"
	"github.com/trezcool/kura/core/user"
)

func Test_reportApi_fullReport(t *testing.T) {
	db.Reset()

	admin := createUser(t, "The Admin", "Admin", "Sup3r!Secret", user.RoleAdmin, true)
	createUser(t, "Ann A", "ann", "pwd", user.RoleVoter, false)
	createUser(t, "Bob B", "bob", "pwd", user.RoleVoter, false)
	voter := createUser(t, "Cleo C", "cleo", "pwd", user.RoleVoter, false)

	alpha := createInitiative(t, "Alpha", initiative.TeamFlagYes, "Kenya")
	beta := createInitiative(t, "Beta", initiative.TeamFlagNo, "")
	gamma := createInitiative(t, "Gamma", initiative.TeamFlagYes, "Kenya")

	finalVote := func(uname, title string, pct float64) {
		body := marchallObj(t, initiative.NewFinalVote{Username: uname, IdeaTitle: title, Percentage: pct, Submit: true})
		req, rec := newRequest(http.MethodPost, "/v1/votes/final", body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("finalVote(): code = %v; body = %v", rec.Code, rec.Body.String())
		}
	}
	finalVote("ann", "Alpha", 40)
	finalVote("ann", "Alpha", 80) // overwrites the first
	finalVote("bob", "Alpha", 60)
	finalVote("ann", "Beta", 50)
	finalVote("Admin", "Beta", 90) // reserved account, excluded from aggregates

	wantReport := report.Report{
		TotalProjects:     3,
		CompletedProjects: 2, // Alpha, Beta
		TotalTeams:        2,
		IndividualIdeas:   1,
		CountryDistribution: []report.CountryCount{
			{Country: "Kenya", Count: 2},
			{Country: "Unknown", Count: 1},
		},
		Projects: []report.InitiativeResult{
			{
				Project: alpha.Title, Solution: alpha.Solution, Impact: alpha.Impact,
				TotalVoters: 2, AveragePercentage: 70,
				VotedUsers:      []string{"ann", "bob"},
				UserPercentages: map[string]float64{"ann": 80, "bob": 60},
				Rank:            1,
			},
			{
				Project: beta.Title, Solution: beta.Solution, Impact: beta.Impact,
				TotalVoters: 1, AveragePercentage: 50,
				VotedUsers:      []string{"ann"},
				UserPercentages: map[string]float64{"ann": 50},
				Rank:            2,
			},
			{
				Project: gamma.Title, Solution: gamma.Solution, Impact: gamma.Impact,
				VotedUsers:      []string{},
				UserPercentages: map[string]float64{},
				Rank:            3,
			},
		},
		UsersSummary: []report.UserSummary{
			{Name: "Ann A", Username: "ann", Finished: 2, Remaining: 1},
			{Name: "Bob B", Username: "bob", Finished: 1, Remaining: 2},
			{Name: "Cleo C", Username: "cleo", Finished: 0, Remaining: 3},
		},
	}

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", token: getToken(t, voter), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Full report", token: getToken(t, admin), wantCode: http.StatusOK,
			wantData: marchallObj(t, wantReport),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		tt.path = "/v1/admin/full-report"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
