package report

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/kura/core"
	"github.com/trezcool/kura/core/initiative"
	"github.com/trezcool/kura/core/user"
)

// countryUnknown labels initiatives with no country on record.
const countryUnknown = "Unknown"

type (
	// Report is the admin dashboard payload. It is a read-only projection
	// computed fresh from current store state on every call.
	Report struct {
		TotalProjects       int                `json:"total_projects"`
		CompletedProjects   int                `json:"completed_projects"`
		TotalTeams          int                `json:"total_teams"`
		IndividualIdeas     int                `json:"individual_ideas"`
		CountryDistribution []CountryCount     `json:"country_distribution"`
		Projects            []InitiativeResult `json:"projects"`
		UsersSummary        []UserSummary      `json:"users_summary"`
	}

	CountryCount struct {
		Country string `json:"country"`
		Count   int    `json:"count"`
	}

	UserSummary struct {
		Name     string `json:"name"`
		Username string `json:"username"`
		Finished int    `json:"finished"`
		// Remaining may go negative when a user has final-voted on an
		// initiative no longer in the set; it is not clamped.
		Remaining int `json:"remaining"`
	}

	ServiceInterface interface {
		BuildFullReport(ctx context.Context) (Report, error)
	}

	Service struct {
		conf   *core.Config
		usrSvc user.ServiceInterface
		iniSvc initiative.ServiceInterface
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(conf *core.Config, usrSvc user.ServiceInterface, iniSvc initiative.ServiceInterface) *Service {
	return &Service{
		conf:   conf,
		usrSvc: usrSvc,
		iniSvc: iniSvc,
	}
}

func (svc *Service) BuildFullReport(ctx context.Context) (Report, error) {
	initiatives, err := svc.iniSvc.Query(ctx)
	if err != nil {
		return Report{}, errors.Wrap(err, "querying initiatives")
	}
	users, err := svc.usrSvc.QueryAll(ctx)
	if err != nil {
		return Report{}, errors.Wrap(err, "querying users")
	}
	votes, err := svc.iniSvc.SubmittedFinalVotes(ctx)
	if err != nil {
		return Report{}, errors.Wrap(err, "querying final votes")
	}
	return svc.assemble(initiatives, users, votes), nil
}

// assemble composes the full report from store snapshots. votes must hold
// only submit=true rows, in insertion order.
func (svc *Service) assemble(initiatives []initiative.Initiative, users []user.User, votes []initiative.FinalVote) Report {
	votesByTitle := make(map[string][]initiative.FinalVote)
	completedTitles := make(map[string]struct{})
	finishedByUser := make(map[string]map[string]struct{})
	for _, fv := range votes {
		title := strings.TrimSpace(fv.IdeaTitle)
		votesByTitle[title] = append(votesByTitle[title], fv)
		completedTitles[title] = struct{}{}

		titles, ok := finishedByUser[fv.Username]
		if !ok {
			titles = make(map[string]struct{})
			finishedByUser[fv.Username] = titles
		}
		titles[title] = struct{}{}
	}

	rep := Report{
		TotalProjects:       len(initiatives),
		CompletedProjects:   len(completedTitles),
		CountryDistribution: make([]CountryCount, 0),
		Projects:            make([]InitiativeResult, 0, len(initiatives)),
		UsersSummary:        make([]UserSummary, 0, len(users)),
	}

	countryIdx := make(map[string]int)
	for _, ini := range initiatives {
		switch ini.TeamFlag {
		case initiative.TeamFlagYes:
			rep.TotalTeams++
		case initiative.TeamFlagNo:
			rep.IndividualIdeas++
		}

		country := countryUnknown
		if ini.Country.Valid && ini.Country.String != "" {
			country = ini.Country.String
		}
		if i, ok := countryIdx[country]; ok {
			rep.CountryDistribution[i].Count++
		} else {
			countryIdx[country] = len(rep.CountryDistribution)
			rep.CountryDistribution = append(rep.CountryDistribution, CountryCount{Country: country, Count: 1})
		}

		res := aggregateFinalVotes(ini.Title, votesByTitle[strings.TrimSpace(ini.Title)], svc.conf.AdminUsername)
		res.Solution = ini.Solution
		res.Impact = ini.Impact
		res.File = ini.File
		rep.Projects = append(rep.Projects, res)
	}
	rankByAverage(rep.Projects)

	for _, usr := range users {
		if strings.TrimSpace(usr.Username) == "" || usr.Username == svc.conf.AdminUsername {
			continue
		}
		finished := len(finishedByUser[usr.Username])
		rep.UsersSummary = append(rep.UsersSummary, UserSummary{
			Name:      usr.DisplayName(),
			Username:  usr.Username,
			Finished:  finished,
			Remaining: rep.TotalProjects - finished,
		})
	}

	return rep
}
