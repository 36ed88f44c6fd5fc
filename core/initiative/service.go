package initiative

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/kura/core"
)

var ErrNotFound = errors.New("initiative not found")

type (
	Repository interface {
		CreateInitiative(ctx context.Context, ini Initiative) (Initiative, error)
		QueryAllInitiatives(ctx context.Context) ([]Initiative, error)

		CreateCategoryVote(ctx context.Context, cv CategoryVote) (CategoryVote, error)
		// SumCategoryVotePercentages sums the stored percentage of every
		// category vote for the given (whitespace-insensitive) title.
		SumCategoryVotePercentages(ctx context.Context, ideaTitle string) (float64, error)

		CreateFinalVote(ctx context.Context, fv FinalVote) (FinalVote, error)
		// QuerySubmittedFinalVotes returns all submit=true rows in insertion order.
		QuerySubmittedFinalVotes(ctx context.Context) ([]FinalVote, error)
		FinalVoteSubmitted(ctx context.Context, username, ideaTitle string) (bool, error)
	}

	ServiceInterface interface {
		Query(ctx context.Context) ([]Initiative, error)
		SubmitVote(ctx context.Context, nv NewCategoryVote) (CategoryVote, error)
		Results(ctx context.Context, ideaTitle string) (Results, error)
		SubmitFinalVote(ctx context.Context, nv NewFinalVote) (FinalVote, error)
		FinalVoteSubmitted(ctx context.Context, username, ideaTitle string) (bool, error)
		SubmittedFinalVotes(ctx context.Context) ([]FinalVote, error)
	}

	Service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Results is the running SUM of category-vote percentages for one initiative.
type Results struct {
	TotalPercentage float64 `json:"total_percentage"`
}

func (svc *Service) Query(ctx context.Context) ([]Initiative, error) {
	return svc.repo.QueryAllInitiatives(ctx)
}

// SubmitVote scores the vote and appends it; the computed percentage is
// persisted alongside the raw score.
func (svc *Service) SubmitVote(ctx context.Context, nv NewCategoryVote) (CategoryVote, error) {
	pct, err := ScorePercentage(nv.Category, nv.Score)
	if err != nil {
		return CategoryVote{}, err
	}
	cv := CategoryVote{
		IdeaTitle:  nv.IdeaTitle,
		Username:   nv.Username,
		Category:   nv.Category,
		Score:      nv.Score,
		Percentage: pct,
		CreatedAt:  time.Now().UTC(),
	}
	cv, err = svc.repo.CreateCategoryVote(ctx, cv)
	if err != nil {
		return CategoryVote{}, errors.Wrap(err, "inserting category vote")
	}
	return cv, nil
}

func (svc *Service) Results(ctx context.Context, ideaTitle string) (Results, error) {
	total, err := svc.repo.SumCategoryVotePercentages(ctx, core.CleanString(ideaTitle))
	if err != nil {
		return Results{}, errors.Wrap(err, "summing category votes")
	}
	return Results{TotalPercentage: total}, nil
}

func (svc *Service) SubmitFinalVote(ctx context.Context, nv NewFinalVote) (FinalVote, error) {
	fv := FinalVote{
		Username:   nv.Username,
		IdeaTitle:  nv.IdeaTitle,
		Percentage: nv.Percentage,
		Submit:     nv.Submit,
		CreatedAt:  time.Now().UTC(),
	}
	fv, err := svc.repo.CreateFinalVote(ctx, fv)
	if err != nil {
		return FinalVote{}, errors.Wrap(err, "inserting final vote")
	}
	return fv, nil
}

// FinalVoteSubmitted reports whether at least one submit=true FinalVote exists
// for the (user, initiative) pair.
func (svc *Service) FinalVoteSubmitted(ctx context.Context, username, ideaTitle string) (bool, error) {
	return svc.repo.FinalVoteSubmitted(ctx, core.CleanString(username), core.CleanString(ideaTitle))
}

func (svc *Service) SubmittedFinalVotes(ctx context.Context) ([]FinalVote, error) {
	return svc.repo.QuerySubmittedFinalVotes(ctx)
}
