package inmemdb

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/kura/core/initiative"
)

type initiativeRepository struct {
	db *voteTables
}

var _ initiative.Repository = (*initiativeRepository)(nil) // interface compliance check

func NewInitiativeRepository(db *DB) *initiativeRepository {
	return &initiativeRepository{db: db.vote}
}

func (r *initiativeRepository) CreateInitiative(_ context.Context, ini initiative.Initiative) (initiative.Initiative, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	ini.ID = uuid.New().String()
	r.db.initiatives = append(r.db.initiatives, ini)
	return ini, nil
}

func (r *initiativeRepository) QueryAllInitiatives(_ context.Context) ([]initiative.Initiative, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	initiatives := make([]initiative.Initiative, len(r.db.initiatives))
	copy(initiatives, r.db.initiatives)
	return initiatives, nil
}

func (r *initiativeRepository) CreateCategoryVote(_ context.Context, cv initiative.CategoryVote) (initiative.CategoryVote, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	cv.ID = uuid.New().String()
	r.db.categoryVotes = append(r.db.categoryVotes, cv)
	return cv, nil
}

func (r *initiativeRepository) SumCategoryVotePercentages(_ context.Context, ideaTitle string) (float64, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	title := strings.TrimSpace(ideaTitle)
	var total float64
	for _, cv := range r.db.categoryVotes {
		if strings.TrimSpace(cv.IdeaTitle) == title {
			total += cv.Percentage
		}
	}
	return total, nil
}

func (r *initiativeRepository) CreateFinalVote(_ context.Context, fv initiative.FinalVote) (initiative.FinalVote, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	fv.ID = uuid.New().String()
	r.db.finalVotes = append(r.db.finalVotes, fv)
	return fv, nil
}

func (r *initiativeRepository) QuerySubmittedFinalVotes(_ context.Context) ([]initiative.FinalVote, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	votes := make([]initiative.FinalVote, 0, len(r.db.finalVotes))
	for _, fv := range r.db.finalVotes {
		if fv.Submit {
			votes = append(votes, fv)
		}
	}
	return votes, nil
}

func (r *initiativeRepository) FinalVoteSubmitted(_ context.Context, username, ideaTitle string) (bool, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	uname := strings.TrimSpace(username)
	title := strings.TrimSpace(ideaTitle)
	for _, fv := range r.db.finalVotes {
		if fv.Submit && strings.TrimSpace(fv.Username) == uname && strings.TrimSpace(fv.IdeaTitle) == title {
			return true, nil
		}
	}
	return false, nil
}
