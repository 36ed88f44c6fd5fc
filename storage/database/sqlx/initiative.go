package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/kura/core"
	"github.com/trezcool/kura/core/initiative"
)

type initiativeRow struct {
	ID        string      `db:"id"`
	Title     string      `db:"title"`
	Solution  string      `db:"solution"`
	Impact    string      `db:"impact"`
	FilePath  string      `db:"file_path"`
	TeamFlag  string      `db:"team_flag"`
	Country   null.String `db:"country"`
	CreatedAt time.Time   `db:"created_at"`
}

func (r initiativeRow) unpack() initiative.Initiative {
	return initiative.Initiative{
		ID:        r.ID,
		Title:     r.Title,
		Solution:  r.Solution,
		Impact:    r.Impact,
		File:      r.FilePath,
		TeamFlag:  r.TeamFlag,
		Country:   r.Country,
		CreatedAt: r.CreatedAt,
	}
}

type categoryVoteRow struct {
	ID         string    `db:"id"`
	IdeaTitle  string    `db:"idea_title"`
	Username   string    `db:"username"`
	Category   string    `db:"category"`
	Score      int       `db:"score"`
	Percentage float64   `db:"percentage"`
	CreatedAt  time.Time `db:"created_at"`
}

type finalVoteRow struct {
	ID         string    `db:"id"`
	Username   string    `db:"username"`
	IdeaTitle  string    `db:"idea_title"`
	Percentage float64   `db:"percentage"`
	Submit     bool      `db:"submit"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r finalVoteRow) unpack() initiative.FinalVote {
	return initiative.FinalVote{
		ID:         r.ID,
		Username:   r.Username,
		IdeaTitle:  r.IdeaTitle,
		Percentage: r.Percentage,
		Submit:     r.Submit,
		CreatedAt:  r.CreatedAt,
	}
}

type initiativeRepository struct {
	db      *sqlx.DB
	timeout time.Duration
}

var _ initiative.Repository = (*initiativeRepository)(nil) // interface compliance check

func NewInitiativeRepository(db *sqlx.DB, conf *core.Config) *initiativeRepository {
	return &initiativeRepository{db: db, timeout: conf.Database.Timeout}
}

func (repo initiativeRepository) CreateInitiative(ctx context.Context, ini initiative.Initiative) (initiative.Initiative, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.timeout)
	defer cancel()

	ini.ID = uuid.New().String()
	row := initiativeRow{
		ID:        ini.ID,
		Title:     ini.Title,
		Solution:  ini.Solution,
		Impact:    ini.Impact,
		FilePath:  ini.File,
		TeamFlag:  ini.TeamFlag,
		Country:   ini.Country,
		CreatedAt: ini.CreatedAt.UTC(),
	}
	const q = `
		INSERT INTO initiative (id, title, solution, impact, file_path, team_flag, country, created_at)
		VALUES (:id, :title, :solution, :impact, :file_path, :team_flag, :country, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return initiative.Initiative{}, errors.Wrap(err, "inserting initiative")
	}
	return row.unpack(), nil
}

func (repo initiativeRepository) QueryAllInitiatives(ctx context.Context) ([]initiative.Initiative, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.timeout)
	defer cancel()

	var rows []initiativeRow
	const q = `
		SELECT id, title, solution, impact, file_path, team_flag, country, created_at
		FROM initiative
		ORDER BY created_at, title`
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying initiatives")
	}
	initiatives := make([]initiative.Initiative, 0, len(rows))
	for _, row := range rows {
		initiatives = append(initiatives, row.unpack())
	}
	return initiatives, nil
}

func (repo initiativeRepository) CreateCategoryVote(ctx context.Context, cv initiative.CategoryVote) (initiative.CategoryVote, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.timeout)
	defer cancel()

	cv.ID = uuid.New().String()
	row := categoryVoteRow{
		ID:         cv.ID,
		IdeaTitle:  cv.IdeaTitle,
		Username:   cv.Username,
		Category:   cv.Category,
		Score:      cv.Score,
		Percentage: cv.Percentage,
		CreatedAt:  cv.CreatedAt.UTC(),
	}
	const q = `
		INSERT INTO category_vote (id, idea_title, username, category, score, percentage, created_at)
		VALUES (:id, :idea_title, :username, :category, :score, :percentage, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return initiative.CategoryVote{}, errors.Wrap(err, "inserting category vote")
	}
	return cv, nil
}

func (repo initiativeRepository) SumCategoryVotePercentages(ctx context.Context, ideaTitle string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.timeout)
	defer cancel()

	var total float64
	const q = `
		SELECT COALESCE(SUM(percentage), 0)
		FROM category_vote
		WHERE btrim(idea_title) = $1`
	if err := repo.db.GetContext(ctx, &total, q, ideaTitle); err != nil {
		return 0, errors.Wrap(err, "summing category vote percentages")
	}
	return total, nil
}

func (repo initiativeRepository) CreateFinalVote(ctx context.Context, fv initiative.FinalVote) (initiative.FinalVote, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.timeout)
	defer cancel()

	fv.ID = uuid.New().String()
	row := finalVoteRow{
		ID:         fv.ID,
		Username:   fv.Username,
		IdeaTitle:  fv.IdeaTitle,
		Percentage: fv.Percentage,
		Submit:     fv.Submit,
		CreatedAt:  fv.CreatedAt.UTC(),
	}
	const q = `
		INSERT INTO final_vote (id, username, idea_title, percentage, submit, created_at)
		VALUES (:id, :username, :idea_title, :percentage, :submit, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return initiative.FinalVote{}, errors.Wrap(err, "inserting final vote")
	}
	return row.unpack(), nil
}

func (repo initiativeRepository) QuerySubmittedFinalVotes(ctx context.Context) ([]initiative.FinalVote, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.timeout)
	defer cancel()

	var rows []finalVoteRow
	const q = `
		SELECT id, username, idea_title, percentage, submit, created_at
		FROM final_vote
		WHERE submit
		ORDER BY created_at, id`
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying final votes")
	}
	votes := make([]initiative.FinalVote, 0, len(rows))
	for _, row := range rows {
		votes = append(votes, row.unpack())
	}
	return votes, nil
}

func (repo initiativeRepository) FinalVoteSubmitted(ctx context.Context, username, ideaTitle string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.timeout)
	defer cancel()

	var submitted bool
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM final_vote
			WHERE btrim(username) = $1 AND btrim(idea_title) = $2 AND submit
		)`
	if err := repo.db.GetContext(ctx, &submitted, q, username, ideaTitle); err != nil {
		return false, errors.Wrap(err, "checking final vote")
	}
	return submitted, nil
}
