package initiative

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/kura/core"
)

// Team flag values. The flag is string-valued on purpose: rows loaded from
// upstream sheets may carry other values, which count in neither bucket.
const (
	TeamFlagYes = "Yes"
	TeamFlagNo  = "No"
)

// Initiative is a submitted idea subject to voting. The title is its natural
// key; comparisons are whitespace-insensitive. Initiatives are created by data
// load and are immutable during voting.
type Initiative struct {
	ID        string      `json:"-"`
	Title     string      `json:"title"`
	Solution  string      `json:"solution"`
	Impact    string      `json:"impact"`
	File      string      `json:"file"`
	TeamFlag  string      `json:"team_flag"`
	Country   null.String `json:"country"`
	CreatedAt time.Time   `json:"-"` // UTC
}

// CategoryVote is one scored vote on a single pillar. Rows are append-only;
// a user may vote the same pillar again and every row remains visible to
// SUM-based aggregation.
type CategoryVote struct {
	ID         string    `json:"id"`
	IdeaTitle  string    `json:"idea_title"`
	Username   string    `json:"username"`
	Category   string    `json:"category"`
	Score      int       `json:"score"`
	Percentage float64   `json:"percentage"`
	CreatedAt  time.Time `json:"created_at"` // UTC
}

// FinalVote is one overall-percentage submission event. Submit distinguishes
// a draft save from the user's counted decision; multiple rows per
// (user, initiative) may accumulate over time.
type FinalVote struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	IdeaTitle  string    `json:"idea_title"`
	Percentage float64   `json:"percentage"`
	Submit     bool      `json:"submit"`
	CreatedAt  time.Time `json:"created_at"` // UTC
}

// NewCategoryVote contains information needed to record a CategoryVote.
type NewCategoryVote struct {
	IdeaTitle string `json:"idea_title" validate:"required"`
	Username  string `json:"username" validate:"required"`
	Category  string `json:"category" validate:"required"`
	Score     int    `json:"score" validate:"required"`
}

func (nv *NewCategoryVote) Validate(validate *validator.Validate) error {
	nv.IdeaTitle = core.CleanString(nv.IdeaTitle)
	nv.Username = core.CleanString(nv.Username)
	nv.Category = core.CleanString(nv.Category)
	return validate.Struct(nv)
}

// NewFinalVote contains information needed to record a FinalVote.
type NewFinalVote struct {
	Username   string  `json:"username" validate:"required"`
	IdeaTitle  string  `json:"idea_title" validate:"required"`
	Percentage float64 `json:"percentage" validate:"min=0,max=100"`
	Submit     bool    `json:"submit"`
}

func (nv *NewFinalVote) Validate(validate *validator.Validate) error {
	nv.Username = core.CleanString(nv.Username)
	nv.IdeaTitle = core.CleanString(nv.IdeaTitle)
	return validate.Struct(nv)
}
