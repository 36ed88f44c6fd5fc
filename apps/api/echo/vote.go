package echoapi

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/kura/core"
	"github.com/trezcool/kura/core/initiative"
)

type voteApi struct {
	srv *server
}

func (s *server) registerVoteAPI(g *echo.Group) {
	api := voteApi{srv: s}

	g.GET("/initiatives", api.queryInitiatives)

	vg := g.Group("/votes")
	vg.POST("", api.submitVote)
	vg.GET("/results/:title", api.results)
	vg.POST("/final", api.submitFinalVote)
	vg.GET("/final/check", api.checkFinalVote)
}

// Handlers

func (api *voteApi) queryInitiatives(ctx echo.Context) error {
	inis, err := api.srv.deps.InitiativeSvc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying initiatives")
	}
	if inis == nil {
		inis = []initiative.Initiative{}
	}
	return ctx.JSON(http.StatusOK, inis)
}

func (api *voteApi) submitVote(ctx echo.Context) error {
	var data initiative.NewCategoryVote
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCategoryVote")
	}
	if err := data.Validate(api.srv.deps.Validate); err != nil {
		return err
	}

	vote, err := api.srv.deps.InitiativeSvc.SubmitVote(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == initiative.ErrInvalidScore {
			return core.NewValidationError(nil, core.FieldError{Field: "score", Error: initiative.ErrInvalidScore.Error()})
		}
		return errors.Wrap(err, "submitting vote")
	}
	return ctx.JSON(http.StatusCreated, vote)
}

func (api *voteApi) results(ctx echo.Context) error {
	title := ctx.Param("title")
	if unescaped, err := url.PathUnescape(title); err == nil {
		title = unescaped
	}
	res, err := api.srv.deps.InitiativeSvc.Results(ctx.Request().Context(), title)
	if err != nil {
		return errors.Wrap(err, "computing results")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *voteApi) submitFinalVote(ctx echo.Context) error {
	var data initiative.NewFinalVote
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFinalVote")
	}
	if err := data.Validate(api.srv.deps.Validate); err != nil {
		return err
	}

	vote, err := api.srv.deps.InitiativeSvc.SubmitFinalVote(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "submitting final vote")
	}
	return ctx.JSON(http.StatusCreated, vote)
}

func (api *voteApi) checkFinalVote(ctx echo.Context) error {
	uname := strings.TrimSpace(ctx.QueryParam("username"))
	title := strings.TrimSpace(ctx.QueryParam("title"))
	if uname == "" || title == "" {
		return core.NewValidationError(errors.New("username and title are required"))
	}

	submitted, err := api.srv.deps.InitiativeSvc.FinalVoteSubmitted(ctx.Request().Context(), uname, title)
	if err != nil {
		return errors.Wrap(err, "checking final vote")
	}
	return ctx.JSON(http.StatusOK, FinalVoteCheckResponse{Submitted: submitted})
}

type FinalVoteCheckResponse struct {
	Submitted bool `json:"submitted"`
}
