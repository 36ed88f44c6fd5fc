package echoapi

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/kura/core"
	"github.com/trezcool/kura/core/user"
)

type userApi struct {
	srv *server
}

func (s *server) registerUserAPI(g *echo.Group, jwt echo.MiddlewareFunc) {
	api := userApi{srv: s}

	ug := g.Group("/users")

	// un-authed endpoints
	// TODO: rate limit `/login`
	ug.POST("/login", api.login)
	ug.POST("/password-change", api.changePassword)

	// authed endpoints
	ag := ug.Group("", jwt)
	ag.POST("/token-refresh", api.refreshToken)
}

// Handlers

func (api *userApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.srv.deps.Validate); err != nil {
		return err
	}

	claims, err := api.srv.authenticate(ctx, data.Username, data.Password)
	if err != nil {
		return errors.Wrap(err, "authenticating")
	}
	token, err := GenerateToken(api.srv.deps.Conf, claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, Username: claims.Username})
}

func (api *userApi) changePassword(ctx echo.Context) error {
	var data user.ChangePassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChangePassword")
	}
	if err := data.Validate(api.srv.deps.Validate); err != nil {
		return err
	}

	if _, err := api.srv.deps.UserSvc.ChangePassword(ctx.Request().Context(), data); err != nil {
		switch errors.Cause(err) {
		case user.ErrNotFound:
			return errHttpNotFound
		case user.ErrInvalidOldPassword:
			return core.NewValidationError(nil, core.FieldError{Field: "old_password", Error: user.ErrInvalidOldPassword.Error()})
		}
		return errors.Wrap(err, "changing password")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *userApi) refreshToken(ctx echo.Context) error {
	token, err := api.srv.refreshToken(ctx)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	claims, _ := getContextClaims(ctx)
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, Username: claims.Username})
}

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token    string `json:"token"`
		Username string `json:"username"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Username = core.CleanString(lr.Username)
	lr.Password = strings.TrimSpace(lr.Password)
	return validate.Struct(lr)
}
