package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type reportApi struct {
	srv *server
}

func (s *server) registerReportAPI(g *echo.Group, jwt echo.MiddlewareFunc) {
	api := reportApi{srv: s}

	rg := g.Group("/admin", jwt, adminMiddleware())
	rg.GET("/full-report", api.fullReport)
}

func (api *reportApi) fullReport(ctx echo.Context) error {
	rep, err := api.srv.deps.ReportSvc.BuildFullReport(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "building full report")
	}
	return ctx.JSON(http.StatusOK, rep)
}
