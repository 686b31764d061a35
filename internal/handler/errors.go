package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/filmes-api/internal/problem"
	"github.com/iliyamo/filmes-api/internal/repository"
)

// ErrorHandler renders errors returned by handlers and middleware as
// problem details.  Integrity violations from the store become 409; echo
// errors keep their status; anything else is logged and becomes 500.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		path := c.Request().URL.Path

		var p *problem.Problem
		var he *echo.HTTPError
		switch {
		case errors.Is(err, repository.ErrIntegrity):
			log.Info("integrity violation", zap.String("path", path), zap.Error(err))
			p = problem.Conflict("the change violates a uniqueness or reference constraint", problem.WithInstance(path))
		case errors.As(err, &he):
			detail := http.StatusText(he.Code)
			if msg, ok := he.Message.(string); ok && msg != "" {
				detail = msg
			}
			p = problem.New(problem.WithStatus(he.Code), problem.WithDetail(detail), problem.WithInstance(path))
		default:
			log.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", path),
				zap.Error(err))
			p = problem.Internal("internal server error", problem.WithInstance(path))
		}

		if rid := c.Response().Header().Get(echo.HeaderXRequestID); rid != "" {
			p.TraceID = rid
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(p.Status)
			return
		}
		if sendErr := problem.Send(c, p); sendErr != nil {
			log.Error("write error response", zap.Error(sendErr))
		}
	}
}
