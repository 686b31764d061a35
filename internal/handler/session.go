package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/filmes-api/internal/dto"
	"github.com/iliyamo/filmes-api/internal/problem"
	"github.com/iliyamo/filmes-api/internal/queue"
	"github.com/iliyamo/filmes-api/internal/repository"
)

// SessionHandler serves /v1/sessions.  A session is addressed by its
// (movie_id, theater_id) pair.
type SessionHandler struct {
	Sessions *repository.SessionRepo
	events
}

func NewSessionHandler(sessions *repository.SessionRepo, pub queue.Publisher, log *zap.Logger) *SessionHandler {
	if sessions == nil {
		panic("nil repository passed to NewSessionHandler")
	}
	return &SessionHandler{Sessions: sessions, events: events{pub: pub, log: log}}
}

// Create handles POST /v1/sessions.  A duplicate pair or a missing movie
// or theater fails with an integrity error.
func (h *SessionHandler) Create(c echo.Context) error {
	var body dto.CreateSession
	if p := bindBody(c, &body); p != nil {
		return sendProblem(c, p)
	}
	ctx := c.Request().Context()
	if err := h.Sessions.Create(ctx, body.ToModel()); err != nil {
		return err
	}
	h.emit(ctx, queue.NewSessionEvent(queue.ActionCreated, body.MovieID, body.TheaterID))

	d, err := h.Sessions.Get(ctx, body.MovieID, body.TheaterID)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/v1/sessions/%d/%d", d.MovieID, d.TheaterID))
	return c.JSON(http.StatusCreated, dto.NewReadSession(*d))
}

// Get handles GET /v1/sessions/:movie_id/:theater_id.
func (h *SessionHandler) Get(c echo.Context) error {
	movieID, p := pathID(c, "movie_id")
	if p != nil {
		return sendProblem(c, p)
	}
	theaterID, p := pathID(c, "theater_id")
	if p != nil {
		return sendProblem(c, p)
	}
	d, err := h.Sessions.Get(c.Request().Context(), movieID, theaterID)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return notFound(c, "session")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.NewReadSession(*d))
}

// List handles GET /v1/sessions with optional movie_id and theater_id
// filters.
func (h *SessionHandler) List(c echo.Context) error {
	var f repository.SessionFilter
	var bad []problem.InvalidParam
	if v, ip := queryUint(c, "movie_id"); ip != nil {
		bad = append(bad, *ip)
	} else if v != nil {
		f.MovieIDs = []uint64{*v}
	}
	if v, ip := queryUint(c, "theater_id"); ip != nil {
		bad = append(bad, *ip)
	} else if v != nil {
		f.TheaterIDs = []uint64{*v}
	}
	if len(bad) > 0 {
		return sendProblem(c, problem.Validation(bad, problem.WithInstance(c.Request().URL.Path)))
	}
	rows, err := h.Sessions.List(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"items": dto.NewReadSessions(rows)})
}

// Delete handles DELETE /v1/sessions/:movie_id/:theater_id.
func (h *SessionHandler) Delete(c echo.Context) error {
	movieID, p := pathID(c, "movie_id")
	if p != nil {
		return sendProblem(c, p)
	}
	theaterID, p := pathID(c, "theater_id")
	if p != nil {
		return sendProblem(c, p)
	}
	err := h.Sessions.Delete(c.Request().Context(), movieID, theaterID)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return notFound(c, "session")
	}
	if err != nil {
		return err
	}
	h.emit(c.Request().Context(), queue.NewSessionEvent(queue.ActionDeleted, movieID, theaterID))
	return c.NoContent(http.StatusNoContent)
}
