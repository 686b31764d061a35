package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/filmes-api/internal/dto"
	"github.com/iliyamo/filmes-api/internal/model"
	"github.com/iliyamo/filmes-api/internal/problem"
	"github.com/iliyamo/filmes-api/internal/queue"
	"github.com/iliyamo/filmes-api/internal/repository"
)

// Pagination bounds for GET /v1/movies.
const (
	DefaultTake = 50
	MaxTake     = 500
)

// MovieHandler serves /v1/movies.  Responses embed the movie's sessions
// and the time the row was read.
type MovieHandler struct {
	Movies   *repository.MovieRepo
	Sessions *repository.SessionRepo
	Now      func() time.Time
	events
}

func NewMovieHandler(movies *repository.MovieRepo, sessions *repository.SessionRepo, pub queue.Publisher, log *zap.Logger) *MovieHandler {
	if movies == nil || sessions == nil {
		panic("nil repository passed to NewMovieHandler")
	}
	return &MovieHandler{
		Movies:   movies,
		Sessions: sessions,
		Now:      func() time.Time { return time.Now().UTC() },
		events:   events{pub: pub, log: log},
	}
}

// Create handles POST /v1/movies.
func (h *MovieHandler) Create(c echo.Context) error {
	var body dto.CreateMovie
	if p := bindBody(c, &body); p != nil {
		return sendProblem(c, p)
	}
	ctx := c.Request().Context()
	rec := body.ToModel()
	if err := h.Movies.Create(ctx, &rec); err != nil {
		return err
	}
	h.emit(ctx, queue.NewEvent(queue.EntityMovie, queue.ActionCreated, rec.ID))
	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/v1/movies/%d", rec.ID))
	return c.JSON(http.StatusCreated, dto.NewReadMovie(rec, nil, h.Now()))
}

// Get handles GET /v1/movies/:id.
func (h *MovieHandler) Get(c echo.Context) error {
	id, p := pathID(c, "id")
	if p != nil {
		return sendProblem(c, p)
	}
	ctx := c.Request().Context()
	rec, err := h.Movies.GetByID(ctx, id)
	if errors.Is(err, repository.ErrMovieNotFound) {
		return notFound(c, "movie")
	}
	if err != nil {
		return err
	}
	sessions, err := h.Sessions.ByMovie(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.NewReadMovie(*rec, sessions[id], h.Now()))
}

// List handles GET /v1/movies?skip=&take=&theater_name=.
func (h *MovieHandler) List(c echo.Context) error {
	q, bad := parseMovieQuery(c)
	if len(bad) > 0 {
		return sendProblem(c, problem.Validation(bad, problem.WithInstance(c.Request().URL.Path)))
	}
	ctx := c.Request().Context()
	recs, err := h.Movies.List(ctx, q)
	if err != nil {
		return err
	}
	items, err := h.readAll(ctx, recs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Replace handles PUT /v1/movies/:id.  Fields missing from the body are
// cleared.
func (h *MovieHandler) Replace(c echo.Context) error {
	id, p := pathID(c, "id")
	if p != nil {
		return sendProblem(c, p)
	}
	var body dto.UpdateMovie
	if p := bindBody(c, &body); p != nil {
		return sendProblem(c, p)
	}
	ctx := c.Request().Context()
	rec, err := h.Movies.GetByID(ctx, id)
	if errors.Is(err, repository.ErrMovieNotFound) {
		return notFound(c, "movie")
	}
	if err != nil {
		return err
	}
	body.ApplyTo(rec)
	if err := h.Movies.Update(ctx, rec); err != nil {
		return err
	}
	h.emit(ctx, queue.NewEvent(queue.EntityMovie, queue.ActionReplaced, id))
	return c.NoContent(http.StatusNoContent)
}

// Patch handles PATCH /v1/movies/:id.  The patch is applied to the stored
// state and the result must pass the same checks as a replace.  An empty
// patch changes nothing.
func (h *MovieHandler) Patch(c echo.Context) error {
	id, p := pathID(c, "id")
	if p != nil {
		return sendProblem(c, p)
	}
	var patch dto.PatchMovie
	if err := c.Bind(&patch); err != nil {
		return sendProblem(c, problem.BadRequest("invalid patch document", problem.WithInstance(c.Request().URL.Path)))
	}
	ctx := c.Request().Context()
	rec, err := h.Movies.GetByID(ctx, id)
	if errors.Is(err, repository.ErrMovieNotFound) {
		return notFound(c, "movie")
	}
	if err != nil {
		return err
	}
	if patch.Empty() {
		return c.NoContent(http.StatusNoContent)
	}

	next := dto.NewUpdateMovie(*rec)
	patch.ApplyTo(&next)
	if err := c.Validate(&next); err != nil {
		return sendProblem(c, problem.Validation(invalidParams(err), problem.WithInstance(c.Request().URL.Path)))
	}
	next.ApplyTo(rec)
	if err := h.Movies.Update(ctx, rec); err != nil {
		return err
	}
	h.emit(ctx, queue.NewEvent(queue.EntityMovie, queue.ActionPatched, id))
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /v1/movies/:id.  The movie's sessions go with it.
func (h *MovieHandler) Delete(c echo.Context) error {
	id, p := pathID(c, "id")
	if p != nil {
		return sendProblem(c, p)
	}
	err := h.Movies.Delete(c.Request().Context(), id)
	if errors.Is(err, repository.ErrMovieNotFound) {
		return notFound(c, "movie")
	}
	if err != nil {
		return err
	}
	h.emit(c.Request().Context(), queue.NewEvent(queue.EntityMovie, queue.ActionDeleted, id))
	return c.NoContent(http.StatusNoContent)
}

func (h *MovieHandler) readAll(ctx context.Context, recs []model.Movie) ([]dto.ReadMovie, error) {
	ids := make([]uint64, 0, len(recs))
	for _, m := range recs {
		ids = append(ids, m.ID)
	}
	sessions, err := h.Sessions.ByMovie(ctx, ids...)
	if err != nil {
		return nil, err
	}
	now := h.Now()
	out := make([]dto.ReadMovie, 0, len(recs))
	for _, m := range recs {
		out = append(out, dto.NewReadMovie(m, sessions[m.ID], now))
	}
	return out, nil
}

// parseMovieQuery reads skip, take and theater_name.  Each malformed
// parameter yields one entry.
func parseMovieQuery(c echo.Context) (repository.MovieQuery, []problem.InvalidParam) {
	q := repository.MovieQuery{Skip: 0, Take: DefaultTake}
	var bad []problem.InvalidParam

	if raw := c.QueryParam("skip"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			bad = append(bad, problem.InvalidParam{Name: "skip", Reason: "must be a non-negative integer"})
		} else {
			q.Skip = n
		}
	}
	if raw := c.QueryParam("take"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > MaxTake {
			bad = append(bad, problem.InvalidParam{Name: "take", Reason: fmt.Sprintf("must be between 1 and %d", MaxTake)})
		} else {
			q.Take = n
		}
	}
	if vals, ok := c.QueryParams()["theater_name"]; ok && len(vals) > 0 {
		name := vals[0]
		q.TheaterName = &name
	}
	return q, bad
}
