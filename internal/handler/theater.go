package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/filmes-api/internal/dto"
	"github.com/iliyamo/filmes-api/internal/model"
	"github.com/iliyamo/filmes-api/internal/problem"
	"github.com/iliyamo/filmes-api/internal/queue"
	"github.com/iliyamo/filmes-api/internal/repository"
)

// TheaterHandler serves /v1/theaters.  Responses embed the theater's
// address and its sessions.
type TheaterHandler struct {
	Theaters  *repository.TheaterRepo
	Addresses *repository.AddressRepo
	Sessions  *repository.SessionRepo
	events
}

func NewTheaterHandler(theaters *repository.TheaterRepo, addresses *repository.AddressRepo, sessions *repository.SessionRepo, pub queue.Publisher, log *zap.Logger) *TheaterHandler {
	if theaters == nil || addresses == nil || sessions == nil {
		panic("nil repository passed to NewTheaterHandler")
	}
	return &TheaterHandler{
		Theaters:  theaters,
		Addresses: addresses,
		Sessions:  sessions,
		events:    events{pub: pub, log: log},
	}
}

// Create handles POST /v1/theaters.  An unknown or already used address
// fails with an integrity error.
func (h *TheaterHandler) Create(c echo.Context) error {
	var body dto.CreateTheater
	if p := bindBody(c, &body); p != nil {
		return sendProblem(c, p)
	}
	ctx := c.Request().Context()
	rec := body.ToModel()
	if err := h.Theaters.Create(ctx, &rec); err != nil {
		return err
	}
	h.emit(ctx, queue.NewEvent(queue.EntityTheater, queue.ActionCreated, rec.ID))

	out, err := h.read(ctx, rec)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/v1/theaters/%d", rec.ID))
	return c.JSON(http.StatusCreated, out)
}

// Get handles GET /v1/theaters/:id.
func (h *TheaterHandler) Get(c echo.Context) error {
	id, p := pathID(c, "id")
	if p != nil {
		return sendProblem(c, p)
	}
	ctx := c.Request().Context()
	rec, err := h.Theaters.GetByID(ctx, id)
	if errors.Is(err, repository.ErrTheaterNotFound) {
		return notFound(c, "theater")
	}
	if err != nil {
		return err
	}
	out, err := h.read(ctx, *rec)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// List handles GET /v1/theaters with an optional address_id filter.
func (h *TheaterHandler) List(c echo.Context) error {
	addressID, bad := queryUint(c, "address_id")
	if bad != nil {
		return sendProblem(c, problem.Validation([]problem.InvalidParam{*bad}, problem.WithInstance(c.Request().URL.Path)))
	}
	ctx := c.Request().Context()
	recs, err := h.Theaters.List(ctx, addressID)
	if err != nil {
		return err
	}

	ids := make([]uint64, 0, len(recs))
	addrIDs := make([]uint64, 0, len(recs))
	for _, t := range recs {
		ids = append(ids, t.ID)
		addrIDs = append(addrIDs, t.AddressID)
	}
	addrs, err := h.Addresses.ByIDs(ctx, addrIDs...)
	if err != nil {
		return err
	}
	sessions, err := h.Sessions.ByTheater(ctx, ids...)
	if err != nil {
		return err
	}

	items := make([]dto.ReadTheater, 0, len(recs))
	for _, t := range recs {
		var addr *model.Address
		if a, ok := addrs[t.AddressID]; ok {
			addr = &a
		}
		items = append(items, dto.NewReadTheater(t, addr, sessions[t.ID]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Replace handles PUT /v1/theaters/:id.
func (h *TheaterHandler) Replace(c echo.Context) error {
	id, p := pathID(c, "id")
	if p != nil {
		return sendProblem(c, p)
	}
	var body dto.UpdateTheater
	if p := bindBody(c, &body); p != nil {
		return sendProblem(c, p)
	}
	ctx := c.Request().Context()
	rec, err := h.Theaters.GetByID(ctx, id)
	if errors.Is(err, repository.ErrTheaterNotFound) {
		return notFound(c, "theater")
	}
	if err != nil {
		return err
	}
	body.ApplyTo(rec)
	if err := h.Theaters.Update(ctx, rec); err != nil {
		return err
	}
	h.emit(ctx, queue.NewEvent(queue.EntityTheater, queue.ActionReplaced, id))
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /v1/theaters/:id.  The theater's sessions go with
// it; its address stays.
func (h *TheaterHandler) Delete(c echo.Context) error {
	id, p := pathID(c, "id")
	if p != nil {
		return sendProblem(c, p)
	}
	err := h.Theaters.Delete(c.Request().Context(), id)
	if errors.Is(err, repository.ErrTheaterNotFound) {
		return notFound(c, "theater")
	}
	if err != nil {
		return err
	}
	h.emit(c.Request().Context(), queue.NewEvent(queue.EntityTheater, queue.ActionDeleted, id))
	return c.NoContent(http.StatusNoContent)
}

func (h *TheaterHandler) read(ctx context.Context, t model.Theater) (dto.ReadTheater, error) {
	var addr *model.Address
	a, err := h.Addresses.GetByID(ctx, t.AddressID)
	switch {
	case err == nil:
		addr = a
	case !errors.Is(err, repository.ErrAddressNotFound):
		return dto.ReadTheater{}, err
	}
	sessions, err := h.Sessions.ByTheater(ctx, t.ID)
	if err != nil {
		return dto.ReadTheater{}, err
	}
	return dto.NewReadTheater(t, addr, sessions[t.ID]), nil
}
