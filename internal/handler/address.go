package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/filmes-api/internal/dto"
	"github.com/iliyamo/filmes-api/internal/queue"
	"github.com/iliyamo/filmes-api/internal/repository"
)

// AddressHandler serves /v1/addresses.
type AddressHandler struct {
	Addresses *repository.AddressRepo
	events
}

// NewAddressHandler panics if the repository is nil.
func NewAddressHandler(addresses *repository.AddressRepo, pub queue.Publisher, log *zap.Logger) *AddressHandler {
	if addresses == nil {
		panic("nil repository passed to NewAddressHandler")
	}
	return &AddressHandler{Addresses: addresses, events: events{pub: pub, log: log}}
}

// Create handles POST /v1/addresses.
func (h *AddressHandler) Create(c echo.Context) error {
	var body dto.CreateAddress
	if p := bindBody(c, &body); p != nil {
		return sendProblem(c, p)
	}
	rec := body.ToModel()
	if err := h.Addresses.Create(c.Request().Context(), &rec); err != nil {
		return err
	}
	h.emit(c.Request().Context(), queue.NewEvent(queue.EntityAddress, queue.ActionCreated, rec.ID))
	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/v1/addresses/%d", rec.ID))
	return c.JSON(http.StatusCreated, dto.NewReadAddress(rec))
}

// Get handles GET /v1/addresses/:id.
func (h *AddressHandler) Get(c echo.Context) error {
	id, p := pathID(c, "id")
	if p != nil {
		return sendProblem(c, p)
	}
	rec, err := h.Addresses.GetByID(c.Request().Context(), id)
	if errors.Is(err, repository.ErrAddressNotFound) {
		return notFound(c, "address")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.NewReadAddress(*rec))
}

// List handles GET /v1/addresses.
func (h *AddressHandler) List(c echo.Context) error {
	recs, err := h.Addresses.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	items := make([]dto.ReadAddress, 0, len(recs))
	for _, a := range recs {
		items = append(items, dto.NewReadAddress(a))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Replace handles PUT /v1/addresses/:id.
func (h *AddressHandler) Replace(c echo.Context) error {
	id, p := pathID(c, "id")
	if p != nil {
		return sendProblem(c, p)
	}
	var body dto.UpdateAddress
	if p := bindBody(c, &body); p != nil {
		return sendProblem(c, p)
	}
	ctx := c.Request().Context()
	rec, err := h.Addresses.GetByID(ctx, id)
	if errors.Is(err, repository.ErrAddressNotFound) {
		return notFound(c, "address")
	}
	if err != nil {
		return err
	}
	body.ApplyTo(rec)
	if err := h.Addresses.Update(ctx, rec); err != nil {
		return err
	}
	h.emit(ctx, queue.NewEvent(queue.EntityAddress, queue.ActionReplaced, id))
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /v1/addresses/:id.  An address still used by a
// theater is kept and the integrity error is returned.
func (h *AddressHandler) Delete(c echo.Context) error {
	id, p := pathID(c, "id")
	if p != nil {
		return sendProblem(c, p)
	}
	err := h.Addresses.Delete(c.Request().Context(), id)
	if errors.Is(err, repository.ErrAddressNotFound) {
		return notFound(c, "address")
	}
	if err != nil {
		return err
	}
	h.emit(c.Request().Context(), queue.NewEvent(queue.EntityAddress, queue.ActionDeleted, id))
	return c.NoContent(http.StatusNoContent)
}
