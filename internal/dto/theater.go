package dto

import "github.com/iliyamo/filmes-api/internal/model"

// CreateTheater is the body of POST /v1/theaters.  The address must exist
// and must not be used by another theater.
type CreateTheater struct {
	Name      string `json:"name" validate:"required,max=100"`
	AddressID uint64 `json:"address_id" validate:"required"`
}

// UpdateTheater is the body of PUT /v1/theaters/:id.
type UpdateTheater struct {
	Name      string `json:"name" validate:"required,max=100"`
	AddressID uint64 `json:"address_id" validate:"required"`
}

// ReadTheater embeds the theater's address and sessions.
type ReadTheater struct {
	ID        uint64        `json:"id"`
	Name      string        `json:"name"`
	AddressID uint64        `json:"address_id"`
	Address   *ReadAddress  `json:"address,omitempty"`
	Sessions  []ReadSession `json:"sessions"`
}

func (c CreateTheater) ToModel() model.Theater {
	return model.Theater{Name: c.Name, AddressID: c.AddressID}
}

func (u UpdateTheater) ApplyTo(t *model.Theater) {
	t.Name = u.Name
	t.AddressID = u.AddressID
}

// NewReadTheater projects a theater with its related rows.  address may
// be nil when it was not loaded.
func NewReadTheater(t model.Theater, address *model.Address, sessions []model.SessionDetail) ReadTheater {
	out := ReadTheater{
		ID:        t.ID,
		Name:      t.Name,
		AddressID: t.AddressID,
		Sessions:  NewReadSessions(sessions),
	}
	if address != nil {
		ra := NewReadAddress(*address)
		out.Address = &ra
	}
	return out
}
