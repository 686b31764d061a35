// Package dto holds the request and response shapes of the API and the
// pure functions copying fields between them and the persisted records in
// package model.  Every entity has a Create shape (no identity), a Read
// shape (identity plus related data) and an Update shape (mutable fields).
package dto

import (
	"database/sql"

	"github.com/iliyamo/filmes-api/internal/model"
)

// CreateAddress is the body of POST /v1/addresses.
type CreateAddress struct {
	Street     string  `json:"street" validate:"required,max=100"`
	Number     uint32  `json:"number" validate:"required,min=1"`
	Complement *string `json:"complement,omitempty" validate:"omitempty,max=100"`
}

// UpdateAddress is the body of PUT /v1/addresses/:id.  A missing
// complement clears the stored one.
type UpdateAddress struct {
	Street     string  `json:"street" validate:"required,max=100"`
	Number     uint32  `json:"number" validate:"required,min=1"`
	Complement *string `json:"complement,omitempty" validate:"omitempty,max=100"`
}

// ReadAddress is returned by every address endpoint and embedded in
// theater responses.
type ReadAddress struct {
	ID         uint64  `json:"id"`
	Street     string  `json:"street"`
	Number     uint32  `json:"number"`
	Complement *string `json:"complement,omitempty"`
}

// ToModel builds a new record from the create shape.
func (c CreateAddress) ToModel() model.Address {
	return model.Address{
		Street:     c.Street,
		Number:     c.Number,
		Complement: nullString(c.Complement),
	}
}

// ApplyTo overwrites the mutable fields of a.
func (u UpdateAddress) ApplyTo(a *model.Address) {
	a.Street = u.Street
	a.Number = u.Number
	a.Complement = nullString(u.Complement)
}

// NewReadAddress projects a record into its read shape.
func NewReadAddress(a model.Address) ReadAddress {
	return ReadAddress{
		ID:         a.ID,
		Street:     a.Street,
		Number:     a.Number,
		Complement: stringPtr(a.Complement),
	}
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func stringPtr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	s := n.String
	return &s
}
