// Package repository contains data access logic separated from HTTP handlers.
// This file defines the theater repository.  A theater sits at one address
// (theaters.address_id is unique and restricts deletion of the address)
// and hosts many sessions.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/filmes-api/internal/model"
)

// ErrTheaterNotFound is returned when a theater cannot be found in the DB.
var ErrTheaterNotFound = errors.New("theater not found")

// TheaterRepo encapsulates all database queries related to theaters.
type TheaterRepo struct {
	db *sqlx.DB // db is the underlying database connection pool
}

// NewTheaterRepo constructs a TheaterRepo with the provided DB handle.
func NewTheaterRepo(db *sqlx.DB) *TheaterRepo {
	return &TheaterRepo{db: db}
}

// Create inserts a new theater.  A missing address or an address already
// used by another theater is reported as ErrIntegrity.
func (r *TheaterRepo) Create(ctx context.Context, t *model.Theater) error {
	const q = "INSERT INTO theaters (name, address_id) VALUES (:name, :address_id)"
	res, err := r.db.NamedExecContext(ctx, q, t)
	if err != nil {
		return classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)

	// Read back so the caller sees the persisted row.
	const qSelect = "SELECT id, name, address_id FROM theaters WHERE id = ?"
	return r.db.GetContext(ctx, t, qSelect, t.ID)
}

// GetByID fetches a theater by its ID.  It returns ErrTheaterNotFound if
// no row is found.
func (r *TheaterRepo) GetByID(ctx context.Context, id uint64) (*model.Theater, error) {
	const q = "SELECT id, name, address_id FROM theaters WHERE id = ?"
	var t model.Theater
	if err := r.db.GetContext(ctx, &t, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTheaterNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List returns theaters ordered by id.  When addressID is non-nil only the
// theater located at that address is returned.
func (r *TheaterRepo) List(ctx context.Context, addressID *uint64) ([]model.Theater, error) {
	q := "SELECT id, name, address_id FROM theaters"
	var args []any
	if addressID != nil {
		q += " WHERE address_id = ?"
		args = append(args, *addressID)
	}
	q += " ORDER BY id"

	out := []model.Theater{}
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites name and address of the theater identified by t.ID.
// Moving a theater to an address that is taken or missing is ErrIntegrity.
func (r *TheaterRepo) Update(ctx context.Context, t *model.Theater) error {
	const q = "UPDATE theaters SET name = :name, address_id = :address_id WHERE id = :id"
	_, err := r.db.NamedExecContext(ctx, q, t)
	return classify(err)
}

// Delete removes a theater; its sessions go with it (ON DELETE CASCADE).
// The address is left in place.
func (r *TheaterRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM theaters WHERE id = ?", id)
	if err != nil {
		return classify(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTheaterNotFound
	}
	return nil
}
