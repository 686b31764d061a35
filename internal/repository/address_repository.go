package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides sentinel errors such as sql.ErrNoRows
	"errors"       // errors package allows sentinel error definitions

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/filmes-api/internal/model"
)

// ErrAddressNotFound is returned when an address lookup fails.
var ErrAddressNotFound = errors.New("address not found")

// AddressRepo encapsulates all database queries related to addresses.
type AddressRepo struct {
	db *sqlx.DB
}

// NewAddressRepo constructs an AddressRepo with the provided DB handle.
func NewAddressRepo(db *sqlx.DB) *AddressRepo {
	return &AddressRepo{db: db}
}

const addressColumns = "id, street, number, complement"

// Create inserts a new address.  On success a's ID is populated with the
// store-assigned value and the row is read back so callers receive what
// was persisted.
func (r *AddressRepo) Create(ctx context.Context, a *model.Address) error {
	const q = `INSERT INTO addresses (street, number, complement)
	           VALUES (:street, :number, :complement)`
	res, err := r.db.NamedExecContext(ctx, q, a)
	if err != nil {
		return classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	fresh, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*a = *fresh
	return nil
}

// GetByID fetches an address by its ID.  It returns ErrAddressNotFound if
// no row is found.
func (r *AddressRepo) GetByID(ctx context.Context, id uint64) (*model.Address, error) {
	var a model.Address
	err := r.db.GetContext(ctx, &a, "SELECT "+addressColumns+" FROM addresses WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListAll returns every address ordered by id.
func (r *AddressRepo) ListAll(ctx context.Context) ([]model.Address, error) {
	out := []model.Address{}
	if err := r.db.SelectContext(ctx, &out, "SELECT "+addressColumns+" FROM addresses ORDER BY id"); err != nil {
		return nil, err
	}
	return out, nil
}

// ByIDs loads the given addresses keyed by id.  Missing ids are absent
// from the map.
func (r *AddressRepo) ByIDs(ctx context.Context, ids ...uint64) (map[uint64]model.Address, error) {
	out := make(map[uint64]model.Address, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	q, args, err := sqlx.In("SELECT "+addressColumns+" FROM addresses WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	var rows []model.Address
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	for _, a := range rows {
		out[a.ID] = a
	}
	return out, nil
}

// Update overwrites every mutable column of the address identified by
// a.ID.  Callers check existence first: MySQL reports zero affected rows
// for an update that changes nothing.
func (r *AddressRepo) Update(ctx context.Context, a *model.Address) error {
	const q = `UPDATE addresses
	           SET street = :street, number = :number, complement = :complement
	           WHERE id = :id`
	_, err := r.db.NamedExecContext(ctx, q, a)
	return classify(err)
}

// Delete removes an address.  ErrAddressNotFound is returned when no row
// matched; an address still referenced by a theater yields ErrIntegrity.
func (r *AddressRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM addresses WHERE id = ?", id)
	if err != nil {
		return classify(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAddressNotFound
	}
	return nil
}
