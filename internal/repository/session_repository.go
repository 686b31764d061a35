package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/filmes-api/internal/model"
)

// ErrSessionNotFound is returned when no session exists for a
// (movie, theater) pair.
var ErrSessionNotFound = errors.New("session not found")

// SessionFilter narrows session listings.  Empty slices mean "any".
type SessionFilter struct {
	MovieIDs   []uint64
	TheaterIDs []uint64
}

// SessionRepo stores the movie/theater association table.
type SessionRepo struct {
	db *sqlx.DB
}

// NewSessionRepo constructs a SessionRepo with the given DB handle.
func NewSessionRepo(db *sqlx.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

const sessionDetailSelect = `SELECT s.movie_id, m.title AS movie_title, s.theater_id, t.name AS theater_name
	FROM sessions s
	JOIN movies m   ON m.id = s.movie_id
	JOIN theaters t ON t.id = s.theater_id`

// Create records a session.  A pair that already exists, or a movie or
// theater that does not, is reported as ErrIntegrity.
func (r *SessionRepo) Create(ctx context.Context, s model.Session) error {
	const q = "INSERT INTO sessions (movie_id, theater_id) VALUES (:movie_id, :theater_id)"
	_, err := r.db.NamedExecContext(ctx, q, s)
	return classify(err)
}

// Get fetches one session with both names joined in.
func (r *SessionRepo) Get(ctx context.Context, movieID, theaterID uint64) (*model.SessionDetail, error) {
	var d model.SessionDetail
	q := sessionDetailSelect + " WHERE s.movie_id = ? AND s.theater_id = ?"
	if err := r.db.GetContext(ctx, &d, q, movieID, theaterID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &d, nil
}

// List returns sessions matching f ordered by (movie_id, theater_id).
func (r *SessionRepo) List(ctx context.Context, f SessionFilter) ([]model.SessionDetail, error) {
	where := []string{}
	args := []any{}
	if len(f.MovieIDs) > 0 {
		where = append(where, "s.movie_id IN (?)")
		args = append(args, f.MovieIDs)
	}
	if len(f.TheaterIDs) > 0 {
		where = append(where, "s.theater_id IN (?)")
		args = append(args, f.TheaterIDs)
	}

	q := sessionDetailSelect
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY s.movie_id, s.theater_id"

	if len(args) > 0 {
		expanded, expandedArgs, err := sqlx.In(q, args...)
		if err != nil {
			return nil, err
		}
		q, args = r.db.Rebind(expanded), expandedArgs
	}

	out := []model.SessionDetail{}
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, err
	}
	return out, nil
}

// ByMovie groups the sessions of the given movies by movie id.
func (r *SessionRepo) ByMovie(ctx context.Context, movieIDs ...uint64) (map[uint64][]model.SessionDetail, error) {
	out := make(map[uint64][]model.SessionDetail, len(movieIDs))
	if len(movieIDs) == 0 {
		return out, nil
	}
	rows, err := r.List(ctx, SessionFilter{MovieIDs: movieIDs})
	if err != nil {
		return nil, err
	}
	for _, d := range rows {
		out[d.MovieID] = append(out[d.MovieID], d)
	}
	return out, nil
}

// ByTheater groups the sessions of the given theaters by theater id.
func (r *SessionRepo) ByTheater(ctx context.Context, theaterIDs ...uint64) (map[uint64][]model.SessionDetail, error) {
	out := make(map[uint64][]model.SessionDetail, len(theaterIDs))
	if len(theaterIDs) == 0 {
		return out, nil
	}
	rows, err := r.List(ctx, SessionFilter{TheaterIDs: theaterIDs})
	if err != nil {
		return nil, err
	}
	for _, d := range rows {
		out[d.TheaterID] = append(out[d.TheaterID], d)
	}
	return out, nil
}

// Delete removes one session.
func (r *SessionRepo) Delete(ctx context.Context, movieID, theaterID uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE movie_id = ? AND theater_id = ?", movieID, theaterID)
	if err != nil {
		return classify(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSessionNotFound
	}
	return nil
}
