package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/filmes-api/internal/model"
)

// ErrMovieNotFound is returned when a movie lookup fails.
var ErrMovieNotFound = errors.New("movie not found")

// MovieQuery defines filters & pagination for listing movies.  A non-nil
// TheaterName keeps only movies with at least one session at a theater of
// exactly that name; the filter is applied before Skip and Take.
type MovieQuery struct {
	Skip        int
	Take        int
	TheaterName *string
}

// MovieRepo provides CRUD access to the movies table.
type MovieRepo struct {
	db *sqlx.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sqlx.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

const movieColumns = "id, title, genre, duration_minutes, rating"

// Create inserts a new movie and reads it back.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	const q = `INSERT INTO movies (title, genre, duration_minutes, rating)
	           VALUES (:title, :genre, :duration_minutes, :rating)`
	res, err := r.db.NamedExecContext(ctx, q, m)
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
	*m = *fresh
	return nil
}

// GetByID fetches a movie by id or returns ErrMovieNotFound.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	var m model.Movie
	err := r.db.GetContext(ctx, &m, "SELECT "+movieColumns+" FROM movies WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &m, nil
}

// List returns one page of movies ordered by id.
func (r *MovieRepo) List(ctx context.Context, q MovieQuery) ([]model.Movie, error) {
	where := []string{}
	args := []any{}

	if q.TheaterName != nil {
		where = append(where, `EXISTS (
			SELECT 1 FROM sessions s
			JOIN theaters t ON t.id = s.theater_id
			WHERE s.movie_id = m.id AND t.name = ?)`)
		args = append(args, *q.TheaterName)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	dataSQL := `SELECT m.id, m.title, m.genre, m.duration_minutes, m.rating
		FROM movies m
		WHERE ` + cond + `
		ORDER BY m.id ASC
		LIMIT ? OFFSET ?`
	args = append(args, q.Take, q.Skip)

	out := []model.Movie{}
	if err := r.db.SelectContext(ctx, &out, dataSQL, args...); err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites every mutable column of the movie identified by m.ID.
func (r *MovieRepo) Update(ctx context.Context, m *model.Movie) error {
	const q = `UPDATE movies
	           SET title = :title, genre = :genre, duration_minutes = :duration_minutes, rating = :rating
	           WHERE id = :id`
	_, err := r.db.NamedExecContext(ctx, q, m)
	return classify(err)
}

// Delete removes a movie together with its sessions.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM movies WHERE id = ?", id)
	if err != nil {
		return classify(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMovieNotFound
	}
	return nil
}
