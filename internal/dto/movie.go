package dto

import (
	"time"

	"github.com/oapi-codegen/nullable"

	"github.com/iliyamo/filmes-api/internal/model"
)

// CreateMovie is the body of POST /v1/movies.
type CreateMovie struct {
	Title           string  `json:"title" validate:"required,max=200"`
	Genre           string  `json:"genre" validate:"required,max=50"`
	DurationMinutes uint32  `json:"duration_minutes" validate:"required,min=70,max=600"`
	Rating          *string `json:"rating,omitempty" validate:"omitempty,max=10"`
}

// UpdateMovie is the body of PUT /v1/movies/:id and the shape a patch is
// validated against after it has been applied.
type UpdateMovie struct {
	Title           string  `json:"title" validate:"required,max=200"`
	Genre           string  `json:"genre" validate:"required,max=50"`
	DurationMinutes uint32  `json:"duration_minutes" validate:"required,min=70,max=600"`
	Rating          *string `json:"rating,omitempty" validate:"omitempty,max=10"`
}

// PatchMovie is the body of PATCH /v1/movies/:id.  Each field is either
// absent (left untouched), null (cleared) or carries a new value.
type PatchMovie struct {
	Title           nullable.Nullable[string] `json:"title"`
	Genre           nullable.Nullable[string] `json:"genre"`
	DurationMinutes nullable.Nullable[uint32] `json:"duration_minutes"`
	Rating          nullable.Nullable[string] `json:"rating"`
}

// ReadMovie is returned by the movie endpoints.  QueriedAt records when
// the row was read.
type ReadMovie struct {
	ID              uint64        `json:"id"`
	Title           string        `json:"title"`
	Genre           string        `json:"genre"`
	DurationMinutes uint32        `json:"duration_minutes"`
	Rating          *string       `json:"rating,omitempty"`
	Sessions        []ReadSession `json:"sessions"`
	QueriedAt       time.Time     `json:"queried_at"`
}

func (c CreateMovie) ToModel() model.Movie {
	return model.Movie{
		Title:           c.Title,
		Genre:           c.Genre,
		DurationMinutes: c.DurationMinutes,
		Rating:          nullString(c.Rating),
	}
}

func (u UpdateMovie) ApplyTo(m *model.Movie) {
	m.Title = u.Title
	m.Genre = u.Genre
	m.DurationMinutes = u.DurationMinutes
	m.Rating = nullString(u.Rating)
}

// NewUpdateMovie captures the current mutable state of m.
func NewUpdateMovie(m model.Movie) UpdateMovie {
	return UpdateMovie{
		Title:           m.Title,
		Genre:           m.Genre,
		DurationMinutes: m.DurationMinutes,
		Rating:          stringPtr(m.Rating),
	}
}

// Empty reports whether the patch names no field at all.
func (p PatchMovie) Empty() bool {
	return !p.Title.IsSpecified() && !p.Genre.IsSpecified() &&
		!p.DurationMinutes.IsSpecified() && !p.Rating.IsSpecified()
}

// ApplyTo assigns every present field of p onto u.  Null resets the field
// to its zero value; required fields reset that way fail validation.
func (p PatchMovie) ApplyTo(u *UpdateMovie) {
	if p.Title.IsSpecified() {
		u.Title = valueOrZero(p.Title)
	}
	if p.Genre.IsSpecified() {
		u.Genre = valueOrZero(p.Genre)
	}
	if p.DurationMinutes.IsSpecified() {
		u.DurationMinutes = valueOrZero(p.DurationMinutes)
	}
	if p.Rating.IsSpecified() {
		if p.Rating.IsNull() {
			u.Rating = nil
		} else {
			v := p.Rating.MustGet()
			u.Rating = &v
		}
	}
}

func valueOrZero[T any](n nullable.Nullable[T]) T {
	var zero T
	if n.IsNull() {
		return zero
	}
	v, err := n.Get()
	if err != nil {
		return zero
	}
	return v
}

func NewReadMovie(m model.Movie, sessions []model.SessionDetail, now time.Time) ReadMovie {
	return ReadMovie{
		ID:              m.ID,
		Title:           m.Title,
		Genre:           m.Genre,
		DurationMinutes: m.DurationMinutes,
		Rating:          stringPtr(m.Rating),
		Sessions:        NewReadSessions(sessions),
		QueriedAt:       now,
	}
}
