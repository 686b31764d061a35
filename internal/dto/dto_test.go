package dto

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/filmes-api/internal/model"
)

func ptr[T any](v T) *T { return &v }

func TestAddressMapping(t *testing.T) {
	c := CreateAddress{Street: "123 Main St", Number: 10, Complement: ptr("Mall")}
	rec := c.ToModel()
	assert.Equal(t, sql.NullString{String: "Mall", Valid: true}, rec.Complement)

	rec.ID = 7
	got := NewReadAddress(rec)
	assert.Equal(t, ReadAddress{ID: 7, Street: "123 Main St", Number: 10, Complement: ptr("Mall")}, got)

	UpdateAddress{Street: "Other", Number: 2}.ApplyTo(&rec)
	assert.Equal(t, model.Address{ID: 7, Street: "Other", Number: 2}, rec)
}

func TestTheaterMapping(t *testing.T) {
	rec := CreateTheater{Name: "Cineplex", AddressID: 3}.ToModel()
	rec.ID = 9

	addr := model.Address{ID: 3, Street: "123 Main St", Number: 1}
	sessions := []model.SessionDetail{{MovieID: 1, MovieTitle: "Heat", TheaterID: 9, TheaterName: "Cineplex"}}
	got := NewReadTheater(rec, &addr, sessions)

	assert.Equal(t, uint64(9), got.ID)
	assert.Equal(t, uint64(3), got.AddressID)
	require.NotNil(t, got.Address)
	assert.Equal(t, "123 Main St", got.Address.Street)
	assert.Equal(t, []ReadSession{{MovieID: 1, MovieTitle: "Heat", TheaterID: 9, TheaterName: "Cineplex"}}, got.Sessions)

	bare := NewReadTheater(rec, nil, nil)
	assert.Nil(t, bare.Address)
	assert.NotNil(t, bare.Sessions)
}

func TestMovieMapping_ReplaceClearsOptionalFields(t *testing.T) {
	rec := CreateMovie{Title: "Heat", Genre: "Crime", DurationMinutes: 170, Rating: ptr("R")}.ToModel()
	UpdateMovie{Title: "Heat", Genre: "Crime", DurationMinutes: 171}.ApplyTo(&rec)

	assert.False(t, rec.Rating.Valid)
	assert.Equal(t, uint32(171), rec.DurationMinutes)
}

func TestPatchMovie_AbsentNullValue(t *testing.T) {
	cur := NewUpdateMovie(model.Movie{
		ID: 1, Title: "Heat", Genre: "Crime", DurationMinutes: 170,
		Rating: sql.NullString{String: "R", Valid: true},
	})

	var p PatchMovie
	require.NoError(t, json.Unmarshal([]byte(`{"genre":"Thriller","rating":null}`), &p))
	assert.False(t, p.Empty())
	assert.False(t, p.Title.IsSpecified())

	p.ApplyTo(&cur)
	assert.Equal(t, UpdateMovie{Title: "Heat", Genre: "Thriller", DurationMinutes: 170}, cur)
}

func TestPatchMovie_NullOnRequiredFieldZeroesIt(t *testing.T) {
	cur := UpdateMovie{Title: "Heat", Genre: "Crime", DurationMinutes: 170}

	var p PatchMovie
	require.NoError(t, json.Unmarshal([]byte(`{"title":null,"duration_minutes":95}`), &p))
	p.ApplyTo(&cur)

	assert.Equal(t, "", cur.Title)
	assert.Equal(t, uint32(95), cur.DurationMinutes)
	assert.Equal(t, "Crime", cur.Genre)
}

func TestPatchMovie_Empty(t *testing.T) {
	var p PatchMovie
	require.NoError(t, json.Unmarshal([]byte(`{}`), &p))
	assert.True(t, p.Empty())
}

func TestNewReadMovie(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	got := NewReadMovie(model.Movie{ID: 4, Title: "Heat", Genre: "Crime", DurationMinutes: 170}, nil, now)

	assert.Equal(t, now, got.QueriedAt)
	assert.Nil(t, got.Rating)
	assert.Empty(t, got.Sessions)

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"sessions":[]`)
	assert.NotContains(t, string(raw), `"rating"`)
}
