package dto

import "github.com/iliyamo/filmes-api/internal/model"

// CreateSession is the body of POST /v1/sessions.
type CreateSession struct {
	MovieID   uint64 `json:"movie_id" validate:"required"`
	TheaterID uint64 `json:"theater_id" validate:"required"`
}

// ReadSession identifies a session by its pair and names both sides.
type ReadSession struct {
	MovieID     uint64 `json:"movie_id"`
	MovieTitle  string `json:"movie_title"`
	TheaterID   uint64 `json:"theater_id"`
	TheaterName string `json:"theater_name"`
}

func (c CreateSession) ToModel() model.Session {
	return model.Session{MovieID: c.MovieID, TheaterID: c.TheaterID}
}

func NewReadSession(d model.SessionDetail) ReadSession {
	return ReadSession{
		MovieID:     d.MovieID,
		MovieTitle:  d.MovieTitle,
		TheaterID:   d.TheaterID,
		TheaterName: d.TheaterName,
	}
}

// NewReadSessions never returns nil so responses carry [] instead of null.
func NewReadSessions(ds []model.SessionDetail) []ReadSession {
	out := make([]ReadSession, 0, len(ds))
	for _, d := range ds {
		out = append(out, NewReadSession(d))
	}
	return out
}
