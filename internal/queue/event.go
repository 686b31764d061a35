// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// Entity names carried in EntityChangedEvent.Entity.
const (
	EntityAddress = "address"
	EntityTheater = "theater"
	EntityMovie   = "movie"
	EntitySession = "session"
)

// Actions carried in EntityChangedEvent.Action.
const (
	ActionCreated  = "created"
	ActionReplaced = "replaced"
	ActionPatched  = "patched"
	ActionDeleted  = "deleted"
)

// EntityChangedEvent is published after a write commits.  Sessions have no
// surrogate id; they are identified by MovieID and TheaterID instead.
type EntityChangedEvent struct {
	EventID    string    `json:"event_id"`
	Entity     string    `json:"entity"`
	Action     string    `json:"action"`
	ID         uint64    `json:"id,omitempty"`
	MovieID    uint64    `json:"movie_id,omitempty"`
	TheaterID  uint64    `json:"theater_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent stamps an event for a row with a surrogate id.
func NewEvent(entity, action string, id uint64) EntityChangedEvent {
	return EntityChangedEvent{
		EventID:    uuid.NewString(),
		Entity:     entity,
		Action:     action,
		ID:         id,
		OccurredAt: time.Now().UTC(),
	}
}

// NewSessionEvent stamps an event for a session pair.
func NewSessionEvent(action string, movieID, theaterID uint64) EntityChangedEvent {
	ev := NewEvent(EntitySession, action, 0)
	ev.MovieID = movieID
	ev.TheaterID = theaterID
	return ev
}
