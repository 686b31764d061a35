package model

import "database/sql"

// Movie represents a film that can be screened in theaters.
//
// Fields:
//  ID              – primary key identifier.
//  Title           – movie title.
//  Genre           – genre label.
//  DurationMinutes – running time in minutes.
//  Rating          – optional age classification such as "PG-13".
type Movie struct {
	ID              uint64         `db:"id"`               // movies.id
	Title           string         `db:"title"`            // movies.title
	Genre           string         `db:"genre"`            // movies.genre
	DurationMinutes uint32         `db:"duration_minutes"` // movies.duration_minutes
	Rating          sql.NullString `db:"rating"`           // movies.rating (nullable)
}
