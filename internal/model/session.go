package model

// Session records that a movie screens at a theater.  The pair
// (MovieID, TheaterID) is the primary key, so a pair can be recorded
// only once.
type Session struct {
	MovieID   uint64 `db:"movie_id"`   // sessions.movie_id
	TheaterID uint64 `db:"theater_id"` // sessions.theater_id
}

// SessionDetail is a session joined with the names of both sides.  It is
// what read shapes embed.
type SessionDetail struct {
	MovieID     uint64 `db:"movie_id"`
	MovieTitle  string `db:"movie_title"`
	TheaterID   uint64 `db:"theater_id"`
	TheaterName string `db:"theater_name"`
}
