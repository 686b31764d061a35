package model

import "database/sql"

// Address represents the location of a theater.  At most one theater
// may point at an address, and an address still referenced by a theater
// cannot be removed.  This struct corresponds to a row in the
// `addresses` table.
//
// Fields:
//  ID         – primary key identifier.
//  Street     – street name.
//  Number     – building number on the street.
//  Complement – optional free-text addition (floor, block, mall).
type Address struct {
	ID         uint64         `db:"id"`         // addresses.id
	Street     string         `db:"street"`     // addresses.street
	Number     uint32         `db:"number"`     // addresses.number
	Complement sql.NullString `db:"complement"` // addresses.complement (nullable)
}
