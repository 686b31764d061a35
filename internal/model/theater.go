package model

// Theater represents a cinema venue.  A theater sits at exactly one
// address and hosts many sessions.  This struct corresponds to a row in
// the `theaters` table.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name of the theater.
//  AddressID – addresses.id of the theater's location (unique).
type Theater struct {
	ID        uint64 `db:"id"`         // theaters.id
	Name      string `db:"name"`       // theaters.name
	AddressID uint64 `db:"address_id"` // theaters.address_id
}
