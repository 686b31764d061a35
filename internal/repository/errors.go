// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. Lookup
// misses use one ErrXNotFound value per table, while ErrIntegrity marks a
// write the store rejected because of a uniqueness or foreign key
// constraint (duplicate session, address still used by a theater).
package repository

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
)

// ErrIntegrity is returned when the store refuses a write because it
// would violate a uniqueness, foreign key or restrict-on-delete rule.
// Handlers do not recover it; it is mapped at the HTTP boundary.
var ErrIntegrity = errors.New("integrity violation")

// MySQL server error numbers for constraint failures.
const (
	mysqlDuplicateEntry     = 1062
	mysqlNoReferencedRowOld = 1216
	mysqlRowIsReferencedOld = 1217
	mysqlRowIsReferenced    = 1451
	mysqlNoReferencedRow    = 1452
)

// sqliteConstraint is the primary SQLITE_CONSTRAINT result code; extended
// codes keep it in the low byte.
const sqliteConstraint = 19

// classify wraps driver constraint errors with ErrIntegrity and returns
// every other error unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlDuplicateEntry, mysqlNoReferencedRowOld, mysqlRowIsReferencedOld,
			mysqlRowIsReferenced, mysqlNoReferencedRow:
			return fmt.Errorf("%w: %w", ErrIntegrity, err)
		}
		return err
	}
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code()&0xff == sqliteConstraint {
		return fmt.Errorf("%w: %w", ErrIntegrity, err)
	}
	return err
}
