// Package repository defines the storage contracts of the bookings
// ledger and their MySQL implementation. The sentinel errors below are
// shared by every store implementation so that services can tell failure
// cases apart without knowing which backend is in use.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a row does not exist or belongs to another
// owner. Owner-scoped lookups never reveal foreign rows.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert or update violates an
// owner-scoped unique name.
var ErrDuplicate = errors.New("duplicate")

// ErrEmailExists is returned when registering an email that is taken.
var ErrEmailExists = errors.New("email already exists")

// ErrInvalidRefresh is returned for unknown, expired or revoked refresh
// tokens.
var ErrInvalidRefresh = errors.New("invalid refresh token")

// mysqlDuplicateEntry is the server error number for a unique key
// violation.
const mysqlDuplicateEntry = 1062

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
