// Package repository implements the model repository interfaces on MySQL.
// Sentinel errors defined here are shared by every backend, including the
// in-memory store, so higher layers can branch on them with errors.Is.
package repository

import (
	"database/sql"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
)

// ErrNotFound is returned when a single-row lookup matches nothing.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a unique key, such as
// two takeaway orders claiming the same token on the same day.
var ErrDuplicate = errors.New("duplicate key")

// ErrConflict is returned when an update or delete cannot proceed because
// of conflicting state.
var ErrConflict = errors.New("conflict")

const mysqlDuplicateEntry = 1062

// IsDuplicate reports whether err is a MySQL unique-key violation.
func IsDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// translate maps driver errors onto the package sentinels and wraps
// everything else with op for context.
func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case IsDuplicate(err):
		return errors.Wrap(ErrDuplicate, op)
	}
	return errors.Wrap(err, op)
}
