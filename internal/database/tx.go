package database

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// Querier is the handle every repository method receives. Both *sqlx.DB and
// *sqlx.Tx satisfy it, so the caller decides whether a statement runs inside
// a transaction.
type Querier interface {
	sqlx.ExtContext
}

// Tx is an open transaction.
type Tx interface {
	Querier
	Commit() error
	Rollback() error
}

// TxBeginner starts transactions. Services depend on this instead of a
// concrete connection pool.
type TxBeginner interface {
	Begin(ctx context.Context) (Tx, error)
}

// TxRunner opens transactions on a MySQL pool at a fixed isolation level.
type TxRunner struct {
	db        *sqlx.DB
	isolation sql.IsolationLevel
}

// NewTxRunner returns a TxRunner for db. isolation is a MySQL isolation
// name such as "READ COMMITTED"; unknown names fall back to the driver
// default.
func NewTxRunner(db *sqlx.DB, isolation string) *TxRunner {
	return &TxRunner{db: db, isolation: ParseIsolation(isolation)}
}

// Begin implements TxBeginner.
func (r *TxRunner) Begin(ctx context.Context) (Tx, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: r.isolation})
	if err != nil {
		return nil, errors.Wrap(err, "begin tx")
	}
	return tx, nil
}

// ParseIsolation maps a textual isolation level to database/sql's enum.
func ParseIsolation(s string) sql.IsolationLevel {
	switch strings.ToUpper(strings.Join(strings.Fields(s), " ")) {
	case "READ UNCOMMITTED":
		return sql.LevelReadUncommitted
	case "READ COMMITTED":
		return sql.LevelReadCommitted
	case "REPEATABLE READ":
		return sql.LevelRepeatableRead
	case "SERIALIZABLE":
		return sql.LevelSerializable
	}
	return sql.LevelDefault
}
