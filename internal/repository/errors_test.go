package repository

import (
	"database/sql"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicate(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry '2026-10-16-1' for key 'uq_takeaway_token'"}
	assert.True(t, IsDuplicate(dup))
	assert.True(t, IsDuplicate(errors.Wrap(dup, "insert")))
	assert.False(t, IsDuplicate(&mysql.MySQLError{Number: 1213}))
	assert.False(t, IsDuplicate(errors.New("boom")))
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil, "op"))
	assert.Equal(t, ErrNotFound, translate(sql.ErrNoRows, "op"))
	assert.ErrorIs(t, translate(&mysql.MySQLError{Number: 1062}, "insert takeaway_orders"), ErrDuplicate)

	err := translate(errors.New("connection reset"), "insert order")
	assert.EqualError(t, err, "insert order: connection reset")
	assert.NotErrorIs(t, err, ErrDuplicate)
}
