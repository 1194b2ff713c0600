package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/model"
)

func TestValuesList(t *testing.T) {
	assert.Equal(t, "(?)", valuesList(1, 1))
	assert.Equal(t, "(?, ?, ?),(?, ?, ?)", valuesList(2, 3))
	assert.Equal(t, "?,?,?", inList(3))
}

func TestErrorMapping(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	assert.ErrorIs(t, writeErr(fmt.Errorf("insert: %w", dup)), ErrDuplicate)
	assert.False(t, isDuplicate(&mysql.MySQLError{Number: 1452}))

	other := errors.New("boom")
	assert.Equal(t, other, writeErr(other))
	assert.ErrorIs(t, notFound(sql.ErrNoRows), ErrNotFound)
	assert.Equal(t, other, notFound(other))
}

func TestIssueChanges(t *testing.T) {
	prev := []model.Issue{{ID: 1, Name: "Jan26"}, {ID: 2, Name: "Feb26"}, {ID: 3, Name: "Mar26"}}

	// 1 and 2 swap names, 3 is dropped, a new issue has no ID yet
	next := []model.Issue{{ID: 1, Name: "Feb26"}, {ID: 2, Name: "Jan26"}, {Name: "Apr26"}}
	renames, removed := IssueChanges(prev, next)
	assert.Equal(t, map[string]string{"Jan26": "Feb26", "Feb26": "Jan26"}, renames)
	assert.Equal(t, []string{"Mar26"}, removed)

	renames, removed = IssueChanges(prev, prev)
	assert.Empty(t, renames)
	assert.Empty(t, removed)
}
