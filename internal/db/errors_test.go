package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/surrealdb/surrealdb.go"
)

func TestWrapQueryError(t *testing.T) {
	plain := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unique index", &surrealdb.QueryError{Message: "Database index `account_email` already contains 'a@b.c'"}, ErrDuplicate},
		{"record exists", fmt.Errorf("query: %w", &surrealdb.QueryError{Message: "Database record `memory:x` already exists"}), ErrDuplicate},
		{"conflict", &surrealdb.QueryError{Message: "Transaction conflict: resource busy"}, ErrTransactionConflict},
		{"other query error", &surrealdb.QueryError{Message: "Parse error"}, nil},
		{"not a query error", plain, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapQueryError(tt.err)
			if tt.want == nil {
				assert.Same(t, tt.err, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}

	assert.NoError(t, wrapQueryError(nil))
}

func TestFirstResult(t *testing.T) {
	assert.Nil(t, firstResult[memoryRecord](nil))
	assert.Nil(t, firstResult(&[]surrealdb.QueryResult[[]memoryRecord]{}))

	rows := []memoryRecord{{Title: "a"}}
	got := firstResult(&[]surrealdb.QueryResult[[]memoryRecord]{{Result: rows}})
	assert.Equal(t, rows, got)
}
