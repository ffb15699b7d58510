package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

// newMockDB wraps a go-sqlmock connection in sqlx. No real MySQL is
// involved; the mysql driver name only fixes the placeholder style.
func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqldb, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { sqldb.Close() })

	return sqlx.NewDb(sqldb, "mysql"), mock
}
