package services

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"smokey-backend/database"
)

// newTestDB opens an in-memory database with the full schema applied
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// One connection so every statement sees the same in-memory database
	db.SetMaxOpenConns(1)

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() { db.Close() })

	return db
}
