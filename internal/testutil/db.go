// Package testutil contains the helpers shared by the tests of several packages.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/alex65536/league/internal/database"
	"github.com/alex65536/league/internal/util/slogx"
	"github.com/itbasis/go-clock"
)

// NewTestDB opens a fresh migrated database in a temporary directory. The database is closed
// when the test ends.
func NewTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(slogx.DiscardLogger(), database.Options{
		Path: filepath.Join(t.TempDir(), "league.db"),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(db.Close)
	return db
}

// NewClock returns a mock clock set to noon of 2024-06-15 UTC.
func NewClock() *clock.Mock {
	c := clock.NewMock()
	c.Set(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))
	return c
}
