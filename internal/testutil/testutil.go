package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quantum-quiz/backend/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied
// and closes it when the test finishes.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, database.Close())
	})
	return database
}

// Clock is a settable time source for calendar-day tests.
type Clock struct {
	t time.Time
}

// NewClock creates a Clock frozen at the given time.
func NewClock(t time.Time) *Clock {
	return &Clock{t: t}
}

// Now returns the frozen time. Pass the method value as a clock function.
func (c *Clock) Now() time.Time {
	return c.t
}

// AdvanceDays moves the clock forward by whole calendar days.
func (c *Clock) AdvanceDays(days int) {
	c.t = c.t.AddDate(0, 0, days)
}
