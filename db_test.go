package main

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seededNames is the expected activity listing order (ascending by name).
var seededNames = []string{
	"Art Club",
	"Basketball Team",
	"Chess Club",
	"Debate Team",
	"Drama Club",
	"Gym Class",
	"Math Club",
	"Programming Class",
	"Soccer Team",
}

func newTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)", filepath.Join(t.TempDir(), "activities.db"))
	db, err := NewDB(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, db.InitSchema(ctx))
	require.NoError(t, db.Seed(ctx))

	return db
}

func TestSeedPopulatesDefaults(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	activities, err := db.ListActivities(ctx)
	require.NoError(t, err)
	require.Len(t, activities, len(seededNames))

	for _, name := range seededNames {
		require.Contains(t, activities, name)
	}

	chess := activities["Chess Club"]
	assert.Equal(t, "Learn strategies and compete in chess tournaments", chess.Description)
	assert.Equal(t, "Fridays, 3:30 PM - 5:00 PM", chess.Schedule)
	assert.Equal(t, 12, chess.MaxParticipants)
	assert.Equal(t, []string{"daniel@mergington.edu", "michael@mergington.edu"}, chess.Participants)
}

func TestSeedIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// A restart re-runs both steps against the populated store.
	require.NoError(t, db.InitSchema(ctx))
	require.NoError(t, db.Seed(ctx))

	activities, err := db.ListActivities(ctx)
	require.NoError(t, err)
	require.Len(t, activities, len(seededNames))
	assert.Equal(t, []string{"daniel@mergington.edu", "michael@mergington.edu"}, activities["Chess Club"].Participants)
}

func TestSignupRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Signup(ctx, "Chess Club", "new@mergington.edu"))

	activities, err := db.ListActivities(ctx)
	require.NoError(t, err)
	assert.Contains(t, activities["Chess Club"].Participants, "new@mergington.edu")

	require.NoError(t, db.Unregister(ctx, "Chess Club", "new@mergington.edu"))

	activities, err = db.ListActivities(ctx)
	require.NoError(t, err)
	assert.NotContains(t, activities["Chess Club"].Participants, "new@mergington.edu")
}

func TestSignupDuplicate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Signup(ctx, "Chess Club", "new@mergington.edu"))

	err := db.Signup(ctx, "Chess Club", "new@mergington.edu")
	assert.ErrorIs(t, err, ErrAlreadySignedUp)
}

func TestSignupUnknownActivity(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	err := db.Signup(ctx, "Knitting Circle", "new@mergington.edu")
	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestUnregisterUnknownActivity(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	err := db.Unregister(ctx, "Knitting Circle", "daniel@mergington.edu")
	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestUnregisterNotSignedUp(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	err := db.Unregister(ctx, "Chess Club", "stranger@mergington.edu")
	assert.ErrorIs(t, err, ErrNotSignedUp)

	// A second unregister of a removed registration fails the same way.
	require.NoError(t, db.Unregister(ctx, "Chess Club", "daniel@mergington.edu"))
	err = db.Unregister(ctx, "Chess Club", "daniel@mergington.edu")
	assert.ErrorIs(t, err, ErrNotSignedUp)
}

func TestParticipantsSortedByEmail(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// Insert out of order; the listing must come back sorted.
	require.NoError(t, db.Signup(ctx, "Chess Club", "zoe@mergington.edu"))
	require.NoError(t, db.Signup(ctx, "Chess Club", "aaron@mergington.edu"))

	activities, err := db.ListActivities(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"aaron@mergington.edu",
		"daniel@mergington.edu",
		"michael@mergington.edu",
		"zoe@mergington.edu",
	}, activities["Chess Club"].Participants)
}

// Capacity is reported but not enforced: signups past max_participants
// still succeed.
func TestSignupUnboundedByCapacity(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	max := 10 // Math Club's max_participants, seeded with 2 members
	for i := 0; i < max+5; i++ {
		email := fmt.Sprintf("mathlete%02d@mergington.edu", i)
		require.NoError(t, db.Signup(ctx, "Math Club", email))
	}

	activities, err := db.ListActivities(ctx)
	require.NoError(t, err)
	assert.Len(t, activities["Math Club"].Participants, max+5+2)
}
