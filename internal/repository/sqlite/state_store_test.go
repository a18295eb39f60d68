package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantum-quiz/backend/internal/repository/sqlite"
	"github.com/quantum-quiz/backend/internal/storage"
	"github.com/quantum-quiz/backend/internal/testutil"
)

func TestStateStore_RoundTrip(t *testing.T) {
	database := testutil.NewTestDB(t)
	store := sqlite.NewStateStore(database.DB)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "quantum_quiz_adaptive", `{"estimated_ability":0.62}`))

	got, err := store.Load(ctx, "quantum_quiz_adaptive")
	require.NoError(t, err)
	assert.Equal(t, `{"estimated_ability":0.62}`, got)
}

func TestStateStore_MissingKey(t *testing.T) {
	database := testutil.NewTestDB(t)
	store := sqlite.NewStateStore(database.DB)

	_, err := store.Load(context.Background(), "never_saved")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStateStore_OverwriteKeepsLatest(t *testing.T) {
	database := testutil.NewTestDB(t)
	store := sqlite.NewStateStore(database.DB)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "flashcard_states", `{"q1":{"box":1}}`))
	require.NoError(t, store.Save(ctx, "flashcard_states", `{"q1":{"box":2}}`))

	got, err := store.Load(ctx, "flashcard_states")
	require.NoError(t, err)
	assert.Equal(t, `{"q1":{"box":2}}`, got)
}

func TestStateStore_KeysAreIndependent(t *testing.T) {
	database := testutil.NewTestDB(t)
	store := sqlite.NewStateStore(database.DB)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "a", "1"))
	require.NoError(t, store.Save(ctx, "b", "2"))

	a, err := store.Load(ctx, "a")
	require.NoError(t, err)
	b, err := store.Load(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "1", a)
	assert.Equal(t, "2", b)
}
