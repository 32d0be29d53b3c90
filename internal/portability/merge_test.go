// ABOUTME: Tests for merging imported entries into a mood store.
// ABOUTME: Covers id-based skipping and stopping on the first failed commit.
package portability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389-research/mood/internal/models"
	"github.com/2389-research/mood/internal/storage"
	"github.com/2389-research/mood/internal/testutil"
)

func newMergeStore(t *testing.T) (*storage.MoodStore, *testutil.MemoryMedium) {
	t.Helper()
	medium := testutil.NewMemoryMedium()
	store, err := storage.NewMoodStore(context.Background(), medium)
	require.NoError(t, err)
	return store, medium
}

func TestMergeSkipsExistingIDs(t *testing.T) {
	store, _ := newMergeStore(t)
	ctx := context.Background()
	ts := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

	present := models.NewMoodEntryAt(models.MoodHappy, "already here", ts)
	require.NoError(t, store.Add(ctx, present))

	incoming := []models.MoodEntry{
		present,
		models.NewMoodEntryAt(models.MoodSad, "", ts.Add(time.Hour)),
		models.NewMoodEntryAt(models.MoodOther, "new", ts.Add(2*time.Hour)),
	}
	res, err := Merge(ctx, store, incoming)
	require.NoError(t, err)
	assert.Equal(t, MergeResult{Added: 2, Skipped: 1}, res)
	assert.Len(t, store.Entries(), 3)

	res, err = Merge(ctx, store, incoming)
	require.NoError(t, err)
	assert.Equal(t, MergeResult{Added: 0, Skipped: 3}, res)
	assert.Len(t, store.Entries(), 3)
}

func TestMergeDuplicateIDsInInputAddedOnce(t *testing.T) {
	store, medium := newMergeStore(t)
	entry := models.NewMoodEntry(models.MoodNeutral, "")

	res, err := Merge(context.Background(), store, []models.MoodEntry{entry, entry})
	require.NoError(t, err)
	assert.Equal(t, MergeResult{Added: 1, Skipped: 1}, res)
	assert.Equal(t, 1, medium.CommittedCount())
}

func TestMergeStopsOnCommitFailure(t *testing.T) {
	store, medium := newMergeStore(t)
	medium.CommitErr = errors.New("database is locked")
	medium.CommitsBeforeErr = 2

	incoming := sampleEntries()
	incoming = append(incoming, models.NewMoodEntry(models.MoodAngry, "last"))
	require.Greater(t, len(incoming), 2)

	res, err := Merge(context.Background(), store, incoming)
	require.Error(t, err)
	assert.ErrorContains(t, err, "import stopped after 2 entries")
	assert.ErrorContains(t, err, "database is locked")
	assert.Equal(t, 2, res.Added)
	assert.Equal(t, 2, medium.CommittedCount())
	assert.Len(t, store.Entries(), 2)
	assert.Equal(t, 1, medium.RollbackCalls)
}

func TestMergeNothingToAdd(t *testing.T) {
	store, medium := newMergeStore(t)

	res, err := Merge(context.Background(), store, nil)
	require.NoError(t, err)
	assert.Equal(t, MergeResult{}, res)
	assert.Equal(t, 0, medium.CommitCalls)
}
