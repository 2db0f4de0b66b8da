package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvocate/memshare-go/pkg/storage"
	"github.com/edvocate/memshare-go/pkg/storage/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	store, err := sqlite.NewStore(&sqlite.Config{
		DBPath: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestGoalsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	due := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.CreateGoal(ctx, &storage.Goal{
		ID:          1,
		UserID:      "u1",
		Title:       "Reading fluency",
		Description: "Read 90 wpm",
		Status:      storage.GoalStatusInProgress,
		Progress:    45,
		DueDate:     &due,
	}))
	require.NoError(t, store.CreateGoal(ctx, &storage.Goal{
		ID:     2,
		UserID: "u1",
		Title:  "Self-advocacy",
		Status: storage.GoalStatusNotStarted,
	}))

	goals, err := store.GetGoalsByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, goals, 2)

	assert.Equal(t, "Reading fluency", goals[0].Title)
	assert.Equal(t, "Read 90 wpm", goals[0].Description)
	assert.Equal(t, storage.GoalStatusInProgress, goals[0].Status)
	assert.Equal(t, 45, goals[0].Progress)
	require.NotNil(t, goals[0].DueDate)
	assert.True(t, goals[0].DueDate.Equal(due))

	assert.Nil(t, goals[1].DueDate)
}

func TestUnknownUserIsNotAnError(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	goals, err := store.GetGoalsByUserID(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, goals)

	memories, err := store.GetSharedMemoriesByUserID(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, memories)
}

func TestDocumentsAndEventsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateDocument(ctx, &storage.Document{ID: 1, UserID: "u1", Title: "Current IEP"}))
	require.NoError(t, store.CreateDocument(ctx, &storage.Document{ID: 2, UserID: "u1", Title: "Evaluation"}))

	docs, err := store.GetDocumentsByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	early := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	late := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.CreateEvent(ctx, &storage.Event{ID: 3, UserID: "u1", Title: "Later", Date: late}))
	require.NoError(t, store.CreateEvent(ctx, &storage.Event{ID: 4, UserID: "u1", Title: "Sooner", Date: early}))

	events, err := store.GetEventsByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Sooner", events[0].Title)
	assert.Equal(t, "Later", events[1].Title)
}

func TestSharedMemoryRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sharedAt := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.CreateSharedMemory(ctx, &storage.SharedMemory{
		ID:       100,
		UserID:   "u1",
		Question: "What goals are set?",
		Answer:   "Your student has 2 IEP goals on record.",
		SharedAt: sharedAt,
	}))

	memories, err := store.GetSharedMemoriesByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, memories, 1)

	assert.Equal(t, int64(100), memories[0].ID)
	assert.Equal(t, "What goals are set?", memories[0].Question)
	assert.Equal(t, "Your student has 2 IEP goals on record.", memories[0].Answer)
	assert.True(t, memories[0].SharedAt.Equal(sharedAt))
}

func TestSharedMemoriesNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.CreateSharedMemory(ctx, &storage.SharedMemory{ID: 1, UserID: "u1", Question: "old", Answer: "a", SharedAt: base}))
	require.NoError(t, store.CreateSharedMemory(ctx, &storage.SharedMemory{ID: 2, UserID: "u1", Question: "new", Answer: "a", SharedAt: base.Add(time.Minute)}))

	memories, err := store.GetSharedMemoriesByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, memories, 2)
	assert.Equal(t, "new", memories[0].Question)
}

func TestDuplicateIDRejected(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	memory := &storage.SharedMemory{ID: 1, UserID: "u1", Question: "q", Answer: "a", SharedAt: time.Now()}
	require.NoError(t, store.CreateSharedMemory(ctx, memory))
	assert.Error(t, store.CreateSharedMemory(ctx, memory))
}
