package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvocate/memshare-go/pkg/answer"
	"github.com/edvocate/memshare-go/pkg/core"
	"github.com/edvocate/memshare-go/pkg/notify"
	"github.com/edvocate/memshare-go/pkg/storage"
	"github.com/edvocate/memshare-go/pkg/storage/memory"
	"github.com/edvocate/memshare-go/pkg/suppress"
)

// faultyStore wraps the in-memory store with switchable failures.
type faultyStore struct {
	*memory.Store
	failReads  bool
	failWrites bool
}

var errBackendDown = errors.New("backend down")

func (s *faultyStore) GetGoalsByUserID(ctx context.Context, userID string) ([]*storage.Goal, error) {
	if s.failReads {
		return nil, errBackendDown
	}
	return s.Store.GetGoalsByUserID(ctx, userID)
}

func (s *faultyStore) CreateSharedMemory(ctx context.Context, m *storage.SharedMemory) error {
	if s.failWrites {
		return errBackendDown
	}
	return s.Store.CreateSharedMemory(ctx, m)
}

func newTestClient(t *testing.T, opts ...core.ClientOption) *core.Client {
	t.Helper()

	cfg := core.DefaultConfig()
	cfg.Storage.Provider = "memory"

	client, err := core.NewClient(cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestQueryRejectsMissingInput(t *testing.T) {
	client := newTestClient(t)

	_, err := client.Query(context.Background(), "", "What goals are set?")
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = client.Query(context.Background(), "u1", "   ")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestQueryAnswersWithoutSharing(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	result, err := client.Query(ctx, "u1", "What goals are set?")
	require.NoError(t, err)

	assert.Contains(t, result.Answer, "don't have any IEP goals recorded yet")
	assert.True(t, result.Validation.IsValid)
	assert.False(t, result.Sharing.Requested)
	assert.False(t, result.Sharing.Successful)
	assert.Nil(t, result.Sharing.Memory)

	// share=false must never persist, regardless of answer content.
	memories, err := client.SharedMemories(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, memories)
}

func TestQueryShareCreatesSharedMemory(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	result, err := client.Query(ctx, "u1", "What goals are set?", core.WithShare(true))
	require.NoError(t, err)

	assert.True(t, result.Sharing.Requested)
	assert.True(t, result.Sharing.Successful)
	assert.False(t, result.Sharing.DuplicateDetected)
	require.NotNil(t, result.Sharing.Memory)
	assert.Equal(t, "u1", result.Sharing.Memory.UserID)
	assert.Equal(t, "What goals are set?", result.Sharing.Memory.Question)
	assert.NotZero(t, result.Sharing.Memory.ID)
	assert.False(t, result.Sharing.Memory.SharedAt.IsZero())

	memories, err := client.SharedMemories(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, memories, 1)
	assert.Equal(t, result.Sharing.Memory.ID, memories[0].ID)
}

func TestQueryDuplicateWithinWindowBlocksSecondShare(t *testing.T) {
	clock := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }
	client := newTestClient(t,
		core.WithSuppressor(suppress.New(60*time.Second, suppress.WithNow(now))),
	)
	ctx := context.Background()

	first, err := client.Query(ctx, "u1", "What goals are set?", core.WithShare(true))
	require.NoError(t, err)
	assert.True(t, first.Sharing.Successful)

	second, err := client.Query(ctx, "u1", "  WHAT GOALS ARE SET?  ", core.WithShare(true))
	require.NoError(t, err)
	assert.True(t, second.Sharing.DuplicateDetected)
	assert.False(t, second.Sharing.Successful)
	assert.Nil(t, second.Sharing.Memory)

	memories, err := client.SharedMemories(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, memories, 1)
}

func TestQueryShareSucceedsAgainAfterWindow(t *testing.T) {
	clock := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	client := newTestClient(t,
		core.WithSuppressor(suppress.New(60*time.Second, suppress.WithNow(func() time.Time { return clock }))),
	)
	ctx := context.Background()

	_, err := client.Query(ctx, "u1", "What goals are set?", core.WithShare(true))
	require.NoError(t, err)

	clock = clock.Add(61 * time.Second)

	third, err := client.Query(ctx, "u1", "What goals are set?", core.WithShare(true))
	require.NoError(t, err)
	assert.False(t, third.Sharing.DuplicateDetected)
	assert.True(t, third.Sharing.Successful)

	memories, err := client.SharedMemories(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, memories, 2)
}

func TestQueryShareWriteFailureIsSoft(t *testing.T) {
	store := &faultyStore{Store: memory.NewStore(), failWrites: true}
	client := newTestClient(t, core.WithStore(store))

	result, err := client.Query(context.Background(), "u1", "What goals are set?", core.WithShare(true))
	require.NoError(t, err, "a failed share must not fail the query")

	assert.Contains(t, result.Answer, "goals")
	assert.True(t, result.Sharing.Requested)
	assert.False(t, result.Sharing.Successful)
	assert.False(t, result.Sharing.DuplicateDetected)
	assert.Nil(t, result.Sharing.Memory)
}

func TestQueryContextFetchFailureIsTerminal(t *testing.T) {
	store := &faultyStore{Store: memory.NewStore(), failReads: true}
	client := newTestClient(t, core.WithStore(store))

	result, err := client.Query(context.Background(), "u1", "What goals are set?")
	assert.ErrorIs(t, err, core.ErrDataUnavailable)
	assert.Nil(t, result)
}

// offPolicyGenerator simulates a future non-deterministic generator emitting
// content that violates the policy.
type offPolicyGenerator struct{}

func (offPolicyGenerator) Generate(context.Context, string, *answer.Context) (string, error) {
	return "The weather is nice today.", nil
}

func TestQueryValidationRejectionReturnsAnswerAndError(t *testing.T) {
	client := newTestClient(t, core.WithGenerator(offPolicyGenerator{}))

	result, err := client.Query(context.Background(), "u1", "anything", core.WithShare(true))
	assert.ErrorIs(t, err, core.ErrValidationRejected)

	require.NotNil(t, result, "rejected answer must be returned for debuggability")
	assert.Equal(t, "The weather is nice today.", result.Answer)
	assert.False(t, result.Validation.IsValid)
	assert.NotEmpty(t, result.Validation.Reason)

	// Nothing may be persisted after a rejection.
	memories, err := client.SharedMemories(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, memories)
}

// countingNotifier records notification calls.
type countingNotifier struct {
	calls int
	last  *notify.Notification
}

func (n *countingNotifier) SharedMemoryCreated(_ context.Context, notification *notify.Notification) error {
	n.calls++
	n.last = notification
	return nil
}

func TestQueryNotifiesAdvocateOnShare(t *testing.T) {
	notifier := &countingNotifier{}
	client := newTestClient(t, core.WithNotifier(notifier))

	_, err := client.Query(context.Background(), "u1", "What goals are set?", core.WithShare(true))
	require.NoError(t, err)

	assert.Equal(t, 1, notifier.calls)
	require.NotNil(t, notifier.last)
	assert.Equal(t, "u1", notifier.last.UserID)

	// Duplicates do not re-notify.
	_, err = client.Query(context.Background(), "u1", "What goals are set?", core.WithShare(true))
	require.NoError(t, err)
	assert.Equal(t, 1, notifier.calls)
}

func TestBuildContextCountsUpcomingEvents(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	_, err := client.AddEvent(ctx, &storage.Event{UserID: "u1", Title: "Future", Date: time.Now().Add(24 * time.Hour)})
	require.NoError(t, err)
	_, err = client.AddEvent(ctx, &storage.Event{UserID: "u1", Title: "Past", Date: time.Now().Add(-24 * time.Hour)})
	require.NoError(t, err)

	qctx, err := client.BuildContext(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, 2, qctx.TotalEvents)
	assert.Equal(t, 1, qctx.UpcomingEvents)
}

func TestBuildContextEmptyUserIsNotAnError(t *testing.T) {
	client := newTestClient(t)

	qctx, err := client.BuildContext(context.Background(), "brand-new-user")
	require.NoError(t, err)

	assert.Empty(t, qctx.Goals)
	assert.Zero(t, qctx.DocumentsCount)
	assert.Zero(t, qctx.TotalEvents)
}

func TestAddGoalAssignsIDAndDefaults(t *testing.T) {
	client := newTestClient(t)

	goal, err := client.AddGoal(context.Background(), &storage.Goal{UserID: "u1", Title: "Reading"})
	require.NoError(t, err)

	assert.NotZero(t, goal.ID)
	assert.Equal(t, storage.GoalStatusNotStarted, goal.Status)
}

func TestSuppressionTableReflectsShares(t *testing.T) {
	client := newTestClient(t)

	assert.Empty(t, client.SuppressionTable())

	_, err := client.Query(context.Background(), "u1", "What goals are set?", core.WithShare(true))
	require.NoError(t, err)

	entries := client.SuppressionTable()
	require.Len(t, entries, 1)
	assert.Equal(t, "u1:what goals are set?", entries[0].Key)
}
