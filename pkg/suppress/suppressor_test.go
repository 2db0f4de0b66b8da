package suppress_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/edvocate/memshare-go/pkg/suppress"
)

// fakeClock is a manually advanced clock for window tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestCheckAndRecordDetectsDuplicateWithinWindow(t *testing.T) {
	clock := newFakeClock()
	s := suppress.New(60*time.Second, suppress.WithNow(clock.Now))

	assert.False(t, s.CheckAndRecord("u1", "What are the goals?"))
	assert.True(t, s.CheckAndRecord("u1", "What are the goals?"))

	clock.Advance(59 * time.Second)
	assert.True(t, s.CheckAndRecord("u1", "What are the goals?"))
}

func TestCheckAndRecordExpiresAfterWindow(t *testing.T) {
	clock := newFakeClock()
	s := suppress.New(60*time.Second, suppress.WithNow(clock.Now))

	assert.False(t, s.CheckAndRecord("u1", "What are the goals?"))

	clock.Advance(61 * time.Second)
	assert.False(t, s.CheckAndRecord("u1", "What are the goals?"))
}

func TestDuplicateHitDoesNotRefreshTimestamp(t *testing.T) {
	clock := newFakeClock()
	s := suppress.New(60*time.Second, suppress.WithNow(clock.Now))

	assert.False(t, s.CheckAndRecord("u1", "q"))

	clock.Advance(50 * time.Second)
	assert.True(t, s.CheckAndRecord("u1", "q"))

	// 61s after the original acceptance; the duplicate hit at 50s must not
	// have extended the window.
	clock.Advance(11 * time.Second)
	assert.False(t, s.CheckAndRecord("u1", "q"))
}

func TestKeyNormalizesCaseAndWhitespace(t *testing.T) {
	assert.Equal(t,
		suppress.Key("u1", "What are the goals?"),
		suppress.Key("u1", "  WHAT ARE THE GOALS?  "))

	clock := newFakeClock()
	s := suppress.New(60*time.Second, suppress.WithNow(clock.Now))

	assert.False(t, s.CheckAndRecord("u1", "What are the goals?"))
	assert.True(t, s.CheckAndRecord("u1", "  WHAT ARE THE GOALS?  "))
}

func TestKeysAreScopedPerUser(t *testing.T) {
	clock := newFakeClock()
	s := suppress.New(60*time.Second, suppress.WithNow(clock.Now))

	assert.False(t, s.CheckAndRecord("u1", "same question"))
	assert.False(t, s.CheckAndRecord("u2", "same question"))
}

func TestOpportunisticEvictionBoundsEntries(t *testing.T) {
	clock := newFakeClock()
	s := suppress.New(60*time.Second, suppress.WithNow(clock.Now))

	s.CheckAndRecord("u1", "first")
	s.CheckAndRecord("u1", "second")
	assert.Equal(t, 2, s.Len())

	clock.Advance(61 * time.Second)
	s.CheckAndRecord("u1", "third")
	assert.Equal(t, 1, s.Len())
}

func TestSnapshotReturnsLiveEntries(t *testing.T) {
	clock := newFakeClock()
	s := suppress.New(60*time.Second, suppress.WithNow(clock.Now))

	s.CheckAndRecord("u1", "What are the goals?")
	entries := s.Snapshot()
	assert.Len(t, entries, 1)
	assert.Equal(t, "u1:what are the goals?", entries[0].Key)
	assert.Equal(t, "What are the goals?", entries[0].Question)

	clock.Advance(61 * time.Second)
	assert.Empty(t, s.Snapshot())
}

func TestDefaultWindowApplied(t *testing.T) {
	s := suppress.New(0)
	assert.Equal(t, suppress.DefaultWindow, s.Window())
}
