package repository

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSession struct {
	id     string
	closed atomic.Int32
}

func (s *stubSession) ID() string { return s.id }
func (s *stubSession) Close()     { s.closed.Add(1) }

func newClockedRepo(ttl time.Duration) (*MemSessionRepo[*stubSession], *time.Time) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	repo := NewInMemorySessionRepo[*stubSession](ttl)
	repo.now = func() time.Time { return now }
	return repo, &now
}

func TestMemSessionRepo_PutGetDelete(t *testing.T) {
	repo, _ := newClockedRepo(time.Minute)
	s := &stubSession{id: "a"}

	repo.Put(s)
	assert.Equal(t, 1, repo.Len())

	got, err := repo.Get("a")
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = repo.Get("b")
	assert.ErrorIs(t, err, ErrWorkflowNotFound)

	repo.Delete("a")
	repo.Delete("a")
	assert.EqualValues(t, 1, s.closed.Load())
	assert.Zero(t, repo.Len())
}

func TestMemSessionRepo_GetRefreshesIdleClock(t *testing.T) {
	repo, now := newClockedRepo(time.Minute)
	s := &stubSession{id: "a"}
	repo.Put(s)

	*now = now.Add(50 * time.Second)
	_, err := repo.Get("a")
	require.NoError(t, err)

	*now = now.Add(50 * time.Second)
	_, err = repo.Get("a")
	require.NoError(t, err, "touched sessions stay alive")

	*now = now.Add(2 * time.Minute)
	_, err = repo.Get("a")
	assert.ErrorIs(t, err, ErrWorkflowNotFound)
	assert.EqualValues(t, 1, s.closed.Load())
	assert.Zero(t, repo.Len())
}

func TestMemSessionRepo_PurgeIdle(t *testing.T) {
	repo, now := newClockedRepo(time.Minute)
	idle := &stubSession{id: "idle"}
	busy := &stubSession{id: "busy"}
	repo.Put(idle)
	repo.Put(busy)

	*now = now.Add(45 * time.Second)
	_, err := repo.Get("busy")
	require.NoError(t, err)

	*now = now.Add(30 * time.Second)
	assert.Equal(t, 1, repo.PurgeIdle())
	assert.EqualValues(t, 1, idle.closed.Load())
	assert.Zero(t, busy.closed.Load())
	assert.Equal(t, 1, repo.Len())
}
