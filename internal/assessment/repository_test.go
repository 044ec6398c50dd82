package assessment

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestRepository(ttl time.Duration) (*MemoryRepository, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	repo := NewMemoryRepository(ttl, discardLogger())
	repo.now = clock.now
	return repo, clock
}

func TestMemoryRepositorySaveGet(t *testing.T) {
	ctx := context.Background()
	repo, clock := newTestRepository(time.Minute)

	sess := &Session{ID: uuid.New(), Wizard: New()}
	require.NoError(t, repo.Save(ctx, sess))
	assert.Equal(t, clock.t, sess.CreatedAt)
	assert.Equal(t, clock.t, sess.UpdatedAt)

	got, err := repo.GetByID(ctx, sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, repo.Delete(ctx, sess.ID))
	_, err = repo.GetByID(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryRepositoryExpiry(t *testing.T) {
	ctx := context.Background()
	repo, clock := newTestRepository(time.Minute)

	idle := &Session{ID: uuid.New(), Wizard: New()}
	active := &Session{ID: uuid.New(), Wizard: New()}
	require.NoError(t, repo.Save(ctx, idle))
	require.NoError(t, repo.Save(ctx, active))

	clock.advance(40 * time.Second)
	require.NoError(t, repo.Save(ctx, active))
	clock.advance(40 * time.Second)

	_, err := repo.GetByID(ctx, idle.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = repo.GetByID(ctx, active.ID)
	assert.NoError(t, err)

	assert.Equal(t, 2, repo.Len())
	assert.Equal(t, 1, repo.Sweep())
	assert.Equal(t, 1, repo.Len())
}

func TestMemoryRepositoryRunStopsWithContext(t *testing.T) {
	repo := NewMemoryRepository(time.Nanosecond, discardLogger())
	require.NoError(t, repo.Save(context.Background(), &Session{ID: uuid.New(), Wizard: New()}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		repo.Run(ctx, time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return repo.Len() == 0 }, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
