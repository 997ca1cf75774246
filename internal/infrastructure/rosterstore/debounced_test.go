package rosterstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/team-sheet/internal/domain/player"
	"github.com/riskibarqy/team-sheet/internal/domain/roster"
	"github.com/riskibarqy/team-sheet/internal/platform/debounce"
	"github.com/riskibarqy/team-sheet/internal/platform/logging"
)

type recordingStore struct {
	mu    sync.Mutex
	saved []roster.Snapshot
	err   error
}

func (s *recordingStore) Load(context.Context) (roster.Snapshot, bool, error) {
	return roster.Snapshot{}, false, nil
}

func (s *recordingStore) Save(_ context.Context, snapshot roster.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, snapshot)
	return nil
}

func (s *recordingStore) writes() []roster.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]roster.Snapshot(nil), s.saved...)
}

func snapshotOf(names ...string) roster.Snapshot {
	players := make([]player.Player, 0, len(names))
	for _, name := range names {
		players = append(players, player.Player{ID: name, Name: name})
	}
	return roster.Snapshot{Players: players}
}

func TestDebounced_FlushWritesLatestOnly(t *testing.T) {
	t.Parallel()

	next := &recordingStore{}
	store := NewDebounced(next, time.Hour, logging.NewNop())

	require.NoError(t, store.Save(t.Context(), snapshotOf("a")))
	require.NoError(t, store.Save(t.Context(), snapshotOf("a", "b")))
	require.True(t, store.Pending())
	require.Empty(t, next.writes())

	require.NoError(t, store.Flush(t.Context()))
	require.Equal(t, []roster.Snapshot{snapshotOf("a", "b")}, next.writes())
	require.False(t, store.Pending())
}

func TestDebounced_WritesAfterQuietWindow(t *testing.T) {
	t.Parallel()

	next := &recordingStore{}
	store := NewDebounced(next, 10*time.Millisecond, logging.NewNop())
	require.NoError(t, store.Save(t.Context(), snapshotOf("a")))

	require.Eventually(t, func() bool { return len(next.writes()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestDebounced_CloseFlushesAndRejectsSaves(t *testing.T) {
	t.Parallel()

	next := &recordingStore{}
	store := NewDebounced(next, time.Hour, logging.NewNop())
	require.NoError(t, store.Save(t.Context(), snapshotOf("a")))

	require.NoError(t, store.Close(t.Context()))
	require.Len(t, next.writes(), 1)

	if err := store.Save(t.Context(), snapshotOf("b")); !errors.Is(err, debounce.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestDebounced_FlushReturnsWriteError(t *testing.T) {
	t.Parallel()

	boom := errors.New("remote unavailable")
	store := NewDebounced(&recordingStore{err: boom}, time.Hour, logging.NewNop())
	require.NoError(t, store.Save(t.Context(), snapshotOf("a")))

	if err := store.Flush(t.Context()); !errors.Is(err, boom) {
		t.Fatalf("expected write error, got %v", err)
	}
}
