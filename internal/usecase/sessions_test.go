package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/team-sheet/internal/domain/player"
	"github.com/riskibarqy/team-sheet/internal/domain/roster"
)

type purgingRosterStore struct {
	memoryRosterStore
	purged bool
}

func (s *purgingRosterStore) Purge(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purged = true
	return nil
}

type failingCloseStore struct {
	memoryRosterStore
}

func (s *failingCloseStore) Close(context.Context) error {
	return errors.New("remote unavailable")
}

type storeRegistry struct {
	mu       sync.Mutex
	built    atomic.Int32
	stores   map[string]roster.Store
	newStore func(teamID string) roster.Store
}

func (r *storeRegistry) factory(teamID string) (roster.Store, error) {
	r.built.Add(1)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stores == nil {
		r.stores = make(map[string]roster.Store)
	}
	if s, ok := r.stores[teamID]; ok {
		return s, nil
	}
	var s roster.Store
	if r.newStore != nil {
		s = r.newStore(teamID)
	} else {
		s = &memoryRosterStore{}
	}
	r.stores[teamID] = s
	return s, nil
}

func (r *storeRegistry) get(teamID string) roster.Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stores[teamID]
}

func TestSessions_OpenLoadsOnce(t *testing.T) {
	t.Parallel()

	reg := &storeRegistry{}
	sessions := NewSessions(reg.factory, &sequenceIDGenerator{}, nil, 2)

	var wg sync.WaitGroup
	got := make([]*RosterService, 16)
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc, err := sessions.Open(context.Background(), "team-1")
			if err != nil {
				t.Errorf("open session: %v", err)
				return
			}
			got[i] = svc
		}()
	}
	wg.Wait()

	for _, svc := range got {
		require.Same(t, got[0], svc)
	}
	require.Equal(t, int32(1), reg.built.Load())
	require.Equal(t, 1, reg.get("team-1").(*memoryRosterStore).loads)
	require.Equal(t, 1, sessions.Len())
}

func TestSessions_OpenRestoresSavedRoster(t *testing.T) {
	t.Parallel()

	reg := &storeRegistry{}
	store := &memoryRosterStore{}
	_ = store.Save(t.Context(), roster.Snapshot{Players: []player.Player{{ID: "a", Name: "Alice", PositionID: "4"}}})
	reg.stores = map[string]roster.Store{"team-1": store}

	sessions := NewSessions(reg.factory, &sequenceIDGenerator{}, nil, 1)
	svc, err := sessions.Open(t.Context(), "team-1")
	require.NoError(t, err)
	require.Equal(t, []player.Player{{ID: "a", Name: "Alice", PositionID: "4"}}, svc.Players(t.Context()))
}

func TestSessions_OpenRejectsBlankTeam(t *testing.T) {
	t.Parallel()

	sessions := NewSessions((&storeRegistry{}).factory, &sequenceIDGenerator{}, nil, 1)
	if _, err := sessions.Open(t.Context(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSessions_CloseFlushesEverySession(t *testing.T) {
	t.Parallel()

	reg := &storeRegistry{}
	sessions := NewSessions(reg.factory, &sequenceIDGenerator{}, nil, 3)

	teams := []string{"a", "b", "c", "d", "e"}
	for _, teamID := range teams {
		_, err := sessions.Open(t.Context(), teamID)
		require.NoError(t, err)
	}

	require.NoError(t, sessions.Close(t.Context()))
	for _, teamID := range teams {
		require.True(t, reg.get(teamID).(*memoryRosterStore).closed, "team %s not closed", teamID)
	}
	require.Equal(t, 0, sessions.Len())
}

func TestSessions_CloseJoinsErrors(t *testing.T) {
	t.Parallel()

	reg := &storeRegistry{newStore: func(teamID string) roster.Store {
		if teamID == "bad" {
			return &failingCloseStore{}
		}
		return &memoryRosterStore{}
	}}
	sessions := NewSessions(reg.factory, &sequenceIDGenerator{}, nil, 2)

	_, _ = sessions.Open(t.Context(), "good")
	_, _ = sessions.Open(t.Context(), "bad")

	err := sessions.Close(t.Context())
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected joined dependency error, got %v", err)
	}
	require.True(t, reg.get("good").(*memoryRosterStore).closed)
}

func TestSessions_DropClosesAndPurges(t *testing.T) {
	t.Parallel()

	reg := &storeRegistry{newStore: func(string) roster.Store { return &purgingRosterStore{} }}
	sessions := NewSessions(reg.factory, &sequenceIDGenerator{}, nil, 1)

	_, err := sessions.Open(t.Context(), "team-1")
	require.NoError(t, err)

	require.NoError(t, sessions.Drop(t.Context(), "team-1"))
	store := reg.get("team-1").(*purgingRosterStore)
	require.True(t, store.closed)
	require.True(t, store.purged)
	require.Equal(t, 0, sessions.Len())

	// A team that was never opened is still purged.
	require.NoError(t, sessions.Drop(t.Context(), "team-2"))
	require.True(t, reg.get("team-2").(*purgingRosterStore).purged)
}
