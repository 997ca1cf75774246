package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/singleflight"

	"github.com/riskibarqy/team-sheet/internal/domain/roster"
	"github.com/riskibarqy/team-sheet/internal/platform/id"
	"github.com/riskibarqy/team-sheet/internal/platform/logging"
)

const defaultFlushWorkers = 4

// StoreFactory builds the persistence port of one team's roster.
type StoreFactory func(teamID string) (roster.Store, error)

// Sessions keeps one loaded RosterService per team. A session is loaded from
// its store the first time it is opened and lives until it is dropped or the
// whole set is closed.
type Sessions struct {
	factory      StoreFactory
	idGen        id.Generator
	logger       *logging.Logger
	flushWorkers int

	mu       sync.Mutex
	sessions map[string]*RosterService
	loading  singleflight.Group
}

func NewSessions(factory StoreFactory, idGen id.Generator, logger *logging.Logger, flushWorkers int) *Sessions {
	if logger == nil {
		logger = logging.Default()
	}
	if flushWorkers < 1 {
		flushWorkers = defaultFlushWorkers
	}
	return &Sessions{
		factory:      factory,
		idGen:        idGen,
		logger:       logger,
		flushWorkers: flushWorkers,
		sessions:     make(map[string]*RosterService),
	}
}

func (m *Sessions) Open(ctx context.Context, teamID string) (*RosterService, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	if svc, ok := m.lookup(teamID); ok {
		return svc, nil
	}

	v, err, _ := m.loading.Do(teamID, func() (any, error) {
		if svc, ok := m.lookup(teamID); ok {
			return svc, nil
		}

		store, err := m.factory(teamID)
		if err != nil {
			return nil, fmt.Errorf("build roster store: %w", err)
		}
		svc := NewRosterService(store, m.idGen, m.logger.With("team_id", teamID))
		if err := svc.Load(ctx); err != nil {
			return nil, err
		}

		m.mu.Lock()
		m.sessions[teamID] = svc
		m.mu.Unlock()

		m.logger.DebugContext(ctx, "roster session opened", "team_id", teamID)
		return svc, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*RosterService), nil
}

// Drop closes the session of teamID, if any, and purges what its store
// persisted.
func (m *Sessions) Drop(ctx context.Context, teamID string) error {
	m.mu.Lock()
	svc, ok := m.sessions[teamID]
	delete(m.sessions, teamID)
	m.mu.Unlock()

	var store roster.Store
	if ok {
		store = svc.store
		if err := svc.Close(ctx); err != nil {
			m.logger.WarnContext(ctx, "close dropped roster session failed", "team_id", teamID, "error", err)
		}
	} else {
		built, err := m.factory(teamID)
		if err != nil {
			return fmt.Errorf("build roster store: %w", err)
		}
		store = built
	}

	if purger, ok := store.(roster.Purger); ok {
		if err := purger.Purge(ctx); err != nil {
			return fmt.Errorf("%w: purge roster: %w", ErrDependencyUnavailable, err)
		}
	}
	return nil
}

func (m *Sessions) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close flushes every open session concurrently and forgets them.
func (m *Sessions) Close(ctx context.Context) error {
	m.mu.Lock()
	open := m.sessions
	m.sessions = make(map[string]*RosterService)
	m.mu.Unlock()

	if len(open) == 0 {
		return nil
	}

	pool, err := ants.NewPool(m.flushWorkers)
	if err != nil {
		return fmt.Errorf("create flush pool: %w", err)
	}
	defer pool.Release()

	var (
		wg     sync.WaitGroup
		errMu  sync.Mutex
		errs   []error
		record = func(teamID string, err error) {
			errMu.Lock()
			errs = append(errs, fmt.Errorf("team %s: %w", teamID, err))
			errMu.Unlock()
		}
	)

	for teamID, svc := range open {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if err := svc.Close(ctx); err != nil {
				m.logger.ErrorContext(ctx, "flush roster session failed", "team_id", teamID, "error", err)
				record(teamID, err)
			}
		})
		if submitErr != nil {
			wg.Done()
			record(teamID, submitErr)
		}
	}
	wg.Wait()

	return errors.Join(errs...)
}

func (m *Sessions) lookup(teamID string) (*RosterService, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	svc, ok := m.sessions[teamID]
	return svc, ok
}
