package rosterstore

import (
	"context"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/team-sheet/internal/domain/roster"
	"github.com/riskibarqy/team-sheet/internal/domain/team"
	"github.com/riskibarqy/team-sheet/internal/platform/resilience"
)

// Remote keeps the roster in the players field of a team record. Disabled
// position flags are not part of the record and start from the catalog
// defaults on every load.
type Remote struct {
	teams   team.Repository
	teamID  string
	breaker *resilience.CircuitBreaker
}

// NewRemote wraps writes in breaker when it is not nil.
func NewRemote(teams team.Repository, teamID string, breaker *resilience.CircuitBreaker) *Remote {
	return &Remote{teams: teams, teamID: teamID, breaker: breaker}
}

func (s *Remote) Load(ctx context.Context) (roster.Snapshot, bool, error) {
	item, exists, err := s.teams.GetByID(ctx, s.teamID)
	if err != nil {
		return roster.Snapshot{}, false, crerr.Wrapf(err, "load team %s", s.teamID)
	}
	if !exists {
		return roster.Snapshot{}, false, nil
	}
	return roster.Snapshot{Players: item.Players}, true, nil
}

func (s *Remote) Save(ctx context.Context, snapshot roster.Snapshot) error {
	write := func(ctx context.Context) error {
		return s.teams.UpdatePlayers(ctx, s.teamID, snapshot.Players)
	}

	var err error
	if s.breaker != nil {
		err = s.breaker.Execute(ctx, write)
	} else {
		err = write(ctx)
	}
	if err != nil {
		return crerr.Wrapf(err, "save players of team %s", s.teamID)
	}
	return nil
}
