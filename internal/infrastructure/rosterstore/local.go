// Package rosterstore adapts blob and team storage to the roster persistence
// port.
package rosterstore

import (
	"context"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/team-sheet/internal/domain/blob"
	"github.com/riskibarqy/team-sheet/internal/domain/roster"
	"github.com/riskibarqy/team-sheet/internal/infrastructure/document"
)

const (
	PlayersKey   = "players"
	PositionsKey = "positions"
)

// TeamNamespace is the key prefix of one team's roster blobs.
func TeamNamespace(teamID string) string {
	return "teams/" + teamID + "/"
}

// Local persists a roster as two JSON blobs, players and positions, under an
// optional namespace.
type Local struct {
	blobs     blob.Repository
	namespace string
}

func NewLocal(blobs blob.Repository, namespace string) *Local {
	return &Local{blobs: blobs, namespace: namespace}
}

func (s *Local) Load(ctx context.Context) (roster.Snapshot, bool, error) {
	rawPlayers, foundPlayers, err := s.blobs.Get(ctx, s.namespace+PlayersKey)
	if err != nil {
		return roster.Snapshot{}, false, crerr.Wrap(err, "read players blob")
	}
	rawPositions, foundPositions, err := s.blobs.Get(ctx, s.namespace+PositionsKey)
	if err != nil {
		return roster.Snapshot{}, false, crerr.Wrap(err, "read positions blob")
	}
	if !foundPlayers && !foundPositions {
		return roster.Snapshot{}, false, nil
	}

	players, err := document.UnmarshalPlayers(rawPlayers)
	if err != nil {
		return roster.Snapshot{}, false, err
	}
	positions, err := document.UnmarshalPositions(rawPositions)
	if err != nil {
		return roster.Snapshot{}, false, err
	}

	return roster.Snapshot{Players: players, Positions: positions}, true, nil
}

func (s *Local) Save(ctx context.Context, snapshot roster.Snapshot) error {
	rawPlayers, err := document.MarshalPlayers(snapshot.Players)
	if err != nil {
		return err
	}
	rawPositions, err := document.MarshalPositions(snapshot.Positions)
	if err != nil {
		return err
	}

	if err := s.blobs.Put(ctx, s.namespace+PlayersKey, rawPlayers); err != nil {
		return crerr.Wrap(err, "write players blob")
	}
	if err := s.blobs.Put(ctx, s.namespace+PositionsKey, rawPositions); err != nil {
		return crerr.Wrap(err, "write positions blob")
	}
	return nil
}

// Purge removes both blobs.
func (s *Local) Purge(ctx context.Context) error {
	if s.namespace != "" {
		return crerr.Wrap(s.blobs.DeletePrefix(ctx, s.namespace), "purge roster blobs")
	}
	for _, key := range []string{PlayersKey, PositionsKey} {
		if err := s.blobs.DeletePrefix(ctx, key); err != nil {
			return crerr.Wrapf(err, "purge %s blob", key)
		}
	}
	return nil
}
