package roster

import (
	"context"

	"github.com/riskibarqy/team-sheet/internal/domain/player"
	"github.com/riskibarqy/team-sheet/internal/domain/position"
)

// Snapshot is the persisted form of a roster.
type Snapshot struct {
	Players   []player.Player
	Positions []position.Position
}

// Store is the persistence port a roster session loads from and saves to.
type Store interface {
	Load(ctx context.Context) (Snapshot, bool, error)
	Save(ctx context.Context, snapshot Snapshot) error
}

// Flusher is implemented by stores that defer writes. Close flushes and stops
// accepting new snapshots.
type Flusher interface {
	Flush(ctx context.Context) error
	Close(ctx context.Context) error
}

// Purger is implemented by stores that can remove everything they persisted.
type Purger interface {
	Purge(ctx context.Context) error
}
