package team

import (
	"context"

	"github.com/riskibarqy/team-sheet/internal/domain/player"
)

// Repository describes team persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Team, error)
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	Create(ctx context.Context, item Team) error
	UpdateDetails(ctx context.Context, teamID, name, description string) (bool, error)
	UpdatePlayers(ctx context.Context, teamID string, players []player.Player) error
	Delete(ctx context.Context, teamID string) (bool, error)
}
