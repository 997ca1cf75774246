package team

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/team-sheet/internal/domain/player"
)

const (
	DefaultDescription = "New Team"
	MaxNameLength      = 100
)

// Team is the persisted aggregate of the remote store. Players carry their
// own position assignment, so the team sheet is fully described by Players.
type Team struct {
	ID          string
	Name        string
	Description string
	Players     []player.Player
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("team id is required")
	}
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return fmt.Errorf("team name is required")
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("team name must be at most %d characters", MaxNameLength)
	}

	return nil
}
