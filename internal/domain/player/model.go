package player

import (
	"fmt"
	"strings"
)

// Player is a member of the roster pool. An empty PositionID means the player
// sits in the available list.
type Player struct {
	ID         string
	Name       string
	PositionID string
}

func (p Player) Assigned() bool {
	return p.PositionID != ""
}

func (p Player) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("player id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("player name is required")
	}

	return nil
}

// Clone returns a copy of items that shares no backing array with the input.
func Clone(items []Player) []Player {
	if items == nil {
		return nil
	}
	out := make([]Player, len(items))
	copy(out, items)
	return out
}
