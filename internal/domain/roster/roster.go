package roster

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/riskibarqy/team-sheet/internal/domain/player"
	"github.com/riskibarqy/team-sheet/internal/domain/position"
)

var (
	ErrEmptyName        = errors.New("player name is required")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrPositionNotFound = errors.New("position not found")
	ErrPositionDisabled = errors.New("position is disabled")
)

// IDGenerator creates ids for newly added players.
type IDGenerator interface {
	NewID() (string, error)
}

// Slot pairs a position with the player currently holding it.
type Slot struct {
	Position position.Position
	Player   player.Player
	Filled   bool
}

// Roster is the single source of truth for one team sheet. Every method takes
// the roster lock, so an eviction and the assignment that caused it are never
// observed separately.
type Roster struct {
	mu        sync.RWMutex
	players   []player.Player
	positions []position.Position
	idGen     IDGenerator
}

func New(idGen IDGenerator) *Roster {
	return &Roster{
		positions: position.Catalog(),
		idGen:     idGen,
	}
}

// Restore replaces the whole state with snapshot. Positions are merged onto the
// fixed catalog and duplicate assignments keep only their first holder.
func (r *Roster) Restore(snapshot Snapshot) {
	players := make([]player.Player, 0, len(snapshot.Players))
	taken := make(map[string]struct{}, len(snapshot.Players))
	seen := make(map[string]struct{}, len(snapshot.Players))
	for _, p := range snapshot.Players {
		if _, dup := seen[p.ID]; dup || p.Validate() != nil {
			continue
		}
		seen[p.ID] = struct{}{}
		if p.PositionID != "" {
			if _, ok := taken[p.PositionID]; ok {
				p.PositionID = ""
			} else {
				taken[p.PositionID] = struct{}{}
			}
		}
		players = append(players, p)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.players = players
	r.positions = position.Merge(snapshot.Positions)
}

func (r *Roster) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return Snapshot{
		Players:   player.Clone(r.players),
		Positions: append([]position.Position(nil), r.positions...),
	}
}

func (r *Roster) Players() []player.Player {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return player.Clone(r.players)
}

func (r *Roster) Positions() []position.Position {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]position.Position(nil), r.positions...)
}

func (r *Roster) AddPlayer(name string) (player.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return player.Player{}, ErrEmptyName
	}

	id, err := r.idGen.NewID()
	if err != nil {
		return player.Player{}, fmt.Errorf("generate player id: %w", err)
	}
	item := player.Player{ID: id, Name: name}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.players = append(r.players, item)
	return item, nil
}

func (r *Roster) DeletePlayer(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.playerIndex(playerID)
	if idx < 0 {
		return ErrPlayerNotFound
	}
	r.players = append(r.players[:idx:idx], r.players[idx+1:]...)
	return nil
}

func (r *Roster) RenamePlayer(playerID, name string) (player.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return player.Player{}, ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.playerIndex(playerID)
	if idx < 0 {
		return player.Player{}, ErrPlayerNotFound
	}
	r.players[idx].Name = name
	return r.players[idx], nil
}

// AssignPlayerToPosition moves playerID onto positionID, clearing whichever
// other player held it. Assigning a player to the slot it already holds is a
// no-op.
func (r *Roster) AssignPlayerToPosition(playerID, positionID string) ([]player.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.playerIndex(playerID)
	if idx < 0 {
		return nil, ErrPlayerNotFound
	}
	pos, ok := r.position(positionID)
	if !ok {
		return nil, ErrPositionNotFound
	}
	if pos.Disabled {
		return nil, ErrPositionDisabled
	}

	for i := range r.players {
		if i != idx && r.players[i].PositionID == positionID {
			r.players[i].PositionID = ""
		}
	}
	r.players[idx].PositionID = positionID

	return player.Clone(r.players), nil
}

// UnassignPosition clears the holder of positionID and reports who it was.
func (r *Roster) UnassignPosition(positionID string) (player.Player, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.position(positionID); !ok {
		return player.Player{}, false, ErrPositionNotFound
	}
	for i := range r.players {
		if r.players[i].PositionID == positionID {
			r.players[i].PositionID = ""
			return r.players[i], true, nil
		}
	}
	return player.Player{}, false, nil
}

// TogglePositionDisabled flips the disabled flag. A player holding the slot
// keeps the assignment; renderers hide it instead of treating it as vacated.
func (r *Roster) TogglePositionDisabled(positionID string) (position.Position, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.positions {
		if r.positions[i].ID == positionID {
			r.positions[i].Disabled = !r.positions[i].Disabled
			return r.positions[i], nil
		}
	}
	return position.Position{}, ErrPositionNotFound
}

func (r *Roster) ResetAssignments() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.players {
		r.players[i].PositionID = ""
	}
}

func (r *Roster) ClearPlayers() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.players = nil
}

// MergePlayers upserts items by id. Existing players are replaced in place and
// new ones appended. Assignments to unknown positions are dropped and a later
// item claiming an occupied position evicts the earlier holder.
func (r *Roster) MergePlayers(items []player.Player) []player.Player {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		item.ID = strings.TrimSpace(item.ID)
		item.Name = strings.TrimSpace(item.Name)
		item.PositionID = strings.TrimSpace(item.PositionID)
		if item.Validate() != nil {
			continue
		}
		if item.PositionID != "" {
			if _, ok := r.position(item.PositionID); !ok {
				item.PositionID = ""
			}
		}

		idx := r.playerIndex(item.ID)
		if idx < 0 {
			r.players = append(r.players, item)
			idx = len(r.players) - 1
		} else {
			r.players[idx] = item
		}

		if item.PositionID == "" {
			continue
		}
		for i := range r.players {
			if i != idx && r.players[i].PositionID == item.PositionID {
				r.players[i].PositionID = ""
			}
		}
	}

	return player.Clone(r.players)
}

// AvailablePlayers returns players with no assignment. A player assigned to a
// disabled or unknown position still counts as assigned.
func (r *Roster) AvailablePlayers() []player.Player {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.players))
	for _, p := range r.players {
		if !p.Assigned() {
			out = append(out, p)
		}
	}
	return out
}

// PositionsView returns every position ordered by numeric id with its holder.
func (r *Roster) PositionsView() []Slot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.slots(func(position.Position) bool { return true })
}

func (r *Roster) Starters() []Slot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.slots(position.Position.IsStarting)
}

func (r *Roster) Substitutes() []Slot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.slots(position.Position.IsSubstitute)
}

func (r *Roster) slots(include func(position.Position) bool) []Slot {
	holders := make(map[string]player.Player, len(r.players))
	for _, p := range r.players {
		if p.Assigned() {
			holders[p.PositionID] = p
		}
	}

	positions := append([]position.Position(nil), r.positions...)
	position.SortByNumber(positions)

	out := make([]Slot, 0, len(positions))
	for _, pos := range positions {
		if !include(pos) {
			continue
		}
		holder, filled := holders[pos.ID]
		out = append(out, Slot{Position: pos, Player: holder, Filled: filled})
	}
	return out
}

func (r *Roster) playerIndex(playerID string) int {
	for i := range r.players {
		if r.players[i].ID == playerID {
			return i
		}
	}
	return -1
}

func (r *Roster) position(positionID string) (position.Position, bool) {
	for _, pos := range r.positions {
		if pos.ID == positionID {
			return pos, true
		}
	}
	return position.Position{}, false
}
