package roster

import (
	"errors"
	"fmt"
	"testing"

	"github.com/riskibarqy/team-sheet/internal/domain/player"
	"github.com/riskibarqy/team-sheet/internal/domain/position"
)

type sequenceIDGenerator struct {
	next int
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	g.next++
	return fmt.Sprintf("p%d", g.next), nil
}

func newTestRoster(t *testing.T, names ...string) (*Roster, []player.Player) {
	t.Helper()

	r := New(&sequenceIDGenerator{})
	added := make([]player.Player, 0, len(names))
	for _, name := range names {
		p, err := r.AddPlayer(name)
		if err != nil {
			t.Fatalf("add player %q: %v", name, err)
		}
		added = append(added, p)
	}
	return r, added
}

func holdersOf(players []player.Player, positionID string) []string {
	var out []string
	for _, p := range players {
		if p.PositionID == positionID {
			out = append(out, p.ID)
		}
	}
	return out
}

func TestRoster_AddPlayer(t *testing.T) {
	r, _ := newTestRoster(t)

	p, err := r.AddPlayer("  Alice  ")
	if err != nil {
		t.Fatalf("add player: %v", err)
	}
	if p.Name != "Alice" {
		t.Fatalf("expected trimmed name, got %q", p.Name)
	}

	available := r.AvailablePlayers()
	if len(available) != 1 {
		t.Fatalf("expected one available player, got %d", len(available))
	}
	if available[0].ID != p.ID || available[0].Name != "Alice" || available[0].PositionID != "" {
		t.Fatalf("unexpected available player: %+v", available[0])
	}
}

func TestRoster_AddPlayer_RejectsBlankName(t *testing.T) {
	r, _ := newTestRoster(t, "Alice")

	for _, name := range []string{"", "   ", "\t\n"} {
		if _, err := r.AddPlayer(name); !errors.Is(err, ErrEmptyName) {
			t.Fatalf("AddPlayer(%q) expected ErrEmptyName, got %v", name, err)
		}
	}
	if got := len(r.Players()); got != 1 {
		t.Fatalf("store changed after rejected add: %d players", got)
	}
}

func TestRoster_RenamePlayer(t *testing.T) {
	r, added := newTestRoster(t, "Alice")
	if _, err := r.AssignPlayerToPosition(added[0].ID, "9"); err != nil {
		t.Fatalf("assign: %v", err)
	}

	renamed, err := r.RenamePlayer(added[0].ID, " Alicia ")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if renamed.Name != "Alicia" || renamed.ID != added[0].ID || renamed.PositionID != "9" {
		t.Fatalf("unexpected renamed player: %+v", renamed)
	}

	if _, err := r.RenamePlayer(added[0].ID, " "); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if _, err := r.RenamePlayer("missing", "Bob"); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}
}

func TestRoster_DeletePlayer(t *testing.T) {
	r, added := newTestRoster(t, "Alice", "Bob")
	if _, err := r.AssignPlayerToPosition(added[0].ID, "1"); err != nil {
		t.Fatalf("assign: %v", err)
	}

	if err := r.DeletePlayer(added[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := r.DeletePlayer(added[0].ID); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound on second delete, got %v", err)
	}

	for _, slot := range r.PositionsView() {
		if slot.Position.ID == "1" && slot.Filled {
			t.Fatalf("deleted player still resolved at position 1")
		}
	}
	if got := r.Players(); len(got) != 1 || got[0].ID != added[1].ID {
		t.Fatalf("unexpected players after delete: %+v", got)
	}
}

func TestRoster_AssignEvictsPreviousHolder(t *testing.T) {
	r, added := newTestRoster(t, "Alice", "Bob")
	p1, p2 := added[0], added[1]

	if _, err := r.AssignPlayerToPosition(p1.ID, "10"); err != nil {
		t.Fatalf("assign p1: %v", err)
	}
	players, err := r.AssignPlayerToPosition(p2.ID, "10")
	if err != nil {
		t.Fatalf("assign p2: %v", err)
	}

	if got := holdersOf(players, "10"); len(got) != 1 || got[0] != p2.ID {
		t.Fatalf("expected only %s at position 10, got %v", p2.ID, got)
	}
	for _, p := range players {
		if p.ID == p1.ID && p.PositionID != "" {
			t.Fatalf("expected evicted player to be unassigned, got %q", p.PositionID)
		}
	}
}

func TestRoster_AssignMovesPlayerBetweenPositions(t *testing.T) {
	r, added := newTestRoster(t, "Alice")

	if _, err := r.AssignPlayerToPosition(added[0].ID, "2"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	players, err := r.AssignPlayerToPosition(added[0].ID, "16")
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if len(holdersOf(players, "2")) != 0 {
		t.Fatalf("expected position 2 to be vacated")
	}
	if got := holdersOf(players, "16"); len(got) != 1 {
		t.Fatalf("expected player on bench slot 16, got %v", got)
	}
}

func TestRoster_AssignIsIdempotent(t *testing.T) {
	r, added := newTestRoster(t, "Alice", "Bob")

	first, err := r.AssignPlayerToPosition(added[0].ID, "3")
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	second, err := r.AssignPlayerToPosition(added[0].ID, "3")
	if err != nil {
		t.Fatalf("assign again: %v", err)
	}
	if fmt.Sprint(first) != fmt.Sprint(second) {
		t.Fatalf("expected identical collections, got %v and %v", first, second)
	}
}

func TestRoster_AssignPreconditions(t *testing.T) {
	r, added := newTestRoster(t, "Alice")
	if _, err := r.TogglePositionDisabled("7"); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	tests := []struct {
		name       string
		playerID   string
		positionID string
		want       error
	}{
		{name: "missing player", playerID: "nobody", positionID: "1", want: ErrPlayerNotFound},
		{name: "missing position", playerID: added[0].ID, positionID: "21", want: ErrPositionNotFound},
		{name: "disabled position", playerID: added[0].ID, positionID: "7", want: ErrPositionDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.AssignPlayerToPosition(tt.playerID, tt.positionID); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if len(r.AvailablePlayers()) != 1 {
				t.Fatalf("store changed after rejected assignment")
			}
		})
	}
}

func TestRoster_UnassignPosition(t *testing.T) {
	r, added := newTestRoster(t, "Alice")
	if _, err := r.AssignPlayerToPosition(added[0].ID, "15"); err != nil {
		t.Fatalf("assign: %v", err)
	}

	holder, found, err := r.UnassignPosition("15")
	if err != nil || !found || holder.ID != added[0].ID {
		t.Fatalf("unexpected unassign result: holder=%+v found=%v err=%v", holder, found, err)
	}
	if len(r.AvailablePlayers()) != 1 {
		t.Fatalf("expected player back in available list")
	}

	_, found, err = r.UnassignPosition("15")
	if err != nil || found {
		t.Fatalf("expected no-op on empty position, found=%v err=%v", found, err)
	}
	if _, _, err := r.UnassignPosition("99"); !errors.Is(err, ErrPositionNotFound) {
		t.Fatalf("expected ErrPositionNotFound, got %v", err)
	}
}

func TestRoster_DisablingPositionKeepsHolder(t *testing.T) {
	r, added := newTestRoster(t, "Alice")
	if _, err := r.AssignPlayerToPosition(added[0].ID, "4"); err != nil {
		t.Fatalf("assign: %v", err)
	}

	pos, err := r.TogglePositionDisabled("4")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !pos.Disabled {
		t.Fatalf("expected position 4 disabled")
	}

	players := r.Players()
	if players[0].PositionID != "4" {
		t.Fatalf("disabling cleared assignment: %+v", players[0])
	}
	if len(r.AvailablePlayers()) != 0 {
		t.Fatalf("player on disabled position must not be available")
	}

	pos, err = r.TogglePositionDisabled("4")
	if err != nil || pos.Disabled {
		t.Fatalf("expected position re-enabled, got %+v err=%v", pos, err)
	}
}

func TestRoster_ResetAssignments(t *testing.T) {
	r, added := newTestRoster(t, "Alice", "Bob", "Cara")
	for i, p := range added {
		if _, err := r.AssignPlayerToPosition(p.ID, fmt.Sprint(i+1)); err != nil {
			t.Fatalf("assign: %v", err)
		}
	}
	if _, err := r.TogglePositionDisabled("20"); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	r.ResetAssignments()

	for _, p := range r.Players() {
		if p.PositionID != "" {
			t.Fatalf("player %s still assigned to %s", p.ID, p.PositionID)
		}
	}
	for _, pos := range r.Positions() {
		if pos.Disabled != (pos.ID == "20") {
			t.Fatalf("disabled flag changed for position %s", pos.ID)
		}
	}
	if len(r.Positions()) != 20 {
		t.Fatalf("catalog size changed")
	}
}

func TestRoster_PositionsView(t *testing.T) {
	r, added := newTestRoster(t, "Alice")
	if _, err := r.AssignPlayerToPosition(added[0].ID, "12"); err != nil {
		t.Fatalf("assign: %v", err)
	}

	view := r.PositionsView()
	if len(view) != 20 {
		t.Fatalf("expected 20 slots, got %d", len(view))
	}
	for i, slot := range view {
		if slot.Position.Number() != i+1 {
			t.Fatalf("slot %d has position %s", i, slot.Position.ID)
		}
		if slot.Filled != (slot.Position.ID == "12") {
			t.Fatalf("unexpected fill state at %s", slot.Position.ID)
		}
	}
	if view[11].Player.Name != "Alice" {
		t.Fatalf("expected Alice at Inside Centre, got %+v", view[11].Player)
	}

	if got := len(r.Starters()); got != 15 {
		t.Fatalf("expected 15 starters, got %d", got)
	}
	if got := len(r.Substitutes()); got != 5 {
		t.Fatalf("expected 5 substitutes, got %d", got)
	}
}

func TestRoster_MergePlayers(t *testing.T) {
	r, added := newTestRoster(t, "Alice", "Bob")
	if _, err := r.AssignPlayerToPosition(added[1].ID, "9"); err != nil {
		t.Fatalf("assign: %v", err)
	}

	merged := r.MergePlayers([]player.Player{
		{ID: added[0].ID, Name: "Alice Renamed", PositionID: "9"},
		{ID: "x1", Name: "Xavier", PositionID: "42"},
		{ID: "x2", Name: "", PositionID: "1"},
		{ID: "x3", Name: "Yusuf", PositionID: "9"},
	})

	if len(merged) != 4 {
		t.Fatalf("expected 4 players after merge, got %d: %+v", len(merged), merged)
	}
	if merged[0].Name != "Alice Renamed" {
		t.Fatalf("expected in-place replacement, got %+v", merged[0])
	}
	if got := holdersOf(merged, "9"); len(got) != 1 || got[0] != "x3" {
		t.Fatalf("expected last row to win position 9, got %v", got)
	}
	if merged[2].ID != "x1" || merged[2].PositionID != "" {
		t.Fatalf("expected unknown position dropped, got %+v", merged[2])
	}
}

func TestRoster_RestoreDropsDuplicateAssignments(t *testing.T) {
	r := New(&sequenceIDGenerator{})
	r.Restore(Snapshot{
		Players: []player.Player{
			{ID: "a", Name: "Alice", PositionID: "1"},
			{ID: "b", Name: "Bob", PositionID: "1"},
			{ID: "a", Name: "Alice again"},
		},
		Positions: []position.Position{{ID: "5", Name: "Renamed", Disabled: true}},
	})

	players := r.Players()
	if len(players) != 2 {
		t.Fatalf("expected duplicate ids removed, got %+v", players)
	}
	if players[0].PositionID != "1" || players[1].PositionID != "" {
		t.Fatalf("expected first holder to keep position 1, got %+v", players)
	}
	for _, pos := range r.Positions() {
		if pos.ID == "5" && (!pos.Disabled || pos.Name != "Lock") {
			t.Fatalf("expected catalog name with stored disabled flag, got %+v", pos)
		}
	}
}

func TestRoster_ClearPlayers(t *testing.T) {
	r, _ := newTestRoster(t, "Alice", "Bob")
	r.ClearPlayers()
	if len(r.Players()) != 0 || len(r.AvailablePlayers()) != 0 {
		t.Fatalf("expected empty roster")
	}
}
