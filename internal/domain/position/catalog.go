package position

import (
	"sort"
	"strconv"
)

// LastStartingID is the highest position id that belongs to the starting XV.
const LastStartingID = 15

// Position is one slot on the team sheet.
type Position struct {
	ID       string
	Name     string
	Disabled bool
}

// Number returns the numeric value of the id, or 0 when the id is not numeric.
func (p Position) Number() int {
	n, err := strconv.Atoi(p.ID)
	if err != nil {
		return 0
	}
	return n
}

func (p Position) IsStarting() bool {
	n := p.Number()
	return n >= 1 && n <= LastStartingID
}

func (p Position) IsSubstitute() bool {
	return p.Number() > LastStartingID
}

var catalog = [...]Position{
	{ID: "1", Name: "Loosehead Prop"},
	{ID: "2", Name: "Hooker"},
	{ID: "3", Name: "Tighthead Prop"},
	{ID: "4", Name: "Lock"},
	{ID: "5", Name: "Lock"},
	{ID: "6", Name: "Blindside Flanker"},
	{ID: "7", Name: "Openside Flanker"},
	{ID: "8", Name: "Number 8"},
	{ID: "9", Name: "Scrum-half"},
	{ID: "10", Name: "Fly-half"},
	{ID: "11", Name: "Left Wing"},
	{ID: "12", Name: "Inside Centre"},
	{ID: "13", Name: "Outside Centre"},
	{ID: "14", Name: "Right Wing"},
	{ID: "15", Name: "Full-back"},
	{ID: "16", Name: "Substitute"},
	{ID: "17", Name: "Substitute"},
	{ID: "18", Name: "Substitute"},
	{ID: "19", Name: "Substitute"},
	{ID: "20", Name: "Substitute"},
}

// Catalog returns a fresh copy of the 20 rugby positions, all enabled.
func Catalog() []Position {
	out := make([]Position, len(catalog))
	copy(out, catalog[:])
	return out
}

// Merge applies the disabled flags from stored onto a fresh catalog. Entries in
// stored that are not part of the catalog are ignored, so a persisted blob can
// never add or rename positions.
func Merge(stored []Position) []Position {
	out := Catalog()
	disabled := make(map[string]bool, len(stored))
	for _, item := range stored {
		disabled[item.ID] = item.Disabled
	}
	for i := range out {
		out[i].Disabled = disabled[out[i].ID]
	}
	return out
}

// SortByNumber orders positions by numeric id ascending.
func SortByNumber(items []Position) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Number() < items[j].Number()
	})
}
