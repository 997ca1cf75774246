// Package document holds the JSON shapes players and positions are stored in.
package document

import (
	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/team-sheet/internal/domain/player"
	"github.com/riskibarqy/team-sheet/internal/domain/position"
)

// Player is stored with a null positionId when unassigned.
type Player struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	PositionID *string `json:"positionId"`
}

type Position struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Disabled bool   `json:"disabled"`
}

func FromPlayers(items []player.Player) []Player {
	out := make([]Player, 0, len(items))
	for _, item := range items {
		doc := Player{ID: item.ID, Name: item.Name}
		if item.PositionID != "" {
			positionID := item.PositionID
			doc.PositionID = &positionID
		}
		out = append(out, doc)
	}
	return out
}

func ToPlayers(docs []Player) []player.Player {
	out := make([]player.Player, 0, len(docs))
	for _, doc := range docs {
		item := player.Player{ID: doc.ID, Name: doc.Name}
		if doc.PositionID != nil {
			item.PositionID = *doc.PositionID
		}
		out = append(out, item)
	}
	return out
}

func MarshalPlayers(items []player.Player) ([]byte, error) {
	raw, err := sonic.Marshal(FromPlayers(items))
	if err != nil {
		return nil, crerr.Wrap(err, "marshal players")
	}
	return raw, nil
}

// UnmarshalPlayers treats an empty document as an empty collection.
func UnmarshalPlayers(raw []byte) ([]player.Player, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var docs []Player
	if err := sonic.Unmarshal(raw, &docs); err != nil {
		return nil, crerr.Wrap(err, "unmarshal players")
	}
	return ToPlayers(docs), nil
}

func MarshalPositions(items []position.Position) ([]byte, error) {
	docs := make([]Position, 0, len(items))
	for _, item := range items {
		docs = append(docs, Position{ID: item.ID, Name: item.Name, Disabled: item.Disabled})
	}
	raw, err := sonic.Marshal(docs)
	if err != nil {
		return nil, crerr.Wrap(err, "marshal positions")
	}
	return raw, nil
}

func UnmarshalPositions(raw []byte) ([]position.Position, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var docs []Position
	if err := sonic.Unmarshal(raw, &docs); err != nil {
		return nil, crerr.Wrap(err, "unmarshal positions")
	}
	out := make([]position.Position, 0, len(docs))
	for _, doc := range docs {
		out = append(out, position.Position{ID: doc.ID, Name: doc.Name, Disabled: doc.Disabled})
	}
	return out, nil
}
