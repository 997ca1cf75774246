package httpapi

import (
	"time"

	"github.com/riskibarqy/team-sheet/internal/domain/player"
	"github.com/riskibarqy/team-sheet/internal/domain/roster"
	"github.com/riskibarqy/team-sheet/internal/domain/team"
	"github.com/riskibarqy/team-sheet/internal/usecase"
)

type createTeamRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

type updateTeamRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

type playerNameRequest struct {
	Name string `json:"name" validate:"required"`
}

type assignPositionRequest struct {
	PlayerID string `json:"playerId" validate:"required"`
}

type teamDTO struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Players     []playerDTO `json:"players"`
	CreatedAt   string      `json:"createdAt"`
	UpdatedAt   string      `json:"updatedAt"`
}

// playerDTO encodes an unassigned player with a null positionId.
type playerDTO struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	PositionID *string `json:"positionId"`
}

type positionDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Disabled bool   `json:"disabled"`
}

type slotDTO struct {
	Position positionDTO `json:"position"`
	Player   *playerDTO  `json:"player"`
}

type sheetDTO struct {
	Starters    []slotDTO   `json:"starters"`
	Substitutes []slotDTO   `json:"substitutes"`
	Available   []playerDTO `json:"available"`
}

type importResultDTO struct {
	Imported int         `json:"imported"`
	Skipped  int         `json:"skipped"`
	Players  []playerDTO `json:"players"`
}

func teamToDTO(item team.Team) teamDTO {
	return teamDTO{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Players:     playersToDTO(item.Players),
		CreatedAt:   item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func playerToDTO(item player.Player) playerDTO {
	out := playerDTO{ID: item.ID, Name: item.Name}
	if item.Assigned() {
		positionID := item.PositionID
		out.PositionID = &positionID
	}
	return out
}

func playersToDTO(items []player.Player) []playerDTO {
	out := make([]playerDTO, 0, len(items))
	for _, item := range items {
		out = append(out, playerToDTO(item))
	}
	return out
}

func slotsToDTO(items []roster.Slot) []slotDTO {
	out := make([]slotDTO, 0, len(items))
	for _, item := range items {
		slot := slotDTO{Position: positionDTO{
			ID:       item.Position.ID,
			Name:     item.Position.Name,
			Disabled: item.Position.Disabled,
		}}
		if item.Filled {
			holder := playerToDTO(item.Player)
			slot.Player = &holder
		}
		out = append(out, slot)
	}
	return out
}

func sheetToDTO(sheet usecase.Sheet) sheetDTO {
	return sheetDTO{
		Starters:    slotsToDTO(sheet.Starters),
		Substitutes: slotsToDTO(sheet.Substitutes),
		Available:   playersToDTO(sheet.Available),
	}
}
