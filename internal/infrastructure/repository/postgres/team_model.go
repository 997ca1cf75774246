package postgres

import (
	"time"

	"github.com/riskibarqy/team-sheet/internal/domain/team"
	"github.com/riskibarqy/team-sheet/internal/infrastructure/document"
)

type teamTableModel struct {
	ID          int64      `db:"id"`
	PublicID    string     `db:"public_id"`
	Name        string     `db:"name"`
	Description string     `db:"description"`
	Players     []byte     `db:"players"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

type teamInsertModel struct {
	PublicID    string    `db:"public_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Players     string    `db:"players"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func teamFromRow(row teamTableModel) (team.Team, error) {
	players, err := document.UnmarshalPlayers(row.Players)
	if err != nil {
		return team.Team{}, err
	}

	return team.Team{
		ID:          row.PublicID,
		Name:        row.Name,
		Description: row.Description,
		Players:     players,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}
