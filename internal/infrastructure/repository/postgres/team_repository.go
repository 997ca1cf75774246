package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/team-sheet/internal/domain/player"
	"github.com/riskibarqy/team-sheet/internal/domain/team"
	"github.com/riskibarqy/team-sheet/internal/infrastructure/document"
	qb "github.com/riskibarqy/team-sheet/internal/platform/querybuilder"
)

const teamsTable = "teams"

var ErrTeamExists = crerr.New("team already exists")

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select("*").From(teamsTable).
		Where(qb.IsNull("deleted_at")).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list teams query")
	}

	var rows []teamTableModel
	err = retryStatement(ctx, func(ctx context.Context) error {
		rows = rows[:0]
		return r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...)
	})
	if err != nil {
		return nil, crerr.Wrap(err, "list teams")
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		item, err := teamFromRow(row)
		if err != nil {
			return nil, crerr.Wrapf(err, "decode team %s", row.PublicID)
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From(teamsTable).
		Where(
			qb.Eq("public_id", teamID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return team.Team{}, false, crerr.Wrap(err, "build get team query")
	}

	var row teamTableModel
	err = retryStatement(ctx, func(ctx context.Context) error {
		return r.db.GetContext(ctx, &row, r.db.Rebind(query), args...)
	})
	if err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, crerr.Wrap(err, "get team")
	}

	item, err := teamFromRow(row)
	if err != nil {
		return team.Team{}, false, crerr.Wrapf(err, "decode team %s", row.PublicID)
	}
	return item, true, nil
}

func (r *TeamRepository) Create(ctx context.Context, item team.Team) error {
	players, err := document.MarshalPlayers(item.Players)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertModel(teamsTable, teamInsertModel{
		PublicID:    item.ID,
		Name:        item.Name,
		Description: item.Description,
		Players:     string(players),
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}, "")
	if err != nil {
		return crerr.Wrap(err, "build create team query")
	}

	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		if isUniqueViolation(err) {
			return crerr.Wrapf(ErrTeamExists, "create team %s", item.ID)
		}
		return crerr.Wrap(err, "create team")
	}
	return nil
}

func (r *TeamRepository) UpdateDetails(ctx context.Context, teamID, name, description string) (bool, error) {
	query, args, err := qb.Update(teamsTable).
		Set("name", name).
		Set("description", description).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", teamID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return false, crerr.Wrap(err, "build update team query")
	}

	return r.execAffected(ctx, query, args, "update team")
}

func (r *TeamRepository) UpdatePlayers(ctx context.Context, teamID string, players []player.Player) error {
	raw, err := document.MarshalPlayers(players)
	if err != nil {
		return err
	}

	query, args, err := qb.Update(teamsTable).
		SetExpr("players", "?::jsonb", string(raw)).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", teamID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build update team players query")
	}

	updated, err := r.execAffected(ctx, query, args, "update team players")
	if err != nil {
		return err
	}
	if !updated {
		return crerr.Newf("update team players: team %s not found", teamID)
	}
	return nil
}

// Delete soft deletes the team row.
func (r *TeamRepository) Delete(ctx context.Context, teamID string) (bool, error) {
	query, args, err := qb.Update(teamsTable).
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("public_id", teamID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return false, crerr.Wrap(err, "build delete team query")
	}

	return r.execAffected(ctx, query, args, "delete team")
}

func (r *TeamRepository) execAffected(ctx context.Context, query string, args []any, op string) (bool, error) {
	var affected int64
	err := retryStatement(ctx, func(ctx context.Context) error {
		result, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
		if err != nil {
			return err
		}
		affected, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return false, crerr.Wrap(err, op)
	}
	return affected > 0, nil
}
