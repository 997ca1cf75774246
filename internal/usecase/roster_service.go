package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/riskibarqy/team-sheet/internal/domain/player"
	"github.com/riskibarqy/team-sheet/internal/domain/position"
	"github.com/riskibarqy/team-sheet/internal/domain/roster"
	"github.com/riskibarqy/team-sheet/internal/platform/csvtable"
	"github.com/riskibarqy/team-sheet/internal/platform/id"
	"github.com/riskibarqy/team-sheet/internal/platform/logging"
)

var rosterCSVHeaders = []string{"id", "name", "positionId"}

// Sheet is the read model of a team sheet.
type Sheet struct {
	Starters    []roster.Slot
	Substitutes []roster.Slot
	Available   []player.Player
}

type ImportResult struct {
	Imported int
	Skipped  int
	Players  []player.Player
}

// RosterService applies commands to one roster and persists the full snapshot
// after every committed mutation. Commands that reference a missing player or
// position change nothing and succeed.
type RosterService struct {
	roster *roster.Roster
	store  roster.Store
	idGen  id.Generator
	logger *logging.Logger

	persistMu sync.Mutex
}

func NewRosterService(store roster.Store, idGen id.Generator, logger *logging.Logger) *RosterService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RosterService{
		roster: roster.New(idGen),
		store:  store,
		idGen:  idGen,
		logger: logger,
	}
}

// Load restores the roster from the store. A store with nothing saved leaves
// the empty roster in place.
func (s *RosterService) Load(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.Load")
	defer span.End()

	snapshot, found, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: load roster: %w", ErrDependencyUnavailable, err)
	}
	if found {
		s.roster.Restore(snapshot)
	}
	return nil
}

func (s *RosterService) AddPlayer(ctx context.Context, name string) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.AddPlayer")
	defer span.End()

	item, err := s.roster.AddPlayer(name)
	if err != nil {
		if errors.Is(err, roster.ErrEmptyName) {
			return player.Player{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return player.Player{}, err
	}

	return item, s.persist(ctx)
}

func (s *RosterService) DeletePlayer(ctx context.Context, playerID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.DeletePlayer")
	defer span.End()

	if err := s.roster.DeletePlayer(playerID); err != nil {
		return s.ignoreMissing(ctx, "delete_player", err)
	}
	return s.persist(ctx)
}

func (s *RosterService) RenamePlayer(ctx context.Context, playerID, name string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.RenamePlayer")
	defer span.End()

	if _, err := s.roster.RenamePlayer(playerID, name); err != nil {
		if errors.Is(err, roster.ErrEmptyName) {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return s.ignoreMissing(ctx, "rename_player", err)
	}
	return s.persist(ctx)
}

// AssignPlayerToPosition returns the whole collection after the move. On a
// no-op it returns the unchanged collection.
func (s *RosterService) AssignPlayerToPosition(ctx context.Context, playerID, positionID string) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.AssignPlayerToPosition")
	defer span.End()

	players, err := s.roster.AssignPlayerToPosition(playerID, positionID)
	if err != nil {
		return s.roster.Players(), s.ignoreMissing(ctx, "assign_player", err)
	}
	return players, s.persist(ctx)
}

func (s *RosterService) UnassignPosition(ctx context.Context, positionID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.UnassignPosition")
	defer span.End()

	_, vacated, err := s.roster.UnassignPosition(positionID)
	if err != nil {
		return s.ignoreMissing(ctx, "unassign_position", err)
	}
	if !vacated {
		return nil
	}
	return s.persist(ctx)
}

func (s *RosterService) TogglePositionDisabled(ctx context.Context, positionID string) (position.Position, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.TogglePositionDisabled")
	defer span.End()

	pos, err := s.roster.TogglePositionDisabled(positionID)
	if err != nil {
		return position.Position{}, s.ignoreMissing(ctx, "toggle_position", err)
	}
	return pos, s.persist(ctx)
}

func (s *RosterService) ResetAssignments(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ResetAssignments")
	defer span.End()

	s.roster.ResetAssignments()
	return s.persist(ctx)
}

func (s *RosterService) ClearPlayers(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ClearPlayers")
	defer span.End()

	s.roster.ClearPlayers()
	return s.persist(ctx)
}

func (s *RosterService) Players(_ context.Context) []player.Player {
	return s.roster.Players()
}

func (s *RosterService) AvailablePlayers(_ context.Context) []player.Player {
	return s.roster.AvailablePlayers()
}

func (s *RosterService) PositionsView(_ context.Context) []roster.Slot {
	return s.roster.PositionsView()
}

func (s *RosterService) Sheet(_ context.Context) Sheet {
	return Sheet{
		Starters:    s.roster.Starters(),
		Substitutes: s.roster.Substitutes(),
		Available:   s.roster.AvailablePlayers(),
	}
}

// ExportCSV renders the collection as id,name,positionId rows.
func (s *RosterService) ExportCSV(ctx context.Context) string {
	_, span := startUsecaseSpan(ctx, "usecase.RosterService.ExportCSV")
	defer span.End()

	players := s.roster.Players()
	rows := make([]csvtable.Row, 0, len(players))
	for _, p := range players {
		rows = append(rows, csvtable.Row{
			"id":         p.ID,
			"name":       p.Name,
			"positionId": p.PositionID,
		})
	}
	return csvtable.Encode(rows, rosterCSVHeaders)
}

// ImportCSV merges the rows of text into the collection by id. Rows without a
// name are skipped and rows without an id get a fresh one.
func (s *RosterService) ImportCSV(ctx context.Context, text string) (ImportResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ImportCSV")
	defer span.End()

	rows := csvtable.Parse(text)
	items := make([]player.Player, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		name := strings.TrimSpace(row["name"])
		if name == "" {
			skipped++
			continue
		}

		playerID := strings.TrimSpace(row["id"])
		if playerID == "" {
			generated, err := s.idGen.NewID()
			if err != nil {
				return ImportResult{}, fmt.Errorf("generate player id: %w", err)
			}
			playerID = generated
		}

		items = append(items, player.Player{
			ID:         playerID,
			Name:       name,
			PositionID: strings.TrimSpace(row["positionId"]),
		})
	}

	if len(items) == 0 {
		return ImportResult{Skipped: skipped, Players: s.roster.Players()}, nil
	}

	players := s.roster.MergePlayers(items)
	s.logger.InfoContext(ctx, "roster imported", "imported", len(items), "skipped", skipped)

	return ImportResult{Imported: len(items), Skipped: skipped, Players: players}, s.persist(ctx)
}

// Flush writes any deferred snapshot now.
func (s *RosterService) Flush(ctx context.Context) error {
	flusher, ok := s.store.(roster.Flusher)
	if !ok {
		return nil
	}
	if err := flusher.Flush(ctx); err != nil {
		return fmt.Errorf("%w: flush roster: %w", ErrDependencyUnavailable, err)
	}
	return nil
}

// Close flushes deferred writes and releases the store.
func (s *RosterService) Close(ctx context.Context) error {
	flusher, ok := s.store.(roster.Flusher)
	if !ok {
		return nil
	}
	if err := flusher.Close(ctx); err != nil {
		return fmt.Errorf("%w: close roster store: %w", ErrDependencyUnavailable, err)
	}
	return nil
}

// persist saves the current snapshot. The snapshot is taken under persistMu so
// concurrent commands can never save an older state after a newer one.
func (s *RosterService) persist(ctx context.Context) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if err := s.store.Save(ctx, s.roster.Snapshot()); err != nil {
		s.logger.WarnContext(ctx, "persist roster failed", "error", err)
		return fmt.Errorf("%w: save roster: %w", ErrDependencyUnavailable, err)
	}
	return nil
}

func (s *RosterService) ignoreMissing(ctx context.Context, op string, err error) error {
	if errors.Is(err, roster.ErrPlayerNotFound) ||
		errors.Is(err, roster.ErrPositionNotFound) ||
		errors.Is(err, roster.ErrPositionDisabled) {
		s.logger.DebugContext(ctx, "roster command ignored", "op", op, "reason", err)
		return nil
	}
	return err
}
