package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/team-sheet/internal/domain/team"
	"github.com/riskibarqy/team-sheet/internal/platform/id"
	"github.com/riskibarqy/team-sheet/internal/platform/logging"
)

type CreateTeamInput struct {
	Name        string
	Description string
}

// UpdateTeamInput leaves a field unchanged when it is nil.
type UpdateTeamInput struct {
	Name        *string
	Description *string
}

type TeamService struct {
	teamRepo team.Repository
	sessions *Sessions
	idGen    id.Generator
	logger   *logging.Logger
	now      func() time.Time
}

func NewTeamService(teamRepo team.Repository, sessions *Sessions, idGen id.Generator, logger *logging.Logger) *TeamService {
	if logger == nil {
		logger = logging.Default()
	}
	return &TeamService{
		teamRepo: teamRepo,
		sessions: sessions,
		idGen:    idGen,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *TeamService) List(ctx context.Context) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.List")
	defer span.End()

	items, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return items, nil
}

func (s *TeamService) Create(ctx context.Context, input CreateTeamInput) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Create")
	defer span.End()

	description := strings.TrimSpace(input.Description)
	if description == "" {
		description = team.DefaultDescription
	}

	teamID, err := s.idGen.NewID()
	if err != nil {
		return team.Team{}, fmt.Errorf("generate team id: %w", err)
	}

	now := s.now().UTC()
	item := team.Team{
		ID:          teamID,
		Name:        strings.TrimSpace(input.Name),
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := item.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if err := s.teamRepo.Create(ctx, item); err != nil {
		return team.Team{}, fmt.Errorf("create team: %w", err)
	}

	s.logger.InfoContext(ctx, "team created", "team_id", item.ID)
	return item, nil
}

func (s *TeamService) Get(ctx context.Context, teamID string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Get")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return team.Team{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	item, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}
	return item, nil
}

// Update renames a team and/or changes its description.
func (s *TeamService) Update(ctx context.Context, teamID string, input UpdateTeamInput) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Update")
	defer span.End()

	current, err := s.Get(ctx, teamID)
	if err != nil {
		return team.Team{}, err
	}

	next := current
	if input.Name != nil {
		next.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		next.Description = strings.TrimSpace(*input.Description)
	}
	if err := next.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	updated, err := s.teamRepo.UpdateDetails(ctx, current.ID, next.Name, next.Description)
	if err != nil {
		return team.Team{}, fmt.Errorf("update team: %w", err)
	}
	if !updated {
		return team.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, current.ID)
	}

	next.UpdatedAt = s.now().UTC()
	return next, nil
}

// Delete removes the team record along with its open roster session and any
// locally persisted roster.
func (s *TeamService) Delete(ctx context.Context, teamID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Delete")
	defer span.End()

	item, err := s.Get(ctx, teamID)
	if err != nil {
		return err
	}

	if s.sessions != nil {
		if err := s.sessions.Drop(ctx, item.ID); err != nil {
			return err
		}
	}

	deleted, err := s.teamRepo.Delete(ctx, item.ID)
	if err != nil {
		return fmt.Errorf("delete team: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: team=%s", ErrNotFound, item.ID)
	}

	s.logger.InfoContext(ctx, "team deleted", "team_id", item.ID)
	return nil
}

// OpenRoster returns the roster session of an existing team.
func (s *TeamService) OpenRoster(ctx context.Context, teamID string) (*RosterService, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.OpenRoster")
	defer span.End()

	item, err := s.Get(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return s.sessions.Open(ctx, item.ID)
}
