package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/team-sheet/internal/domain/player"
	"github.com/riskibarqy/team-sheet/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	teams map[string]team.Team
	now   func() time.Time
}

func NewTeamRepository(teams ...team.Team) *TeamRepository {
	byID := make(map[string]team.Team, len(teams))
	for _, item := range teams {
		byID[item.ID] = cloneTeam(item)
	}

	return &TeamRepository{teams: byID, now: time.Now}
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.teams))
	for _, item := range r.teams {
		out = append(out, cloneTeam(item))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.teams[teamID]
	if !ok {
		return team.Team{}, false, nil
	}
	return cloneTeam(item), true, nil
}

func (r *TeamRepository) Create(_ context.Context, item team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.teams[item.ID]; exists {
		return fmt.Errorf("team %s already exists", item.ID)
	}
	r.teams[item.ID] = cloneTeam(item)
	return nil
}

func (r *TeamRepository) UpdateDetails(_ context.Context, teamID, name, description string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.teams[teamID]
	if !ok {
		return false, nil
	}
	item.Name = name
	item.Description = description
	item.UpdatedAt = r.now().UTC()
	r.teams[teamID] = item
	return true, nil
}

func (r *TeamRepository) UpdatePlayers(_ context.Context, teamID string, players []player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.teams[teamID]
	if !ok {
		return fmt.Errorf("update players: team %s not found", teamID)
	}
	item.Players = player.Clone(players)
	item.UpdatedAt = r.now().UTC()
	r.teams[teamID] = item
	return nil
}

func (r *TeamRepository) Delete(_ context.Context, teamID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.teams[teamID]; !ok {
		return false, nil
	}
	delete(r.teams, teamID)
	return true, nil
}

func cloneTeam(item team.Team) team.Team {
	item.Players = player.Clone(item.Players)
	return item
}
