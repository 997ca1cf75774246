package cache

import (
	"context"
	"time"

	"github.com/riskibarqy/team-sheet/internal/domain/player"
	"github.com/riskibarqy/team-sheet/internal/domain/team"
	basecache "github.com/riskibarqy/team-sheet/internal/platform/cache"
)

const (
	teamListKey     = "team:list"
	teamByIDKeyBase = "team:id:"
)

type cachedTeamByID struct {
	value  team.Team
	exists bool
}

// TeamRepository serves reads from a TTL cache and invalidates on every write.
type TeamRepository struct {
	next team.Repository
	list *basecache.Store[[]team.Team]
	byID *basecache.Store[cachedTeamByID]
}

func NewTeamRepository(next team.Repository, ttl time.Duration) *TeamRepository {
	return &TeamRepository{
		next: next,
		list: basecache.NewStore[[]team.Team](ttl),
		byID: basecache.NewStore[cachedTeamByID](ttl),
	}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	items, err := r.list.GetOrLoad(ctx, teamListKey, func(ctx context.Context) ([]team.Team, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return cloneTeams(items), nil
	})
	if err != nil {
		return nil, err
	}
	return cloneTeams(items), nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	cached, err := r.byID.GetOrLoad(ctx, teamByIDKeyBase+teamID, func(ctx context.Context) (cachedTeamByID, error) {
		item, exists, err := r.next.GetByID(ctx, teamID)
		if err != nil {
			return cachedTeamByID{}, err
		}
		return cachedTeamByID{value: cloneTeam(item), exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}
	return cloneTeam(cached.value), cached.exists, nil
}

func (r *TeamRepository) Create(ctx context.Context, item team.Team) error {
	defer r.invalidate(ctx, item.ID)
	return r.next.Create(ctx, item)
}

func (r *TeamRepository) UpdateDetails(ctx context.Context, teamID, name, description string) (bool, error) {
	defer r.invalidate(ctx, teamID)
	return r.next.UpdateDetails(ctx, teamID, name, description)
}

func (r *TeamRepository) UpdatePlayers(ctx context.Context, teamID string, players []player.Player) error {
	defer r.invalidate(ctx, teamID)
	return r.next.UpdatePlayers(ctx, teamID, players)
}

func (r *TeamRepository) Delete(ctx context.Context, teamID string) (bool, error) {
	defer r.invalidate(ctx, teamID)
	return r.next.Delete(ctx, teamID)
}

func (r *TeamRepository) invalidate(ctx context.Context, teamID string) {
	r.list.Delete(ctx, teamListKey)
	r.byID.Delete(ctx, teamByIDKeyBase+teamID)
}

func cloneTeam(item team.Team) team.Team {
	item.Players = player.Clone(item.Players)
	return item
}

func cloneTeams(items []team.Team) []team.Team {
	out := make([]team.Team, 0, len(items))
	for _, item := range items {
		out = append(out, cloneTeam(item))
	}
	return out
}
