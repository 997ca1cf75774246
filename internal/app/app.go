package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	crerr "github.com/cockroachdb/errors"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/riskibarqy/team-sheet/internal/config"
	"github.com/riskibarqy/team-sheet/internal/domain/blob"
	"github.com/riskibarqy/team-sheet/internal/domain/roster"
	"github.com/riskibarqy/team-sheet/internal/domain/team"
	"github.com/riskibarqy/team-sheet/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/team-sheet/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/team-sheet/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/team-sheet/internal/infrastructure/repository/sqlite"
	"github.com/riskibarqy/team-sheet/internal/infrastructure/rosterstore"
	"github.com/riskibarqy/team-sheet/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/team-sheet/internal/platform/id"
	"github.com/riskibarqy/team-sheet/internal/platform/logging"
	"github.com/riskibarqy/team-sheet/internal/platform/resilience"
	"github.com/riskibarqy/team-sheet/internal/usecase"
)

// App is the assembled HTTP service together with the resources it owns.
type App struct {
	Server *http.Server

	sessions *usecase.Sessions
	closers  []func() error
	logger   *logging.Logger
}

func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{logger: logger}

	teamRepo, err := a.buildTeamRepository(ctx, cfg)
	if err != nil {
		_ = a.closeResources()
		return nil, err
	}

	factory, err := a.buildStoreFactory(ctx, cfg, teamRepo)
	if err != nil {
		_ = a.closeResources()
		return nil, err
	}

	ids := idgen.NewUUIDGenerator()
	a.sessions = usecase.NewSessions(factory, ids, logger, cfg.SessionFlushWorkers)
	teamSvc := usecase.NewTeamService(teamRepo, a.sessions, ids, logger)

	handler := httpapi.NewHandler(teamSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins)

	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	logger.Info("app assembled",
		"team_store", cfg.TeamStore,
		"roster_backend", cfg.RosterBackend,
		"cache_enabled", cfg.CacheEnabled,
	)

	return a, nil
}

// Shutdown flushes every open roster and then releases database handles.
// The HTTP server must already be stopped.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if a.sessions != nil {
		if err := a.sessions.Close(ctx); err != nil {
			errs = append(errs, crerr.Wrap(err, "close roster sessions"))
		}
	}
	if err := a.closeResources(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) closeResources() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) buildTeamRepository(ctx context.Context, cfg config.Config) (team.Repository, error) {
	var repo team.Repository

	switch cfg.TeamStore {
	case config.TeamStorePostgres:
		db, err := otelsqlx.Open("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
			otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
			otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
			otelsql.WithQueryFormatter(formatDBQueryForTrace),
		)
		if err != nil {
			return nil, crerr.Wrap(err, "open postgres")
		}
		a.closers = append(a.closers, db.Close)

		if err := db.PingContext(ctx); err != nil {
			return nil, crerr.Wrap(err, "ping postgres")
		}
		repo = postgres.NewTeamRepository(db)
	default:
		repo = memory.NewTeamRepository()
	}

	if cfg.CacheEnabled {
		repo = cache.NewTeamRepository(repo, cfg.CacheTTL)
	}
	return repo, nil
}

func (a *App) buildStoreFactory(ctx context.Context, cfg config.Config, teams team.Repository) (usecase.StoreFactory, error) {
	switch cfg.RosterBackend {
	case config.RosterBackendRemote:
		var breaker *resilience.CircuitBreaker
		if cfg.RemoteCircuit.Enabled {
			breaker = resilience.NewCircuitBreaker(cfg.RemoteCircuit)
		}
		return func(teamID string) (roster.Store, error) {
			remote := rosterstore.NewRemote(teams, teamID, breaker)
			return rosterstore.NewDebounced(remote, cfg.RosterPersistDebounce, a.logger.With("team_id", teamID)), nil
		}, nil
	default:
		blobs, err := a.openBlobRepository(ctx, cfg.LocalStorePath)
		if err != nil {
			return nil, err
		}
		return func(teamID string) (roster.Store, error) {
			return rosterstore.NewLocal(blobs, rosterstore.TeamNamespace(teamID)), nil
		}, nil
	}
}

func (a *App) openBlobRepository(ctx context.Context, path string) (blob.Repository, error) {
	if strings.TrimSpace(path) == "" {
		return memory.NewBlobRepository(), nil
	}

	repo, err := sqlite.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, repo.Close)
	return repo, nil
}
