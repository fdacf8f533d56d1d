package app

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/KaranKool/mishtee-mitra/internal/config"
	"github.com/KaranKool/mishtee-mitra/internal/constants"
	"github.com/KaranKool/mishtee-mitra/internal/delivery"
	"github.com/KaranKool/mishtee-mitra/internal/gateway"
	"github.com/KaranKool/mishtee-mitra/internal/gateway/memory"
	"github.com/KaranKool/mishtee-mitra/internal/gateway/postgres"
	"github.com/KaranKool/mishtee-mitra/internal/gateway/rest"
	"github.com/KaranKool/mishtee-mitra/internal/sessions"
	"github.com/KaranKool/mishtee-mitra/internal/utils"
)

type Backend string

const (
	BackendREST     Backend = "rest"
	BackendPostgres Backend = "postgres"
	BackendMemory   Backend = "memory"
)

type App struct {
	Config   *config.Config
	Backend  Backend
	Gateway  gateway.Gateway
	Sessions *sessions.Registry
	Signer   *sessions.TokenSigner

	db *pgxpool.Pool
}

// BackendFor picks the gateway implementation from the URL scheme.
func BackendFor(dataStoreURL string) (Backend, error) {
	u, err := url.Parse(dataStoreURL)
	if err != nil {
		return "", fmt.Errorf("%w: DATA_STORE_URL: %v", utils.ErrInvalidConfig, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return BackendREST, nil
	case "postgres", "postgresql":
		return BackendPostgres, nil
	case "memory":
		return BackendMemory, nil
	default:
		return "", fmt.Errorf("%w: unsupported DATA_STORE_URL scheme %q", utils.ErrInvalidConfig, u.Scheme)
	}
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	backend, err := BackendFor(cfg.DataStoreURL)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Backend: backend}

	switch backend {
	case BackendREST:
		client, err := rest.NewClient(cfg.DataStoreURL, cfg.DataStoreKey, cfg.RequestTimeout)
		if err != nil {
			return nil, err
		}
		if cfg.LDFlag_SeedDbWithTestData {
			utils.Logger.Warn("seed_db_with_test_data ignored for the REST backend")
		}
		a.Gateway = client

	case BackendPostgres:
		dbURL, err := postgres.WithPassword(cfg.DataStoreURL, cfg.DataStoreKey)
		if err != nil {
			return nil, err
		}
		pool, err := postgres.Connect(ctx, dbURL)
		if err != nil {
			return nil, err
		}
		a.db = pool
		if cfg.LDFlag_SeedDbWithTestData {
			if err := postgres.SeedDemoData(ctx, pool); err != nil {
				pool.Close()
				return nil, fmt.Errorf("seed data store: %w", err)
			}
		}
		a.Gateway = postgres.NewStore(pool)

	case BackendMemory:
		store := memory.NewStore()
		memory.SeedDemoData(store)
		a.Gateway = store
	}

	key := cfg.SessionSigningKey
	if len(key) == 0 {
		utils.Logger.Warn("SESSION_SIGNING_KEY not set, session cookies are invalidated on restart")
		key, err = sessions.RandomKey()
		if err != nil {
			a.Close()
			return nil, err
		}
	}
	a.Signer, err = sessions.NewTokenSigner(key, constants.SessionIssuer, constants.SessionTokenTTL)
	if err != nil {
		a.Close()
		return nil, err
	}

	gw, timeout := a.Gateway, cfg.RequestTimeout
	a.Sessions = sessions.NewRegistry(func() *delivery.Controller {
		return delivery.NewController(gw, timeout)
	}, constants.MaxSessions)

	utils.Logger.Infof("%s using %s data store backend", cfg.AppName, backend)
	return a, nil
}

func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
		utils.Logger.Info("Data store connection closed.")
	}
}
