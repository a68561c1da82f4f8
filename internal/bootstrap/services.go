package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/ecowaste/portal/config"
	"github.com/ecowaste/portal/internal/adapters/ecobackend"
	"github.com/ecowaste/portal/internal/adapters/memory"
	redisstore "github.com/ecowaste/portal/internal/adapters/redis"
	"github.com/ecowaste/portal/internal/ports"
	"github.com/ecowaste/portal/internal/service"
)

// ServiceDeps contains the dependencies needed to build services.
type ServiceDeps struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// ServiceContainer holds the initialized services.
type ServiceContainer struct {
	Auth     *service.AuthService
	Badges   ports.BadgeProvider
	Sessions ports.SessionStore
}

// NewServices wires the backend client, session store and auth service
// together from configuration.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps and config are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	backend, err := ecobackend.New(ecobackend.Config{
		BaseURL:   cfg.Backend.BaseURL,
		Timeout:   cfg.Backend.Timeout,
		BadgeExpr: cfg.Backend.BadgeExpr,
		Logger:    logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create backend client: %w", err)
	}

	sessions, err := newSessionStore(cfg, deps.RedisClient, logger)
	if err != nil {
		return ServiceContainer{}, err
	}

	auth := service.NewAuthService(service.AuthServiceOptions{
		Backend:    backend,
		Sessions:   sessions,
		Notifier:   backend,
		SessionTTL: cfg.Auth.SessionTTL,
		Logger:     logger,
	})

	return ServiceContainer{
		Auth:     auth,
		Badges:   backend,
		Sessions: sessions,
	}, nil
}

//nolint:ireturn // the store backend is chosen at runtime from configuration.
func newSessionStore(cfg *config.AppConfig, client redis.UniversalClient, logger *slog.Logger) (ports.SessionStore, error) {
	switch cfg.Auth.SessionStore {
	case config.SessionStoreMemory:
		if !cfg.IsDev {
			logger.Warn("memory session store selected outside dev mode; sessions will not survive restarts")
		}
		return memory.NewSessionStore(), nil
	case config.SessionStoreRedis:
		if client == nil {
			return nil, errors.New("redis session store requires a redis client")
		}
		return redisstore.NewSessionStore(client), nil
	default:
		return nil, fmt.Errorf("unknown session store kind %q", cfg.Auth.SessionStore)
	}
}
