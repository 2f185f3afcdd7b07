package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"yatra-app-go/internal/config"
	"yatra-app-go/internal/db"
	authdomain "yatra-app-go/internal/domain/auth"
	memberdomain "yatra-app-go/internal/domain/member"
	receiverdomain "yatra-app-go/internal/domain/receiver"
	sessiondomain "yatra-app-go/internal/domain/session"
	"yatra-app-go/internal/metrics"
	"yatra-app-go/internal/repository/inmemory"
	memberrepo "yatra-app-go/internal/repository/postgres/member"
	receiverrepo "yatra-app-go/internal/repository/postgres/receiver"
	settingsrepo "yatra-app-go/internal/repository/postgres/settings"
	redisrepo "yatra-app-go/internal/repository/redis"
	"yatra-app-go/internal/transport/httpserver"
	"yatra-app-go/internal/transport/httpserver/handler"
	"yatra-app-go/pkg/logger"
)

const sessionSweepInterval = 5 * time.Minute

type App struct {
	cfg        config.Config
	log        logger.Logger
	httpServer *http.Server
	db         *gorm.DB
	redis      *goredis.Client
	registry   *memberdomain.Registry
	stopSweep  context.CancelFunc
}

func New(ctx context.Context, log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, log: log}

	log.Info("app: initializing database")
	a.db, err = db.NewPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if cfg.DB.AutoMigrate {
		log.Info("app: applying migrations")
		if err := db.Migrate(ctx, a.db); err != nil {
			return nil, a.closeOnError(fmt.Errorf("migrate: %w", err))
		}
	}

	log.Info("app: loading member registry")
	a.registry = memberdomain.NewRegistry(memberrepo.NewPostgres(a.db), log.With("component", "registry"))
	if err := a.registry.Load(ctx); err != nil {
		return nil, a.closeOnError(err)
	}

	authService := authdomain.NewService(authdomain.Credentials{
		OwnerID:     cfg.Auth.OwnerID,
		OwnerSecret: cfg.Auth.OwnerSecret,
		AdminID:     cfg.Auth.AdminID,
	}, settingsrepo.NewPostgres(a.db), a.registry, cfg.Auth.BcryptCost)

	seeded, err := authService.Bootstrap(ctx, cfg.Auth.AdminDefaultSecret)
	if err != nil {
		return nil, a.closeOnError(fmt.Errorf("bootstrap admin secret: %w", err))
	}
	if seeded {
		log.Warn("app: admin secret seeded from default, change it after first login")
	}

	store, err := a.sessionStore(ctx)
	if err != nil {
		return nil, a.closeOnError(err)
	}

	sessions, err := sessiondomain.NewManager(store, []byte(cfg.Auth.TokenSecret), cfg.Auth.SessionTTL)
	if err != nil {
		return nil, a.closeOnError(err)
	}
	if cfg.Env == "production" && cfg.Auth.TokenSecret == "change-me-in-production" {
		log.Warn("app: AUTH_TOKEN_SECRET is the development default")
	}

	receivers := receiverdomain.NewServiceWithCache(
		receiverrepo.NewPostgres(a.db),
		inmemory.NewReceiverCache(),
		cfg.ReceiversCacheTTL,
	)

	m := metrics.New()
	m.TrackMembers(a.registry.Len)

	log.Info("app: initializing router")
	handlers := handler.New(authService, sessions, a.registry, receivers, m, log.With("component", "http"))
	router := httpserver.NewRouter(cfg, handlers, log)

	log.Info("app: initializing http server")
	a.httpServer = httpserver.New(cfg, router, log)

	return a, nil
}

// sessionStore prefers redis so sessions survive restarts; without REDIS_URL
// sessions live in process memory and are swept periodically.
func (a *App) sessionStore(ctx context.Context) (sessiondomain.Store, error) {
	if a.cfg.Redis.URL != "" {
		a.log.Info("app: connecting to redis")
		client, err := redisrepo.Connect(ctx, a.cfg.Redis.URL)
		if err != nil {
			return nil, err
		}
		a.redis = client
		return redisrepo.NewSessionStore(client), nil
	}

	store := inmemory.NewSessionStore()
	sweepCtx, cancel := context.WithCancel(context.Background())
	a.stopSweep = cancel
	go a.sweepSessions(sweepCtx, store)
	return store, nil
}

func (a *App) sweepSessions(ctx context.Context, store *inmemory.SessionStore) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := store.Sweep(); removed > 0 {
				a.log.Debug("app: expired sessions swept", "count", removed)
			}
		}
	}
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.stopSweep != nil {
		a.stopSweep()
	}
	if a.registry != nil {
		a.registry.Close()
	}

	var errs []error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if a.db != nil {
		if err := db.Close(a.db); err != nil {
			errs = append(errs, fmt.Errorf("close db: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (a *App) closeOnError(err error) error {
	if closeErr := a.Close(); closeErr != nil {
		a.log.Error("app: cleanup after init failure", "err", closeErr)
	}
	return err
}
