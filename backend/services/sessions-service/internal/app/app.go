package app

import (
	"context"
	"database/sql"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	libdb "github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/db"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/httpx"
	libredis "github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/redis"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/token"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/sessions-service/internal/board"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/sessions-service/internal/config"
	httpserver "github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/sessions-service/internal/http"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/sessions-service/internal/http/handlers"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/sessions-service/internal/pricing"
	redisstore "github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/sessions-service/internal/redis"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/sessions-service/internal/repository"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/sessions-service/internal/service"
)

// App wires sessions-service dependencies.
type App struct {
	server      *httpx.Server
	hub         *board.Hub
	relay       *redisstore.BoardRelay
	db          *sql.DB
	redisClient *redis.Client
	logger      *zap.Logger
}

// New constructs the application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{logger: logger}

	store, source, err := a.openStore(cfg)
	if err != nil {
		return nil, err
	}

	var cache pricing.Cache
	if cfg.RedisEnabled() {
		a.redisClient, err = libredis.NewRedisClient(libredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			a.Close()
			return nil, err
		}
		cache = redisstore.NewPricingCache(a.redisClient, cfg.Pricing.CacheTTL)
		a.relay = redisstore.NewBoardRelay(a.redisClient, logger)
	}

	a.hub = board.NewHub(logger)
	var notifier service.Notifier = a.hub
	if a.relay != nil {
		notifier = a.relay
	}

	catalog := pricing.NewCatalog(source, cache, logger)
	sessionsService := service.NewSessionsService(store, catalog, logger,
		service.WithNotifier(notifier),
		service.WithOperationTimeout(cfg.Operation.Timeout),
	)

	tokens := token.NewService(cfg.JWT.Secret, 0, 0)
	boardServer := board.NewServer(a.hub, tokens, cfg.Board.WriteTimeout, logger)
	sessionsHandler := handlers.NewSessionsHandler(sessionsService, logger)

	routes := httpserver.Routes{
		SessionStart:   sessionsHandler.Start,
		SessionPlayers: sessionsHandler.Players,
		SessionEnd:     sessionsHandler.End,
		SessionGet:     sessionsHandler.Get,
		PaymentCreate:  sessionsHandler.Pay,
		PaymentsToday:  sessionsHandler.PaymentsToday,
		Dashboard:      sessionsHandler.Dashboard,
		Board:          boardServer.HandleWS,
		Health:         handlers.NewHealthHandler(),
	}

	router := httpserver.NewRouter(routes)
	a.server = httpx.NewServer(cfg.HTTPAddress(), router, logger)
	return a, nil
}

func (a *App) openStore(cfg *config.Config) (repository.Store, repository.PricingSource, error) {
	if cfg.Storage.Driver == config.DriverMemory {
		store := repository.NewMemoryStore()
		if cfg.Storage.SeedFile != "" {
			seed, err := repository.LoadSeedFile(cfg.Storage.SeedFile)
			if err != nil {
				return nil, nil, err
			}
			if err := seed.Apply(store); err != nil {
				return nil, nil, err
			}
		}
		a.logger.Info("using in-memory storage", zap.String("seed_file", cfg.Storage.SeedFile))
		return store, store, nil
	}

	sqlDB, err := libdb.NewPostgresDB(cfg.Database.DSN)
	if err != nil {
		return nil, nil, err
	}
	a.db = sqlDB
	return repository.NewPostgresStore(sqlDB), repository.NewPricingRepository(sqlDB), nil
}

// Run starts the HTTP server and, with redis, the board relay subscriber.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.server.Run(ctx)
	})
	if a.relay != nil {
		g.Go(func() error {
			return a.relay.Run(ctx, a.hub.Deliver)
		})
	}
	return g.Wait()
}

// Close releases resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
