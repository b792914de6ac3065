package app

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	libdb "github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/db"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/httpx"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/token"
	appconfig "github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/auth-service/internal/config"
	httpserver "github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/auth-service/internal/http"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/auth-service/internal/http/handlers"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/auth-service/internal/pin"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/auth-service/internal/repository"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/auth-service/internal/service"
)

// App wires dependencies for the auth service.
type App struct {
	server *httpx.Server
	db     *sql.DB
	logger *zap.Logger
}

// New builds application graph.
func New(cfg *appconfig.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := libdb.NewPostgresDB(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	accounts := repository.NewAccountRepository(sqlDB)
	hasher := pin.NewBcryptHasher(cfg.BcryptCost)
	tokens := token.NewService(cfg.JWT.Secret, cfg.JWTExpiration(), cfg.StaffTokenExpiration())
	authSvc := service.NewAuthService(accounts, hasher, tokens, logger)

	routes := httpserver.Routes{
		Register:   handlers.NewRegisterHandler(authSvc, logger),
		Login:      handlers.NewLoginHandler(authSvc, logger),
		AssumeRole: handlers.NewAssumeRoleHandler(authSvc, logger),
		Health:     handlers.NewHealthHandler(),
	}

	router := httpserver.NewRouter(routes)
	server := httpx.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server: server,
		db:     sqlDB,
		logger: logger,
	}, nil
}

// Run starts serving HTTP traffic until context cancellation.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
