package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/httpx"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/token"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/api-gateway/internal/clients"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/api-gateway/internal/config"
	httpserver "github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/api-gateway/internal/http"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/api-gateway/internal/http/handlers"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/api-gateway/internal/http/middleware"
)

// App wires API gateway dependencies.
type App struct {
	server *httpx.Server
	logger *zap.Logger
}

// New constructs application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	httpClient := clients.NewDefaultHTTPClient(cfg.HTTPTimeout())

	authClient := clients.NewAuthClient(cfg.Services.AuthURL, httpClient)
	sessionsClient := clients.NewSessionsClient(cfg.Services.SessionsURL, httpClient)

	tokens := token.NewService(cfg.JWT.Secret, 0, 0)
	limiter := middleware.NewRateLimiter(cfg.Login.RatePerSecond, cfg.Login.Burst)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		AuthHandlers:  handlers.NewAuthHandlers(authClient, logger),
		StaffHandlers: handlers.NewStaffHandlers(sessionsClient, logger),
		HealthHandler: handlers.NewHealthHandler(),
		Auth:          middleware.AuthMiddleware(tokens),
		LoginLimiter:  limiter.Middleware,
	})

	handler := middleware.Chain(router,
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
	)

	return &App{
		server: httpx.NewServer(cfg.HTTPAddress(), handler, logger),
		logger: logger,
	}, nil
}

// Run starts serving HTTP traffic.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases resources (none yet).
func (a *App) Close() {}
