package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/logging"
	app "github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/auth-service/internal/app"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/auth-service/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.NewLogger("auth-service")
	if err != nil {
		panic(err)
	}
	defer logger.Sync() // best-effort flush

	logger.Info("starting auth service",
		zap.String("port", cfg.HTTP.Port),
		zap.Int("owner_token_minutes", cfg.JWT.ExpiresInMinutes),
		zap.Int("staff_token_minutes", cfg.JWT.StaffExpiresInMinutes),
	)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize auth service", zap.Error(err))
	}
	defer application.Close()

	if err := application.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("auth service stopped with error", zap.Error(err))
	}
}

