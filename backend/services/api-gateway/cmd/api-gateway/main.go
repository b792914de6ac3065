package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/logging"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/api-gateway/internal/app"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/api-gateway/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.NewLogger("api-gateway")
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("starting api gateway",
		zap.String("port", cfg.HTTP.Port),
		zap.String("auth_url", cfg.Services.AuthURL),
		zap.String("sessions_url", cfg.Services.SessionsURL),
	)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to init api gateway", zap.Error(err))
	}

	if err := application.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("gateway stopped with error", zap.Error(err))
	}
}

