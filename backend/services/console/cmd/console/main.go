package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/logging"
	app "github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/console/internal/app"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/console/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.NewLogger("console")
	if err != nil {
		panic(err)
	}
	defer logger.Sync() // best-effort flush

	fmt.Fprintf(os.Stdout, "connected to %s, type help for commands\n", cfg.Gateway.URL)
	if err := app.New(cfg, os.Stdin, os.Stdout, logger).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("console stopped with error", zap.Error(err))
	}
}
