package app

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/identity"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/token"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/console/internal/config"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/console/internal/gateway"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/console/internal/repl"
)

// App wires console dependencies.
type App struct {
	repl   *repl.REPL
	in     io.Reader
	logger *zap.Logger
}

// New constructs the console. The gateway verifies signatures, so tokens are only read here.
func New(cfg *config.Config, in io.Reader, out io.Writer, logger *zap.Logger) *App {
	client := gateway.NewClient(cfg.Gateway.URL, cfg.HTTP.Timeout)
	ident := identity.New(token.UnverifiedDecoder{}, client)
	return &App{
		repl:   repl.New(ident, client, out, logger),
		in:     in,
		logger: logger,
	}
}

// Run drives the REPL until input ends or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.logger.Debug("console started")
	return a.repl.Run(ctx, a.in)
}
