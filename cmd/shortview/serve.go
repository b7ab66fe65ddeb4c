package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-shortview/internal/config"
	"go-shortview/internal/infra/eventbus"
	"go-shortview/internal/notify"
	"go-shortview/internal/tracking/jobs"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the tracking endpoints and the management API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.serve(cmd.Context())
		},
	}
}

func (c *cli) serve(ctx context.Context) error {
	a, cleanup, err := initApp(c.cfg, c.logger)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer cleanup()

	return a.run(ctx)
}

// app is the long-running server process.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	server  *http.Server
	bus     *eventbus.EventBus
	events  *eventbus.Router
	sweeper *jobs.Sweeper
}

func newApp(
	cfg *config.Config,
	logger *zap.Logger,
	handler http.Handler,
	bus *eventbus.EventBus,
	events *eventbus.Router,
	mailer *notify.MailHandler,
	sweeper *jobs.Sweeper,
) *app {
	events.AddHandler(mailer)

	return &app{
		cfg:    cfg,
		logger: logger,
		server: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		bus:     bus,
		events:  events,
		sweeper: sweeper,
	}
}

func (a *app) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The bus drops messages published before its subscribers exist.
	routerErr := make(chan error, 1)
	go func() {
		routerErr <- a.events.Run(ctx)
	}()
	select {
	case <-a.events.Running():
	case err := <-routerErr:
		return fmt.Errorf("event router: %w", err)
	}
	defer a.closeBus()

	if a.cfg.MainWorker {
		if err := a.sweeper.Start(ctx); err != nil {
			return fmt.Errorf("start sweeper: %w", err)
		}
		defer a.sweeper.Stop()
	} else {
		a.logger.Info("not the main worker, sweeper disabled")
	}

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Info("server starting",
			zap.String("addr", a.server.Addr),
			zap.String("public_url", a.cfg.Site().BaseURL()),
			zap.String("database_driver", a.cfg.DatabaseDriver),
			zap.Int("api_rate_limit", a.cfg.APIRateLimit),
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	a.logger.Info("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	a.logger.Info("server stopped")
	return nil
}

func (a *app) closeBus() {
	if err := a.events.Close(); err != nil {
		a.logger.Error("failed to close event router", zap.Error(err))
	}
	if err := a.bus.Close(); err != nil {
		a.logger.Error("failed to close event bus", zap.Error(err))
	}

	stats := a.events.Stats()
	a.logger.Info("notification delivery",
		zap.Uint64("delivered", stats.Delivered),
		zap.Uint64("failed", stats.Failed),
	)
}
