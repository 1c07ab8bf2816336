package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
)

// Start runs the message router, the modules and the HTTP server until ctx
// is cancelled, then shuts everything down.
func (app *App) Start(ctx context.Context) error {
	logger := app.Observability.Logger

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	routerErr := make(chan error, 1)
	go func() {
		routerErr <- app.Router.Run(ctx)
	}()
	select {
	case <-app.Router.Running():
		logger.InfoContext(ctx, "Message router running")
	case err := <-routerErr:
		return fmt.Errorf("message router stopped during startup: %w", err)
	}

	var wg sync.WaitGroup
	modules := []interface {
		Run(context.Context, *sync.WaitGroup)
	}{app.AuthModule, app.AchievementModule, app.LeaderboardModule, app.CareerModule}
	wg.Add(len(modules))
	for _, m := range modules {
		go m.Run(ctx, &wg)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "Starting HTTP server", slog.String("address", app.server.Addr))
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			runErr = fmt.Errorf("http server failed: %w", err)
		}
	case err := <-routerErr:
		if err != nil {
			runErr = fmt.Errorf("message router failed: %w", err)
		}
	}

	cancel()
	app.Shutdown()
	wg.Wait()
	return runErr
}

// Shutdown stops the HTTP server, modules, router and connections within the
// configured grace period.
func (app *App) Shutdown() {
	logger := app.Observability.Logger
	ctx, cancel := context.WithTimeout(context.Background(), app.Config.ShutdownTimeout())
	defer cancel()

	logger.Info("Shutting down application")

	if app.server != nil {
		if err := app.server.Shutdown(ctx); err != nil {
			logger.Error("Error shutting down HTTP server", slog.Any("error", err))
		}
	}

	for name, m := range map[string]interface{ Close() error }{
		"auth":        app.AuthModule,
		"achievement": app.AchievementModule,
		"leaderboard": app.LeaderboardModule,
		"career":      app.CareerModule,
	} {
		if err := m.Close(); err != nil {
			logger.Error("Error closing module", slog.String("module", name), slog.Any("error", err))
		}
	}

	app.closeInfra(ctx)
	logger.Info("Application stopped")
}
