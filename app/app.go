package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/hirelane/engage/app/modules/achievement"
	"github.com/hirelane/engage/app/modules/auth"
	"github.com/hirelane/engage/app/modules/career"
	"github.com/hirelane/engage/app/modules/leaderboard"
	"github.com/hirelane/engage/app/observability"
	"github.com/hirelane/engage/app/shared"
	"github.com/hirelane/engage/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// App holds the process-wide dependencies and the modules built on them.
type App struct {
	Config        *config.Config
	Observability observability.Observability
	DB            *bun.DB
	EventBus      shared.EventBus
	Router        *message.Router
	Notifier      *shared.Notifier

	AuthModule        *auth.Module
	AchievementModule *achievement.Module
	LeaderboardModule *leaderboard.Module
	CareerModule      *career.Module

	server *http.Server
}

// NewApp connects to the database, builds the event bus and initializes
// every module. Nothing runs until Start is called.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	obs := observability.New(cfg.Observability)
	logger := obs.Logger

	app := &App{Config: cfg, Observability: obs}

	// 1. Database
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	app.DB = bun.NewDB(sqldb, pgdialect.New())
	if err := app.DB.PingContext(ctx); err != nil {
		_ = app.DB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.InfoContext(ctx, "Database connection established")

	// 2. Event bus and router
	app.EventBus = shared.NewEventBus(logger)
	router, err := shared.NewRouter(logger)
	if err != nil {
		app.closeInfra(ctx)
		return nil, err
	}
	app.Router = router

	// 3. Outbound notifications
	if cfg.NATS.URL != "" {
		notifier, err := shared.NewNotifier(cfg.NATS, logger)
		if err != nil {
			app.closeInfra(ctx)
			return nil, fmt.Errorf("failed to connect notifier: %w", err)
		}
		notifier.Register(router, app.EventBus)
		app.Notifier = notifier
	} else {
		logger.WarnContext(ctx, "NATS URL not configured, achievement notifications are disabled")
	}

	// 4. Modules
	if err := app.initializeModules(ctx); err != nil {
		app.closeInfra(ctx)
		return nil, err
	}

	// 5. HTTP
	app.server = &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           app.newHTTPHandler(),
		ReadHeaderTimeout: httpReadHeaderTimeout,
	}

	return app, nil
}

func (app *App) initializeModules(ctx context.Context) error {
	obs := app.Observability
	var err error

	if app.AuthModule, err = auth.NewModule(ctx, app.Config, obs.Logger); err != nil {
		return fmt.Errorf("failed to initialize auth module: %w", err)
	}

	app.AchievementModule, err = achievement.NewAchievementModule(ctx, app.Config, obs, app.EventBus, app.Router, app.DB)
	if err != nil {
		return fmt.Errorf("failed to initialize achievement module: %w", err)
	}

	app.LeaderboardModule, err = leaderboard.NewLeaderboardModule(ctx, app.Config, obs, app.EventBus, app.Router, app.DB, app.AchievementModule.Repository)
	if err != nil {
		return fmt.Errorf("failed to initialize leaderboard module: %w", err)
	}

	if app.CareerModule, err = career.NewCareerModule(ctx, app.Config, obs, app.DB); err != nil {
		return fmt.Errorf("failed to initialize career module: %w", err)
	}

	obs.Logger.InfoContext(ctx, "All modules initialized")
	return nil
}

// closeInfra releases what NewApp opened before modules existed.
func (app *App) closeInfra(ctx context.Context) {
	logger := app.Observability.Logger
	if app.Router != nil {
		if err := app.Router.Close(); err != nil {
			logger.Error("Error closing message router", slog.Any("error", err))
		}
	}
	if app.Notifier != nil {
		if err := app.Notifier.Close(ctx); err != nil {
			logger.Error("Error closing notifier", slog.Any("error", err))
		}
	}
	if app.EventBus != nil {
		if err := app.EventBus.Close(); err != nil {
			logger.Error("Error closing event bus", slog.Any("error", err))
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			logger.Error("Error closing database", slog.Any("error", err))
		}
	}
}
