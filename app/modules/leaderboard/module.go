package leaderboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/danielgtaylor/huma/v2"
	achievementdb "github.com/hirelane/engage/app/modules/achievement/infrastructure/repositories"
	leaderboardservice "github.com/hirelane/engage/app/modules/leaderboard/application"
	leaderboarddomain "github.com/hirelane/engage/app/modules/leaderboard/domain"
	leaderboardhandlers "github.com/hirelane/engage/app/modules/leaderboard/infrastructure/handlers"
	leaderboardqueue "github.com/hirelane/engage/app/modules/leaderboard/infrastructure/queue"
	leaderboarddb "github.com/hirelane/engage/app/modules/leaderboard/infrastructure/repositories"
	leaderboardrouter "github.com/hirelane/engage/app/modules/leaderboard/infrastructure/router"
	"github.com/hirelane/engage/app/observability"
	"github.com/hirelane/engage/app/shared"
	"github.com/hirelane/engage/config"
	"github.com/uptrace/bun"
)

// Module represents the leaderboard module.
type Module struct {
	LeaderboardService leaderboardservice.Service
	LeaderboardRouter  *leaderboardrouter.LeaderboardRouter
	QueueService       *leaderboardqueue.Service
	httpHandlers       leaderboardhandlers.HTTPHandlers
	cancelFunc         context.CancelFunc
	observability      observability.Observability
}

// NewLeaderboardModule creates and initializes a new leaderboard module.
// achievements is the achievement module's repository; scores are always
// derived from its records.
func NewLeaderboardModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	eventBus shared.EventBus,
	router *message.Router,
	db *bun.DB,
	achievements achievementdb.Repository,
) (*Module, error) {
	logger := obs.Logger
	tracer := obs.TracerFor("leaderboard")

	logger.InfoContext(ctx, "leaderboard.NewLeaderboardModule initializing")

	// 1. Resolve tier weights
	weights, err := leaderboarddomain.ParseTierWeights(cfg.Leaderboard.TierWeights)
	if err != nil {
		return nil, fmt.Errorf("invalid leaderboard tier weights: %w", err)
	}

	// 2. Initialize Repository
	repo := leaderboarddb.NewRepository(db)

	// 3. Initialize Service
	var metrics observability.OperationMetrics = obs.Metrics
	if obs.Metrics == nil {
		metrics = observability.NewNoopMetrics()
	}
	service := leaderboardservice.NewLeaderboardService(
		repo,
		achievements,
		weights,
		eventBus,
		shared.SystemClock{},
		leaderboardservice.Config{
			DefaultPageSize: cfg.Leaderboard.DefaultPageSize,
			MaxPageSize:     cfg.Leaderboard.MaxPageSize,
		},
		logger,
		metrics,
		tracer,
		db,
	)

	// 4. Initialize the ranking queue; refreshes run inline without it
	var queueService *leaderboardqueue.Service
	if cfg.Leaderboard.QueueEnabled {
		queueService, err = leaderboardqueue.NewService(ctx, cfg.Postgres.DSN, service, logger, metrics)
		if err != nil {
			return nil, fmt.Errorf("failed to create leaderboard queue service: %w", err)
		}
		service.UseScheduler(queueService)
	}

	// 5. Initialize Handlers
	eventHandlers := leaderboardhandlers.NewEventHandlers(service, logger, tracer)
	httpHandlers := leaderboardhandlers.NewHTTPHandlers(service, shared.SystemClock{}, logger)

	// 6. Configure the router with handlers
	leaderboardRouter := leaderboardrouter.NewLeaderboardRouter(logger, router, eventBus)
	if err := leaderboardRouter.Configure(ctx, eventHandlers); err != nil {
		return nil, fmt.Errorf("failed to configure leaderboard router: %w", err)
	}

	return &Module{
		LeaderboardService: service,
		LeaderboardRouter:  leaderboardRouter,
		QueueService:       queueService,
		httpHandlers:       httpHandlers,
		observability:      obs,
	}, nil
}

// RegisterAPI adds the leaderboard routes to api.
func (m *Module) RegisterAPI(api huma.API) {
	m.httpHandlers.Register(api)
}

// Run starts the leaderboard module and its queue workers.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting leaderboard module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if m.QueueService != nil {
		if err := m.QueueService.Start(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to start leaderboard queue service", "error", err)
		}
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Leaderboard module goroutine stopped")
}

// Close shuts down the leaderboard module.
func (m *Module) Close() error {
	logger := m.observability.Logger
	logger.Info("Stopping leaderboard module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if m.QueueService != nil {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := m.QueueService.Stop(stopCtx); err != nil {
			logger.Error("Error stopping leaderboard queue service", "error", err)
		}
	}

	if m.LeaderboardRouter != nil {
		if err := m.LeaderboardRouter.Close(); err != nil {
			logger.Error("Error closing LeaderboardRouter from module", "error", err)
			return fmt.Errorf("error closing LeaderboardRouter: %w", err)
		}
	}

	logger.Info("Leaderboard module stopped")
	return nil
}
