package achievement

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/danielgtaylor/huma/v2"
	achievementservice "github.com/hirelane/engage/app/modules/achievement/application"
	achievementdomain "github.com/hirelane/engage/app/modules/achievement/domain"
	achievementhandlers "github.com/hirelane/engage/app/modules/achievement/infrastructure/handlers"
	achievementdb "github.com/hirelane/engage/app/modules/achievement/infrastructure/repositories"
	achievementrouter "github.com/hirelane/engage/app/modules/achievement/infrastructure/router"
	"github.com/hirelane/engage/app/observability"
	"github.com/hirelane/engage/app/shared"
	"github.com/hirelane/engage/config"
	"github.com/uptrace/bun"
)

// Module represents the achievement module.
type Module struct {
	AchievementService achievementservice.Service
	Repository         achievementdb.Repository
	AchievementRouter  *achievementrouter.AchievementRouter
	httpHandlers       achievementhandlers.HTTPHandlers
	cancelFunc         context.CancelFunc
	observability      observability.Observability
}

// NewAchievementModule creates and initializes a new achievement module.
func NewAchievementModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	eventBus shared.EventBus,
	router *message.Router,
	db *bun.DB,
) (*Module, error) {
	logger := obs.Logger
	tracer := obs.TracerFor("achievement")

	logger.InfoContext(ctx, "achievement.NewAchievementModule initializing")

	// 1. Build the catalog, applying configured threshold overrides
	catalog := achievementdomain.DefaultCatalog()
	if len(cfg.Achievements.Thresholds) > 0 {
		overrides, err := achievementdomain.ParseOverrides(cfg.Achievements.Thresholds)
		if err != nil {
			return nil, fmt.Errorf("invalid achievement thresholds: %w", err)
		}
		catalog, err = catalog.WithOverrides(overrides)
		if err != nil {
			return nil, fmt.Errorf("invalid achievement thresholds: %w", err)
		}
	}

	// 2. Initialize Repository
	repo := achievementdb.NewRepository(db)

	// 3. Initialize Service
	var metrics observability.OperationMetrics = obs.Metrics
	if obs.Metrics == nil {
		metrics = observability.NewNoopMetrics()
	}
	service := achievementservice.NewAchievementService(repo, catalog, eventBus, shared.SystemClock{}, logger, metrics, tracer, db)

	// 4. Initialize Handlers
	eventHandlers := achievementhandlers.NewEventHandlers(service, logger, tracer)
	httpHandlers := achievementhandlers.NewHTTPHandlers(service, logger)

	// 5. Configure the router with handlers
	achievementRouter := achievementrouter.NewAchievementRouter(logger, router, eventBus)
	if err := achievementRouter.Configure(ctx, eventHandlers); err != nil {
		return nil, fmt.Errorf("failed to configure achievement router: %w", err)
	}

	return &Module{
		AchievementService: service,
		Repository:         repo,
		AchievementRouter:  achievementRouter,
		httpHandlers:       httpHandlers,
		observability:      obs,
	}, nil
}

// RegisterAPI adds the achievement routes to api.
func (m *Module) RegisterAPI(api huma.API) {
	m.httpHandlers.Register(api)
}

// Run starts the achievement module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting achievement module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Achievement module goroutine stopped")
}

// Close shuts down the achievement module.
func (m *Module) Close() error {
	logger := m.observability.Logger
	logger.Info("Stopping achievement module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if m.AchievementRouter != nil {
		if err := m.AchievementRouter.Close(); err != nil {
			logger.Error("Error closing AchievementRouter from module", "error", err)
			return fmt.Errorf("error closing AchievementRouter: %w", err)
		}
	}

	logger.Info("Achievement module stopped")
	return nil
}
