package career

import (
	"context"
	"sync"

	"github.com/danielgtaylor/huma/v2"
	careerservice "github.com/hirelane/engage/app/modules/career/application"
	careerhandlers "github.com/hirelane/engage/app/modules/career/infrastructure/handlers"
	careerdb "github.com/hirelane/engage/app/modules/career/infrastructure/repositories"
	"github.com/hirelane/engage/app/observability"
	"github.com/hirelane/engage/app/shared"
	"github.com/hirelane/engage/config"
	"github.com/uptrace/bun"
)

// Module represents the career projection module. It has no event
// subscriptions; everything is served over HTTP.
type Module struct {
	CareerService careerservice.Service
	httpHandlers  careerhandlers.HTTPHandlers
	cancelFunc    context.CancelFunc
	observability observability.Observability
}

// NewCareerModule creates and initializes a new career module.
func NewCareerModule(ctx context.Context, cfg *config.Config, obs observability.Observability, db *bun.DB) (*Module, error) {
	logger := obs.Logger
	tracer := obs.TracerFor("career")

	logger.InfoContext(ctx, "career.NewCareerModule initializing")

	// 1. Initialize Repository
	repo := careerdb.NewRepository(db)

	// 2. Initialize Service
	var metrics observability.OperationMetrics = obs.Metrics
	if obs.Metrics == nil {
		metrics = observability.NewNoopMetrics()
	}
	service := careerservice.NewCareerService(repo, shared.SystemClock{}, careerservice.Config{
		ChartWidth:   cfg.Career.ChartWidth,
		ChartHeight:  cfg.Career.ChartHeight,
		MaxDecisions: cfg.Career.MaxDecisions,
	}, logger, metrics, tracer, db)

	// 3. Initialize Handlers
	httpHandlers := careerhandlers.NewHTTPHandlers(service, logger)

	return &Module{
		CareerService: service,
		httpHandlers:  httpHandlers,
		observability: obs,
	}, nil
}

// RegisterAPI adds the career routes to api.
func (m *Module) RegisterAPI(api huma.API) {
	m.httpHandlers.Register(api)
}

// Run blocks until ctx is cancelled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting career module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Career module goroutine stopped")
}

// Close shuts down the career module.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.observability.Logger.Info("Career module stopped")
	return nil
}
