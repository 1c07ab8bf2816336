package careerservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	"github.com/google/uuid"
	careerdomain "github.com/hirelane/engage/app/modules/career/domain"
	careercharting "github.com/hirelane/engage/app/modules/career/infrastructure/charting"
	careerdb "github.com/hirelane/engage/app/modules/career/infrastructure/repositories"
	"github.com/hirelane/engage/app/observability"
	"github.com/hirelane/engage/app/shared"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

type scenarioResult = results.OperationResult[*careerdomain.Scenario, error]

// CareerService implements the Service interface.
type CareerService struct {
	repo   careerdb.Repository
	clock  shared.Clock
	config Config
	logger *slog.Logger
	ops    *shared.Operations
}

// NewCareerService creates a new CareerService.
func NewCareerService(
	repo careerdb.Repository,
	clock shared.Clock,
	cfg Config,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *CareerService {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = shared.SystemClock{}
	}
	if cfg.MaxDecisions <= 0 {
		cfg.MaxDecisions = 50
	}
	return &CareerService{
		repo:   repo,
		clock:  clock,
		config: cfg,
		logger: logger,
		ops: &shared.Operations{
			Service: "CareerService",
			Logger:  logger,
			Metrics: metrics,
			Tracer:  tracer,
			DB:      db,
		},
	}
}

// CreateScenario validates and stores a new scenario.
func (s *CareerService) CreateScenario(ctx context.Context, scenario careerdomain.Scenario) (*careerdomain.Scenario, error) {
	return shared.Run(s.ops, ctx, "CreateScenario", fmt.Sprintf("%d", scenario.UserID), func(ctx context.Context, db bun.IDB) (scenarioResult, error) {
		if err := scenario.Validate(); err != nil {
			return results.FailureResult[*careerdomain.Scenario, error](err), nil
		}
		if len(scenario.Decisions) > s.config.MaxDecisions {
			err := fmt.Errorf("%w: at most %d decisions are allowed", careerdomain.ErrInvalidScenario, s.config.MaxDecisions)
			return results.FailureResult[*careerdomain.Scenario, error](err), nil
		}
		if scenario.Decisions == nil {
			scenario.Decisions = []careerdomain.Decision{}
		}

		scenario.ID = uuid.New()
		scenario.CreatedAt = s.clock.Now()
		if err := s.repo.CreateScenario(ctx, db, &scenario); err != nil {
			return scenarioResult{}, shared.NewStorageError("CreateScenario", err)
		}

		s.logger.InfoContext(ctx, "Career scenario created",
			attr.String("scenario_id", scenario.ID.String()),
			attr.Int64("user_id", scenario.UserID),
			attr.Int("decisions", len(scenario.Decisions)),
		)
		return results.SuccessResult[*careerdomain.Scenario, error](&scenario), nil
	})
}

// GetScenario returns ErrScenarioNotFound for unknown ids.
func (s *CareerService) GetScenario(ctx context.Context, id uuid.UUID) (*careerdomain.Scenario, error) {
	return shared.Run(s.ops, ctx, "GetScenario", id.String(), func(ctx context.Context, db bun.IDB) (scenarioResult, error) {
		return s.loadScenario(ctx, db, id)
	})
}

func (s *CareerService) loadScenario(ctx context.Context, db bun.IDB, id uuid.UUID) (scenarioResult, error) {
	scenario, err := s.repo.GetScenario(ctx, db, id)
	if err != nil {
		if errors.Is(err, careerdb.ErrNotFound) {
			return results.FailureResult[*careerdomain.Scenario, error](careerdomain.ErrScenarioNotFound), nil
		}
		return scenarioResult{}, shared.NewStorageError("GetScenario", err)
	}
	return results.SuccessResult[*careerdomain.Scenario, error](scenario), nil
}

// ListScenarios returns the user's scenarios newest first.
func (s *CareerService) ListScenarios(ctx context.Context, userID int64) ([]careerdomain.Scenario, error) {
	return shared.Run(s.ops, ctx, "ListScenarios", fmt.Sprintf("%d", userID), func(ctx context.Context, db bun.IDB) (results.OperationResult[[]careerdomain.Scenario, error], error) {
		scenarios, err := s.repo.ListScenarios(ctx, db, userID)
		if err != nil {
			return results.OperationResult[[]careerdomain.Scenario, error]{}, shared.NewStorageError("ListScenarios", err)
		}
		return results.SuccessResult[[]careerdomain.Scenario, error](scenarios), nil
	})
}

// ProjectScenario loads a scenario and projects it.
func (s *CareerService) ProjectScenario(ctx context.Context, id uuid.UUID) (*ScenarioProjection, error) {
	return shared.Run(s.ops, ctx, "ProjectScenario", id.String(), func(ctx context.Context, db bun.IDB) (results.OperationResult[*ScenarioProjection, error], error) {
		return s.project(ctx, db, id)
	})
}

func (s *CareerService) project(ctx context.Context, db bun.IDB, id uuid.UUID) (results.OperationResult[*ScenarioProjection, error], error) {
	loaded, err := s.loadScenario(ctx, db, id)
	if err != nil {
		return results.OperationResult[*ScenarioProjection, error]{}, err
	}
	if loaded.IsFailure() {
		return results.FailureResult[*ScenarioProjection, error](*loaded.Failure), nil
	}

	scenario := *loaded.Success
	projection, err := careerdomain.Project(*scenario)
	if err != nil {
		return results.FailureResult[*ScenarioProjection, error](err), nil
	}
	return results.SuccessResult[*ScenarioProjection, error](&ScenarioProjection{Scenario: *scenario, Projection: projection}), nil
}

// ProjectionChart renders the scenario's projection.
func (s *CareerService) ProjectionChart(ctx context.Context, id uuid.UUID) (*ScenarioChart, error) {
	return shared.Run(s.ops, ctx, "ProjectionChart", id.String(), func(ctx context.Context, db bun.IDB) (results.OperationResult[*ScenarioChart, error], error) {
		projected, err := s.project(ctx, db, id)
		if err != nil {
			return results.OperationResult[*ScenarioChart, error]{}, err
		}
		if projected.IsFailure() {
			return results.FailureResult[*ScenarioChart, error](*projected.Failure), nil
		}

		p := *projected.Success
		png, err := careercharting.RenderProjection(p.Scenario, p.Projection, careercharting.Options{
			Width:  s.config.ChartWidth,
			Height: s.config.ChartHeight,
		})
		if err != nil {
			return results.OperationResult[*ScenarioChart, error]{}, err
		}
		return results.SuccessResult[*ScenarioChart, error](&ScenarioChart{UserID: p.Scenario.UserID, PNG: png}), nil
	})
}
