package careerservice

import (
	"context"

	"github.com/google/uuid"
	careerdomain "github.com/hirelane/engage/app/modules/career/domain"
)

// Service stores career scenarios and projects their salary outcome.
type Service interface {
	CreateScenario(ctx context.Context, scenario careerdomain.Scenario) (*careerdomain.Scenario, error)
	GetScenario(ctx context.Context, id uuid.UUID) (*careerdomain.Scenario, error)
	ListScenarios(ctx context.Context, userID int64) ([]careerdomain.Scenario, error)
	ProjectScenario(ctx context.Context, id uuid.UUID) (*ScenarioProjection, error)
	// ProjectionChart renders the projection as a PNG image.
	ProjectionChart(ctx context.Context, id uuid.UUID) (*ScenarioChart, error)
}

// ScenarioProjection pairs a scenario with its projection.
type ScenarioProjection struct {
	Scenario   careerdomain.Scenario   `json:"scenario"`
	Projection careerdomain.Projection `json:"projection"`
}

// ScenarioChart is a rendered projection chart and the owner of the scenario.
type ScenarioChart struct {
	UserID int64
	PNG    []byte
}

// Config holds chart sizing and input limits.
type Config struct {
	ChartWidth   int
	ChartHeight  int
	MaxDecisions int
}
