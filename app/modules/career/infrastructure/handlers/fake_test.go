package careerhandlers

import (
	"context"
	"sync"

	"github.com/google/uuid"
	careerservice "github.com/hirelane/engage/app/modules/career/application"
	careerdomain "github.com/hirelane/engage/app/modules/career/domain"
)

// FakeService is a programmable fake for careerservice.Service.
type FakeService struct {
	mu    sync.Mutex
	trace []string

	CreateScenarioFunc  func(ctx context.Context, scenario careerdomain.Scenario) (*careerdomain.Scenario, error)
	GetScenarioFunc     func(ctx context.Context, id uuid.UUID) (*careerdomain.Scenario, error)
	ListScenariosFunc   func(ctx context.Context, userID int64) ([]careerdomain.Scenario, error)
	ProjectScenarioFunc func(ctx context.Context, id uuid.UUID) (*careerservice.ScenarioProjection, error)
	ProjectionChartFunc func(ctx context.Context, id uuid.UUID) (*careerservice.ScenarioChart, error)
}

func (f *FakeService) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

// Trace returns the order of calls made to the fake.
func (f *FakeService) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeService) CreateScenario(ctx context.Context, scenario careerdomain.Scenario) (*careerdomain.Scenario, error) {
	f.record("CreateScenario")
	if f.CreateScenarioFunc != nil {
		return f.CreateScenarioFunc(ctx, scenario)
	}
	scenario.ID = uuid.New()
	return &scenario, nil
}

func (f *FakeService) GetScenario(ctx context.Context, id uuid.UUID) (*careerdomain.Scenario, error) {
	f.record("GetScenario")
	if f.GetScenarioFunc != nil {
		return f.GetScenarioFunc(ctx, id)
	}
	return nil, careerdomain.ErrScenarioNotFound
}

func (f *FakeService) ListScenarios(ctx context.Context, userID int64) ([]careerdomain.Scenario, error) {
	f.record("ListScenarios")
	if f.ListScenariosFunc != nil {
		return f.ListScenariosFunc(ctx, userID)
	}
	return nil, nil
}

func (f *FakeService) ProjectScenario(ctx context.Context, id uuid.UUID) (*careerservice.ScenarioProjection, error) {
	f.record("ProjectScenario")
	if f.ProjectScenarioFunc != nil {
		return f.ProjectScenarioFunc(ctx, id)
	}
	return nil, careerdomain.ErrScenarioNotFound
}

func (f *FakeService) ProjectionChart(ctx context.Context, id uuid.UUID) (*careerservice.ScenarioChart, error) {
	f.record("ProjectionChart")
	if f.ProjectionChartFunc != nil {
		return f.ProjectionChartFunc(ctx, id)
	}
	return nil, careerdomain.ErrScenarioNotFound
}

var _ careerservice.Service = (*FakeService)(nil)
