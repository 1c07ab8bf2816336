package careerservice

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	careerdomain "github.com/hirelane/engage/app/modules/career/domain"
	careerdb "github.com/hirelane/engage/app/modules/career/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// FakeCareerRepo keeps scenarios in memory.
type FakeCareerRepo struct {
	mu        sync.Mutex
	trace     []string
	scenarios map[uuid.UUID]careerdomain.Scenario

	CreateScenarioFunc func(ctx context.Context, db bun.IDB, scenario *careerdomain.Scenario) error
	GetScenarioFunc    func(ctx context.Context, db bun.IDB, id uuid.UUID) (*careerdomain.Scenario, error)
	ListScenariosFunc  func(ctx context.Context, db bun.IDB, userID int64) ([]careerdomain.Scenario, error)
}

func NewFakeCareerRepo() *FakeCareerRepo {
	return &FakeCareerRepo{trace: []string{}, scenarios: map[uuid.UUID]careerdomain.Scenario{}}
}

func (f *FakeCareerRepo) record(step string) {
	f.mu.Lock()
	f.trace = append(f.trace, step)
	f.mu.Unlock()
}

// Trace returns the order of calls made to the fake.
func (f *FakeCareerRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeCareerRepo) CreateScenario(ctx context.Context, db bun.IDB, scenario *careerdomain.Scenario) error {
	f.record("CreateScenario")
	if f.CreateScenarioFunc != nil {
		return f.CreateScenarioFunc(ctx, db, scenario)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scenarios[scenario.ID] = *scenario
	return nil
}

func (f *FakeCareerRepo) GetScenario(ctx context.Context, db bun.IDB, id uuid.UUID) (*careerdomain.Scenario, error) {
	f.record("GetScenario")
	if f.GetScenarioFunc != nil {
		return f.GetScenarioFunc(ctx, db, id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.scenarios[id]
	if !ok {
		return nil, careerdb.ErrNotFound
	}
	return &s, nil
}

func (f *FakeCareerRepo) ListScenarios(ctx context.Context, db bun.IDB, userID int64) ([]careerdomain.Scenario, error) {
	f.record("ListScenarios")
	if f.ListScenariosFunc != nil {
		return f.ListScenariosFunc(ctx, db, userID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []careerdomain.Scenario
	for _, s := range f.scenarios {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

var _ careerdb.Repository = (*FakeCareerRepo)(nil)
