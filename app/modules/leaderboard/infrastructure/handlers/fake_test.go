package leaderboardhandlers

import (
	"context"
	"sync"

	leaderboardservice "github.com/hirelane/engage/app/modules/leaderboard/application"
	leaderboarddomain "github.com/hirelane/engage/app/modules/leaderboard/domain"
)

// FakeService is a programmable fake for leaderboardservice.Service.
type FakeService struct {
	mu    sync.Mutex
	trace []string

	RecomputeUserScoreFunc    func(ctx context.Context, userID int64) (map[int64]leaderboarddomain.Entry, error)
	RefreshRankingFunc        func(ctx context.Context, leaderboardID int64) error
	EnqueueRefreshFunc        func(ctx context.Context, leaderboardID int64) error
	SyncUserFunc              func(ctx context.Context, userID int64) (map[int64]leaderboarddomain.Entry, error)
	RebuildFunc               func(ctx context.Context) (int, error)
	GetLeaderboardEntriesFunc func(ctx context.Context, leaderboardID int64, limit, offset int) ([]leaderboarddomain.Entry, error)
	GetUserStandingsFunc      func(ctx context.Context, userID int64) ([]leaderboardservice.Standing, error)
	CreateDefinitionFunc      func(ctx context.Context, def leaderboarddomain.Definition) (*leaderboarddomain.Definition, error)
	SetDefinitionActiveFunc   func(ctx context.Context, leaderboardID int64, active bool) (*leaderboarddomain.Definition, error)
	ListDefinitionsFunc       func(ctx context.Context, activeOnly bool) ([]leaderboarddomain.Definition, error)
	ExportLeaderboardFunc     func(ctx context.Context, leaderboardID int64) ([]byte, error)
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

func (f *FakeService) RecomputeUserScore(ctx context.Context, userID int64) (map[int64]leaderboarddomain.Entry, error) {
	f.record("RecomputeUserScore")
	if f.RecomputeUserScoreFunc != nil {
		return f.RecomputeUserScoreFunc(ctx, userID)
	}
	return nil, nil
}

func (f *FakeService) RefreshRanking(ctx context.Context, leaderboardID int64) error {
	f.record("RefreshRanking")
	if f.RefreshRankingFunc != nil {
		return f.RefreshRankingFunc(ctx, leaderboardID)
	}
	return nil
}

func (f *FakeService) EnqueueRefresh(ctx context.Context, leaderboardID int64) error {
	f.record("EnqueueRefresh")
	if f.EnqueueRefreshFunc != nil {
		return f.EnqueueRefreshFunc(ctx, leaderboardID)
	}
	return nil
}

func (f *FakeService) SyncUser(ctx context.Context, userID int64) (map[int64]leaderboarddomain.Entry, error) {
	f.record("SyncUser")
	if f.SyncUserFunc != nil {
		return f.SyncUserFunc(ctx, userID)
	}
	return nil, nil
}

func (f *FakeService) Rebuild(ctx context.Context) (int, error) {
	f.record("Rebuild")
	if f.RebuildFunc != nil {
		return f.RebuildFunc(ctx)
	}
	return 0, nil
}

func (f *FakeService) GetLeaderboardEntries(ctx context.Context, leaderboardID int64, limit, offset int) ([]leaderboarddomain.Entry, error) {
	f.record("GetLeaderboardEntries")
	if f.GetLeaderboardEntriesFunc != nil {
		return f.GetLeaderboardEntriesFunc(ctx, leaderboardID, limit, offset)
	}
	return nil, nil
}

func (f *FakeService) GetUserStandings(ctx context.Context, userID int64) ([]leaderboardservice.Standing, error) {
	f.record("GetUserStandings")
	if f.GetUserStandingsFunc != nil {
		return f.GetUserStandingsFunc(ctx, userID)
	}
	return nil, nil
}

func (f *FakeService) CreateDefinition(ctx context.Context, def leaderboarddomain.Definition) (*leaderboarddomain.Definition, error) {
	f.record("CreateDefinition")
	if f.CreateDefinitionFunc != nil {
		return f.CreateDefinitionFunc(ctx, def)
	}
	return &def, nil
}

func (f *FakeService) SetDefinitionActive(ctx context.Context, leaderboardID int64, active bool) (*leaderboarddomain.Definition, error) {
	f.record("SetDefinitionActive")
	if f.SetDefinitionActiveFunc != nil {
		return f.SetDefinitionActiveFunc(ctx, leaderboardID, active)
	}
	return &leaderboarddomain.Definition{ID: leaderboardID, Active: active}, nil
}

func (f *FakeService) ListDefinitions(ctx context.Context, activeOnly bool) ([]leaderboarddomain.Definition, error) {
	f.record("ListDefinitions")
	if f.ListDefinitionsFunc != nil {
		return f.ListDefinitionsFunc(ctx, activeOnly)
	}
	return nil, nil
}

func (f *FakeService) ExportLeaderboard(ctx context.Context, leaderboardID int64) ([]byte, error) {
	f.record("ExportLeaderboard")
	if f.ExportLeaderboardFunc != nil {
		return f.ExportLeaderboardFunc(ctx, leaderboardID)
	}
	return nil, nil
}

var _ leaderboardservice.Service = (*FakeService)(nil)
