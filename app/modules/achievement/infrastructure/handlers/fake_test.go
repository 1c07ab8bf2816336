package achievementhandlers

import (
	"context"
	"sync"

	achievementdomain "github.com/hirelane/engage/app/modules/achievement/domain"
)

// FakeService is a programmable fake for achievementservice.Service.
type FakeService struct {
	mu    sync.Mutex
	trace []string

	EvaluateFunc                func(ctx context.Context, userID int64, category achievementdomain.CategoryID, value float64) (*achievementdomain.Record, error)
	GetUserAchievementsFunc     func(ctx context.Context, userID int64) ([]achievementdomain.Record, error)
	GetUserCategoryProgressFunc func(ctx context.Context, userID int64) ([]achievementdomain.Progress, error)
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

func (f *FakeService) Evaluate(ctx context.Context, userID int64, category achievementdomain.CategoryID, value float64) (*achievementdomain.Record, error) {
	f.record("Evaluate")
	if f.EvaluateFunc != nil {
		return f.EvaluateFunc(ctx, userID, category, value)
	}
	return nil, nil
}

func (f *FakeService) GetUserAchievements(ctx context.Context, userID int64) ([]achievementdomain.Record, error) {
	f.record("GetUserAchievements")
	if f.GetUserAchievementsFunc != nil {
		return f.GetUserAchievementsFunc(ctx, userID)
	}
	return nil, nil
}

func (f *FakeService) GetUserCategoryProgress(ctx context.Context, userID int64) ([]achievementdomain.Progress, error) {
	f.record("GetUserCategoryProgress")
	if f.GetUserCategoryProgressFunc != nil {
		return f.GetUserCategoryProgressFunc(ctx, userID)
	}
	return nil, nil
}

func (f *FakeService) ListCategories(_ context.Context) []achievementdomain.Category {
	f.record("ListCategories")
	return achievementdomain.DefaultCatalog().Categories()
}
