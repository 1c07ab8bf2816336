package achievementservice

import (
	"context"

	achievementdomain "github.com/hirelane/engage/app/modules/achievement/domain"
)

// Service evaluates metrics into achievement tiers and serves achievement
// queries.
type Service interface {
	// Evaluate returns the newly unlocked record, or nil when nothing new
	// qualifies or the tier is already recorded.
	Evaluate(ctx context.Context, userID int64, category achievementdomain.CategoryID, value float64) (*achievementdomain.Record, error)
	GetUserAchievements(ctx context.Context, userID int64) ([]achievementdomain.Record, error)
	GetUserCategoryProgress(ctx context.Context, userID int64) ([]achievementdomain.Progress, error)
	ListCategories(ctx context.Context) []achievementdomain.Category
}
