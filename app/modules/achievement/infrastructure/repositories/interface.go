package achievementdb

import (
	"context"

	achievementdomain "github.com/hirelane/engage/app/modules/achievement/domain"
	"github.com/uptrace/bun"
)

// Repository defines the contract for achievement persistence.
type Repository interface {
	// LockUserCategory takes a transaction-scoped advisory lock on
	// (userID, category). It is released when the transaction ends.
	LockUserCategory(ctx context.Context, db bun.IDB, userID int64, category achievementdomain.CategoryID) error

	// FindAchievements returns the user's records oldest first, optionally
	// restricted to one category.
	FindAchievements(ctx context.Context, db bun.IDB, userID int64, category *achievementdomain.CategoryID) ([]achievementdomain.Record, error)

	// InsertAchievement appends a record and fills its ID and UnlockedAt.
	// Returns ErrConflict when the tier is already recorded.
	InsertAchievement(ctx context.Context, db bun.IDB, record *achievementdomain.Record) error

	// ListUserIDs returns every user with at least one record.
	ListUserIDs(ctx context.Context, db bun.IDB) ([]int64, error)
}
