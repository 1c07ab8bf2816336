package leaderboarddb

import (
	"context"
	"time"

	leaderboarddomain "github.com/hirelane/engage/app/modules/leaderboard/domain"
	"github.com/uptrace/bun"
)

// Repository defines the contract for leaderboard persistence.
//
// Sentinel errors:
//   - ErrNotFound: no definition or entry for the given key
type Repository interface {
	// --- Definitions ---

	CreateDefinition(ctx context.Context, db bun.IDB, def *leaderboarddomain.Definition) error
	GetDefinition(ctx context.Context, db bun.IDB, id int64) (*leaderboarddomain.Definition, error)
	// LockDefinition selects the definition FOR UPDATE, serialising rank
	// refreshes of the same leaderboard within a transaction.
	LockDefinition(ctx context.Context, db bun.IDB, id int64) (*leaderboarddomain.Definition, error)
	ListDefinitions(ctx context.Context, db bun.IDB, activeOnly bool) ([]leaderboarddomain.Definition, error)
	SetDefinitionActive(ctx context.Context, db bun.IDB, id int64, active bool, now time.Time) (*leaderboarddomain.Definition, error)

	// --- Entries ---

	FindLeaderboardEntry(ctx context.Context, db bun.IDB, leaderboardID, userID int64) (*leaderboarddomain.Entry, error)
	// UpsertLeaderboardEntry writes score columns and leaves rank untouched
	// on conflict. The stored rank is copied back into entry.
	UpsertLeaderboardEntry(ctx context.Context, db bun.IDB, entry *leaderboarddomain.Entry) error
	ListLeaderboardEntries(ctx context.Context, db bun.IDB, leaderboardID int64) ([]leaderboarddomain.Entry, error)
	// ListLeaderboardPage returns ranked entries first, ordered by rank.
	ListLeaderboardPage(ctx context.Context, db bun.IDB, leaderboardID int64, limit, offset int) ([]leaderboarddomain.Entry, error)
	ListUserEntries(ctx context.Context, db bun.IDB, userID int64) ([]leaderboarddomain.Entry, error)
	BulkUpdateRanks(ctx context.Context, db bun.IDB, leaderboardID int64, rankByUserID map[int64]int) error
}
