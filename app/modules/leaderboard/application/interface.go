package leaderboardservice

import (
	"context"

	leaderboarddomain "github.com/hirelane/engage/app/modules/leaderboard/domain"
)

// Service aggregates achievement records into leaderboard entries and ranks.
type Service interface {
	// RecomputeUserScore upserts one entry per active leaderboard for the
	// user. Ranks are not changed; new entries start unranked.
	RecomputeUserScore(ctx context.Context, userID int64) (map[int64]leaderboarddomain.Entry, error)
	// RefreshRanking recomputes competition ranks for every entry of a
	// leaderboard inside one transaction.
	RefreshRanking(ctx context.Context, leaderboardID int64) error
	// EnqueueRefresh schedules RefreshRanking on the queue, or runs it inline
	// when no queue is configured.
	EnqueueRefresh(ctx context.Context, leaderboardID int64) error
	// SyncUser recomputes the user's score and refreshes every touched leaderboard.
	SyncUser(ctx context.Context, userID int64) (map[int64]leaderboarddomain.Entry, error)
	// Rebuild recomputes every user with achievements and refreshes every
	// active leaderboard. Returns the number of users recomputed.
	Rebuild(ctx context.Context) (int, error)

	GetLeaderboardEntries(ctx context.Context, leaderboardID int64, limit, offset int) ([]leaderboarddomain.Entry, error)
	GetUserStandings(ctx context.Context, userID int64) ([]Standing, error)

	CreateDefinition(ctx context.Context, def leaderboarddomain.Definition) (*leaderboarddomain.Definition, error)
	SetDefinitionActive(ctx context.Context, leaderboardID int64, active bool) (*leaderboarddomain.Definition, error)
	ListDefinitions(ctx context.Context, activeOnly bool) ([]leaderboarddomain.Definition, error)

	// ExportLeaderboard renders the leaderboard as an xlsx workbook.
	ExportLeaderboard(ctx context.Context, leaderboardID int64) ([]byte, error)
}

// RefreshScheduler defers rank refreshes to a background queue.
type RefreshScheduler interface {
	ScheduleRefresh(ctx context.Context, leaderboardID int64) error
}
