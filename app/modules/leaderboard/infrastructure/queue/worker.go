package leaderboardqueue

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	leaderboarddomain "github.com/hirelane/engage/app/modules/leaderboard/domain"
	"github.com/riverqueue/river"
)

// Refresher is the part of the leaderboard service the worker drives.
type Refresher interface {
	RefreshRanking(ctx context.Context, leaderboardID int64) error
}

// RefreshRankingWorker runs queued rank refreshes.
type RefreshRankingWorker struct {
	river.WorkerDefaults[RefreshRankingJob]
	refresher Refresher
	logger    *slog.Logger
}

// NewRefreshRankingWorker creates the worker.
func NewRefreshRankingWorker(refresher Refresher, logger *slog.Logger) *RefreshRankingWorker {
	return &RefreshRankingWorker{refresher: refresher, logger: logger}
}

// Timeout bounds a single refresh.
func (w *RefreshRankingWorker) Timeout(*river.Job[RefreshRankingJob]) time.Duration {
	return 2 * time.Minute
}

// Work refreshes the leaderboard. Deleted leaderboards cancel the job
// instead of retrying it.
func (w *RefreshRankingWorker) Work(ctx context.Context, job *river.Job[RefreshRankingJob]) error {
	ctxLogger := w.logger.With(
		attr.Int64("job_id", job.ID),
		attr.Int64("leaderboard_id", job.Args.LeaderboardID),
		attr.Int("attempt", job.Attempt),
	)

	if err := w.refresher.RefreshRanking(ctx, job.Args.LeaderboardID); err != nil {
		if errors.Is(err, leaderboarddomain.ErrLeaderboardNotFound) {
			ctxLogger.Warn("Leaderboard no longer exists, cancelling refresh")
			return river.JobCancel(err)
		}
		ctxLogger.Error("Ranking refresh failed", attr.Error(err))
		return err
	}

	ctxLogger.Info("Ranking refresh job completed")
	return nil
}
