package leaderboardqueue

// QueueName is the dedicated River queue for leaderboard jobs.
const QueueName = "leaderboard"

// RefreshRankingJob recomputes competition ranks for one leaderboard.
type RefreshRankingJob struct {
	LeaderboardID int64 `json:"leaderboard_id"`
}

// Kind returns the job type identifier for River
func (RefreshRankingJob) Kind() string { return "leaderboard_refresh_ranking" }
