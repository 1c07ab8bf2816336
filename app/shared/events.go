package shared

import "time"

// Topics carried on the in-process event bus.
const (
	MetricReportedTopic      = "engagement.metric.reported"
	AchievementUnlockedTopic = "achievement.unlocked"
	LeaderboardRankedTopic   = "leaderboard.ranked"
)

// MetricReportedPayload is published by profile, application and posting
// flows whenever a tracked engagement metric changes.
type MetricReportedPayload struct {
	UserID     int64     `json:"user_id"`
	Category   string    `json:"category"`
	Value      float64   `json:"value"`
	ReportedAt time.Time `json:"reported_at"`
}

// AchievementUnlockedPayload is published after a new tier record commits.
type AchievementUnlockedPayload struct {
	RecordID   int64     `json:"record_id"`
	UserID     int64     `json:"user_id"`
	Category   string    `json:"category"`
	Tier       string    `json:"tier"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

// LeaderboardRankedPayload is published after a ranking refresh commits.
type LeaderboardRankedPayload struct {
	LeaderboardID int64     `json:"leaderboard_id"`
	Entries       int       `json:"entries"`
	RankedAt      time.Time `json:"ranked_at"`
}
