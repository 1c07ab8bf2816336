package leaderboardservice

import (
	leaderboarddomain "github.com/hirelane/engage/app/modules/leaderboard/domain"
)

// Config holds paging limits.
type Config struct {
	DefaultPageSize int
	MaxPageSize     int
}

// Standing is a user's position on one leaderboard.
type Standing struct {
	LeaderboardID    int64                   `json:"leaderboard_id"`
	LeaderboardName  string                  `json:"leaderboard_name"`
	Scope            leaderboarddomain.Scope `json:"scope"`
	Score            int                     `json:"score"`
	AchievementCount int                     `json:"achievement_count"`
	Rank             int                     `json:"rank"`
}
