package leaderboarddomain

import (
	"sort"
	"time"

	achievementdomain "github.com/hirelane/engage/app/modules/achievement/domain"
)

// Entry is one user's row on one leaderboard. Rank 0 means the entry has
// not been ranked since it was created.
type Entry struct {
	LeaderboardID    int64                                `json:"leaderboard_id"`
	UserID           int64                                `json:"user_id"`
	Score            int                                  `json:"score"`
	AchievementCount int                                  `json:"achievement_count"`
	CategoryScores   map[achievementdomain.CategoryID]int `json:"category_scores"`
	TierCounts       map[achievementdomain.Tier]int       `json:"tier_counts"`
	Rank             int                                  `json:"rank"`
	LastUpdated      time.Time                            `json:"last_updated"`
}

// NewEntry builds an entry from a summary, keeping rank from prev when present.
func NewEntry(leaderboardID, userID int64, s Summary, prev *Entry, now time.Time) Entry {
	e := Entry{
		LeaderboardID:    leaderboardID,
		UserID:           userID,
		Score:            s.Score,
		AchievementCount: s.AchievementCount,
		CategoryScores:   s.CategoryScores,
		TierCounts:       s.TierCounts,
		LastUpdated:      now,
	}
	if prev != nil {
		e.Rank = prev.Rank
	}
	return e
}

// SortEntries orders entries by score descending, then user id ascending.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].UserID < entries[j].UserID
	})
}

// CompetitionRanks assigns 1-based competition ranks: equal scores share a
// rank and the next distinct score takes its position, so [40 40 30 10]
// ranks as [1 1 3 4].
func CompetitionRanks(entries []Entry) map[int64]int {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	SortEntries(sorted)

	ranks := make(map[int64]int, len(sorted))
	rank := 0
	for i, e := range sorted {
		if i == 0 || e.Score != sorted[i-1].Score {
			rank = i + 1
		}
		ranks[e.UserID] = rank
	}
	return ranks
}
