package leaderboarddomain

import (
	achievementdomain "github.com/hirelane/engage/app/modules/achievement/domain"
)

// Summary is a user's aggregate for one leaderboard definition.
type Summary struct {
	Score            int
	AchievementCount int
	CategoryScores   map[achievementdomain.CategoryID]int
	TierCounts       map[achievementdomain.Tier]int
}

// Summarize keeps the highest tier per category among the records the
// definition includes and sums their weights. Categories below the tier
// filter do not count.
func Summarize(records []achievementdomain.Record, weights TierWeights, def Definition) Summary {
	included := make([]achievementdomain.Record, 0, len(records))
	for _, r := range records {
		if def.Includes(r) {
			included = append(included, r)
		}
	}

	s := Summary{
		CategoryScores: make(map[achievementdomain.CategoryID]int),
		TierCounts:     make(map[achievementdomain.Tier]int),
	}
	for category, tier := range achievementdomain.HighestTierByCategory(included) {
		if tier == achievementdomain.TierNone || tier < def.TierFilter {
			continue
		}
		weight := weights.Weight(tier)
		s.Score += weight
		s.AchievementCount++
		s.CategoryScores[category] = weight
		s.TierCounts[tier]++
	}
	return s
}
