package achievementdomain

import "time"

// Record is one unlocked tier for a user in a category. Records are
// append-only; a lower or equal tier is never recorded after a higher one.
type Record struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"user_id"`
	Category   CategoryID `json:"category"`
	Tier       Tier       `json:"tier"`
	UnlockedAt time.Time  `json:"unlocked_at"`
}

// HighestTier returns the best tier among records, TierNone if empty.
func HighestTier(records []Record) Tier {
	best := TierNone
	for _, r := range records {
		if r.Tier > best {
			best = r.Tier
		}
	}
	return best
}

// HighestTierByCategory groups records by category, keeping the best tier.
func HighestTierByCategory(records []Record) map[CategoryID]Tier {
	out := make(map[CategoryID]Tier)
	for _, r := range records {
		if r.Tier > out[r.Category] {
			out[r.Category] = r.Tier
		}
	}
	return out
}

// Progress describes where a user stands in one category.
type Progress struct {
	Category      CategoryID `json:"category"`
	CurrentTier   Tier       `json:"current_tier"`
	NextTier      Tier       `json:"next_tier,omitempty"`
	NextThreshold float64    `json:"next_threshold,omitempty"`
	Completed     bool       `json:"completed"`
}

// BuildProgress reports progress for every catalog category.
func BuildProgress(catalog *Catalog, records []Record) []Progress {
	best := HighestTierByCategory(records)
	out := make([]Progress, 0, len(AllCategories()))
	for _, id := range AllCategories() {
		p := Progress{Category: id, CurrentTier: best[id]}
		if next, threshold, ok := catalog.NextTier(id, p.CurrentTier); ok {
			p.NextTier = next
			p.NextThreshold = threshold
		} else {
			p.Completed = true
		}
		out = append(out, p)
	}
	return out
}
