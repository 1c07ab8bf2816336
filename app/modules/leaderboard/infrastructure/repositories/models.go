package leaderboarddb

import (
	"time"

	achievementdomain "github.com/hirelane/engage/app/modules/achievement/domain"
	leaderboarddomain "github.com/hirelane/engage/app/modules/leaderboard/domain"
	"github.com/uptrace/bun"
)

// LeaderboardDefinition is the persisted form of a ranking view.
type LeaderboardDefinition struct {
	bun.BaseModel `bun:"table:leaderboard_definitions,alias:ld"`

	ID             int64      `bun:"id,pk,autoincrement"`
	Name           string     `bun:"name,notnull"`
	Scope          string     `bun:"scope,notnull"`
	CategoryFilter *string    `bun:"category_filter"`
	TierFilter     int16      `bun:"tier_filter,notnull,default:0"`
	Timeframe      string     `bun:"timeframe,notnull"`
	WindowStart    *time.Time `bun:"window_start"`
	WindowEnd      *time.Time `bun:"window_end"`
	Active         bool       `bun:"active,notnull,default:true"`
	CreatedAt      time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt      time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// LeaderboardEntry is one user's row on one leaderboard. The jsonb maps
// are keyed by category id and tier name.
type LeaderboardEntry struct {
	bun.BaseModel `bun:"table:leaderboard_entries,alias:le"`

	LeaderboardID    int64          `bun:"leaderboard_id,pk"`
	UserID           int64          `bun:"user_id,pk"`
	Score            int            `bun:"score,notnull,default:0"`
	AchievementCount int            `bun:"achievement_count,notnull,default:0"`
	CategoryScores   map[string]int `bun:"category_scores,type:jsonb,notnull"`
	TierCounts       map[string]int `bun:"tier_counts,type:jsonb,notnull"`
	Rank             int            `bun:"rank,notnull,default:0"`
	LastUpdated      time.Time      `bun:"last_updated,nullzero,notnull,default:current_timestamp"`
}

// rankUpdate is one row of the VALUES list used by BulkUpdateRanks.
type rankUpdate struct {
	bun.BaseModel `bun:"table:leaderboard_entries"`

	LeaderboardID int64 `bun:"leaderboard_id"`
	UserID        int64 `bun:"user_id"`
	Rank          int   `bun:"rank"`
}

func (m *LeaderboardDefinition) toDomain() leaderboarddomain.Definition {
	d := leaderboarddomain.Definition{
		ID:          m.ID,
		Name:        m.Name,
		Scope:       leaderboarddomain.Scope(m.Scope),
		TierFilter:  achievementdomain.Tier(m.TierFilter),
		Timeframe:   leaderboarddomain.Timeframe(m.Timeframe),
		WindowStart: m.WindowStart,
		WindowEnd:   m.WindowEnd,
		Active:      m.Active,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.CategoryFilter != nil {
		c := achievementdomain.CategoryID(*m.CategoryFilter)
		d.CategoryFilter = &c
	}
	return d
}

func definitionFromDomain(d *leaderboarddomain.Definition) *LeaderboardDefinition {
	m := &LeaderboardDefinition{
		ID:          d.ID,
		Name:        d.Name,
		Scope:       string(d.Scope),
		TierFilter:  int16(d.TierFilter),
		Timeframe:   string(d.Timeframe),
		WindowStart: d.WindowStart,
		WindowEnd:   d.WindowEnd,
		Active:      d.Active,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.CategoryFilter != nil {
		c := string(*d.CategoryFilter)
		m.CategoryFilter = &c
	}
	return m
}

func (m *LeaderboardEntry) toDomain() leaderboarddomain.Entry {
	e := leaderboarddomain.Entry{
		LeaderboardID:    m.LeaderboardID,
		UserID:           m.UserID,
		Score:            m.Score,
		AchievementCount: m.AchievementCount,
		CategoryScores:   make(map[achievementdomain.CategoryID]int, len(m.CategoryScores)),
		TierCounts:       make(map[achievementdomain.Tier]int, len(m.TierCounts)),
		Rank:             m.Rank,
		LastUpdated:      m.LastUpdated,
	}
	for k, v := range m.CategoryScores {
		e.CategoryScores[achievementdomain.CategoryID(k)] = v
	}
	for k, v := range m.TierCounts {
		if tier, err := achievementdomain.ParseTier(k); err == nil {
			e.TierCounts[tier] = v
		}
	}
	return e
}

func entryFromDomain(e *leaderboarddomain.Entry) *LeaderboardEntry {
	m := &LeaderboardEntry{
		LeaderboardID:    e.LeaderboardID,
		UserID:           e.UserID,
		Score:            e.Score,
		AchievementCount: e.AchievementCount,
		CategoryScores:   make(map[string]int, len(e.CategoryScores)),
		TierCounts:       make(map[string]int, len(e.TierCounts)),
		Rank:             e.Rank,
		LastUpdated:      e.LastUpdated,
	}
	for k, v := range e.CategoryScores {
		m.CategoryScores[string(k)] = v
	}
	for k, v := range e.TierCounts {
		m.TierCounts[k.String()] = v
	}
	return m
}
