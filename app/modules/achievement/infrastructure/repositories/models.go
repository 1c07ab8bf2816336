package achievementdb

import (
	"time"

	achievementdomain "github.com/hirelane/engage/app/modules/achievement/domain"
	"github.com/uptrace/bun"
)

// AchievementRecord is the persisted form of an unlocked tier.
type AchievementRecord struct {
	bun.BaseModel `bun:"table:achievement_records,alias:ar"`

	ID         int64     `bun:"id,pk,autoincrement"`
	UserID     int64     `bun:"user_id,notnull"`
	CategoryID string    `bun:"category_id,notnull"`
	Tier       int16     `bun:"tier,notnull"`
	UnlockedAt time.Time `bun:"unlocked_at,nullzero,notnull,default:current_timestamp"`
}

func (m *AchievementRecord) toDomain() achievementdomain.Record {
	return achievementdomain.Record{
		ID:         m.ID,
		UserID:     m.UserID,
		Category:   achievementdomain.CategoryID(m.CategoryID),
		Tier:       achievementdomain.Tier(m.Tier),
		UnlockedAt: m.UnlockedAt,
	}
}

func fromDomain(r *achievementdomain.Record) *AchievementRecord {
	return &AchievementRecord{
		ID:         r.ID,
		UserID:     r.UserID,
		CategoryID: string(r.Category),
		Tier:       int16(r.Tier),
		UnlockedAt: r.UnlockedAt,
	}
}
