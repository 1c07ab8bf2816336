package achievementdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	achievementdomain "github.com/hirelane/engage/app/modules/achievement/domain"
	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new achievement repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// LockUserCategory serialises evaluations of the same user and category.
func (r *Impl) LockUserCategory(ctx context.Context, db bun.IDB, userID int64, category achievementdomain.CategoryID) error {
	db = r.resolveDB(db)
	key := fmt.Sprintf("achievement:%d:%s", userID, category)
	if _, err := db.NewRaw("SELECT pg_advisory_xact_lock(hashtextextended(?, 0))", key).Exec(ctx); err != nil {
		return fmt.Errorf("achievementdb.LockUserCategory: %w", err)
	}
	return nil
}

// FindAchievements returns the user's records ordered by unlock time.
func (r *Impl) FindAchievements(ctx context.Context, db bun.IDB, userID int64, category *achievementdomain.CategoryID) ([]achievementdomain.Record, error) {
	db = r.resolveDB(db)
	var rows []AchievementRecord
	q := db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID)
	if category != nil {
		q = q.Where("category_id = ?", string(*category))
	}
	if err := q.Order("unlocked_at ASC", "tier ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("achievementdb.FindAchievements: %w", err)
	}

	out := make([]achievementdomain.Record, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

// InsertAchievement inserts with ON CONFLICT DO NOTHING on the
// (user_id, category_id, tier) unique index.
func (r *Impl) InsertAchievement(ctx context.Context, db bun.IDB, record *achievementdomain.Record) error {
	db = r.resolveDB(db)
	row := fromDomain(record)
	err := db.NewInsert().
		Model(row).
		On("CONFLICT (user_id, category_id, tier) DO NOTHING").
		Returning("id, unlocked_at").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrConflict
		}
		return fmt.Errorf("achievementdb.InsertAchievement: %w", err)
	}
	record.ID = row.ID
	record.UnlockedAt = row.UnlockedAt
	return nil
}

// ListUserIDs returns the distinct users that have records.
func (r *Impl) ListUserIDs(ctx context.Context, db bun.IDB) ([]int64, error) {
	db = r.resolveDB(db)
	var ids []int64
	err := db.NewSelect().
		Model((*AchievementRecord)(nil)).
		Distinct().
		Column("user_id").
		Order("user_id ASC").
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("achievementdb.ListUserIDs: %w", err)
	}
	return ids, nil
}
