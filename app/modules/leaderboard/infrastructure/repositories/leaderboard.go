package leaderboarddb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	leaderboarddomain "github.com/hirelane/engage/app/modules/leaderboard/domain"
	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new leaderboard repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// CreateDefinition inserts a definition and fills its ID and timestamps.
func (r *Impl) CreateDefinition(ctx context.Context, db bun.IDB, def *leaderboarddomain.Definition) error {
	db = r.resolveDB(db)
	row := definitionFromDomain(def)
	if _, err := db.NewInsert().Model(row).Returning("*").Exec(ctx); err != nil {
		return fmt.Errorf("leaderboarddb.CreateDefinition: %w", err)
	}
	*def = row.toDomain()
	return nil
}

// GetDefinition returns one definition by id.
func (r *Impl) GetDefinition(ctx context.Context, db bun.IDB, id int64) (*leaderboarddomain.Definition, error) {
	return r.getDefinition(ctx, r.resolveDB(db), id, false, "leaderboarddb.GetDefinition")
}

// LockDefinition returns one definition by id, locking its row.
func (r *Impl) LockDefinition(ctx context.Context, db bun.IDB, id int64) (*leaderboarddomain.Definition, error) {
	return r.getDefinition(ctx, r.resolveDB(db), id, true, "leaderboarddb.LockDefinition")
}

func (r *Impl) getDefinition(ctx context.Context, db bun.IDB, id int64, forUpdate bool, op string) (*leaderboarddomain.Definition, error) {
	row := new(LeaderboardDefinition)
	q := db.NewSelect().Model(row).Where("id = ?", id)
	if forUpdate {
		q = q.For("UPDATE")
	}
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	def := row.toDomain()
	return &def, nil
}

// ListDefinitions returns definitions ordered by id.
func (r *Impl) ListDefinitions(ctx context.Context, db bun.IDB, activeOnly bool) ([]leaderboarddomain.Definition, error) {
	db = r.resolveDB(db)
	var rows []LeaderboardDefinition
	q := db.NewSelect().Model(&rows)
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	if err := q.Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("leaderboarddb.ListDefinitions: %w", err)
	}
	out := make([]leaderboarddomain.Definition, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

// SetDefinitionActive toggles the active flag.
func (r *Impl) SetDefinitionActive(ctx context.Context, db bun.IDB, id int64, active bool, now time.Time) (*leaderboarddomain.Definition, error) {
	db = r.resolveDB(db)
	row := new(LeaderboardDefinition)
	err := db.NewUpdate().
		Model(row).
		Set("active = ?", active).
		Set("updated_at = ?", now).
		Where("id = ?", id).
		Returning("*").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("leaderboarddb.SetDefinitionActive: %w", err)
	}
	def := row.toDomain()
	return &def, nil
}

// FindLeaderboardEntry returns ErrNotFound when the user has no entry.
func (r *Impl) FindLeaderboardEntry(ctx context.Context, db bun.IDB, leaderboardID, userID int64) (*leaderboarddomain.Entry, error) {
	db = r.resolveDB(db)
	row := new(LeaderboardEntry)
	err := db.NewSelect().
		Model(row).
		Where("leaderboard_id = ?", leaderboardID).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("leaderboarddb.FindLeaderboardEntry: %w", err)
	}
	e := row.toDomain()
	return &e, nil
}

// UpsertLeaderboardEntry inserts or updates the score columns of an entry.
func (r *Impl) UpsertLeaderboardEntry(ctx context.Context, db bun.IDB, entry *leaderboarddomain.Entry) error {
	db = r.resolveDB(db)
	row := entryFromDomain(entry)
	err := db.NewInsert().
		Model(row).
		On("CONFLICT (leaderboard_id, user_id) DO UPDATE").
		Set("score = EXCLUDED.score").
		Set("achievement_count = EXCLUDED.achievement_count").
		Set("category_scores = EXCLUDED.category_scores").
		Set("tier_counts = EXCLUDED.tier_counts").
		Set("last_updated = EXCLUDED.last_updated").
		Returning("rank").
		Scan(ctx)
	if err != nil {
		return fmt.Errorf("leaderboarddb.UpsertLeaderboardEntry: %w", err)
	}
	entry.Rank = row.Rank
	return nil
}

// ListLeaderboardEntries returns every entry of a leaderboard.
func (r *Impl) ListLeaderboardEntries(ctx context.Context, db bun.IDB, leaderboardID int64) ([]leaderboarddomain.Entry, error) {
	db = r.resolveDB(db)
	var rows []LeaderboardEntry
	err := db.NewSelect().
		Model(&rows).
		Where("leaderboard_id = ?", leaderboardID).
		Order("score DESC", "user_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("leaderboarddb.ListLeaderboardEntries: %w", err)
	}
	return entriesToDomain(rows), nil
}

// ListLeaderboardPage returns one page ordered by rank, unranked entries last.
func (r *Impl) ListLeaderboardPage(ctx context.Context, db bun.IDB, leaderboardID int64, limit, offset int) ([]leaderboarddomain.Entry, error) {
	db = r.resolveDB(db)
	var rows []LeaderboardEntry
	err := db.NewSelect().
		Model(&rows).
		Where("leaderboard_id = ?", leaderboardID).
		OrderExpr("CASE WHEN rank = 0 THEN 1 ELSE 0 END").
		Order("rank ASC", "score DESC", "user_id ASC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("leaderboarddb.ListLeaderboardPage: %w", err)
	}
	return entriesToDomain(rows), nil
}

// ListUserEntries returns the user's entries across leaderboards.
func (r *Impl) ListUserEntries(ctx context.Context, db bun.IDB, userID int64) ([]leaderboarddomain.Entry, error) {
	db = r.resolveDB(db)
	var rows []LeaderboardEntry
	err := db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		Order("leaderboard_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("leaderboarddb.ListUserEntries: %w", err)
	}
	return entriesToDomain(rows), nil
}

// BulkUpdateRanks writes all ranks with one UPDATE ... FROM (VALUES ...).
func (r *Impl) BulkUpdateRanks(ctx context.Context, db bun.IDB, leaderboardID int64, rankByUserID map[int64]int) error {
	if len(rankByUserID) == 0 {
		return nil
	}
	db = r.resolveDB(db)

	updates := make([]rankUpdate, 0, len(rankByUserID))
	for userID, rank := range rankByUserID {
		updates = append(updates, rankUpdate{LeaderboardID: leaderboardID, UserID: userID, Rank: rank})
	}
	sort.Slice(updates, func(i, j int) bool { return updates[i].UserID < updates[j].UserID })

	values := db.NewValues(&updates)
	_, err := db.NewUpdate().
		With("_data", values).
		Model((*LeaderboardEntry)(nil)).
		TableExpr("_data").
		Set("rank = _data.rank").
		Where("le.leaderboard_id = _data.leaderboard_id").
		Where("le.user_id = _data.user_id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("leaderboarddb.BulkUpdateRanks: %w", err)
	}
	return nil
}

func entriesToDomain(rows []LeaderboardEntry) []leaderboarddomain.Entry {
	out := make([]leaderboarddomain.Entry, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out
}
