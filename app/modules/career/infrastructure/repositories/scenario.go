package careerdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	careerdomain "github.com/hirelane/engage/app/modules/career/domain"
	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new career repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// CreateScenario inserts the scenario and fills CreatedAt.
func (r *Impl) CreateScenario(ctx context.Context, db bun.IDB, scenario *careerdomain.Scenario) error {
	db = r.resolveDB(db)
	row := fromDomain(scenario)
	q := db.NewInsert().Model(row)
	if row.CreatedAt.IsZero() {
		q = q.ExcludeColumn("created_at")
	}
	if err := q.Returning("created_at").Scan(ctx); err != nil {
		return fmt.Errorf("careerdb.CreateScenario: %w", err)
	}
	scenario.CreatedAt = row.CreatedAt
	return nil
}

// GetScenario loads one scenario by id.
func (r *Impl) GetScenario(ctx context.Context, db bun.IDB, id uuid.UUID) (*careerdomain.Scenario, error) {
	db = r.resolveDB(db)
	row := new(CareerScenario)
	err := db.NewSelect().Model(row).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("careerdb.GetScenario: %w", err)
	}
	s := row.toDomain()
	return &s, nil
}

// ListScenarios returns the user's scenarios newest first.
func (r *Impl) ListScenarios(ctx context.Context, db bun.IDB, userID int64) ([]careerdomain.Scenario, error) {
	db = r.resolveDB(db)
	var rows []CareerScenario
	if err := db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		Order("created_at DESC", "id ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("careerdb.ListScenarios: %w", err)
	}
	out := make([]careerdomain.Scenario, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}
