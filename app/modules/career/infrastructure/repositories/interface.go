package careerdb

import (
	"context"

	"github.com/google/uuid"
	careerdomain "github.com/hirelane/engage/app/modules/career/domain"
	"github.com/uptrace/bun"
)

// Repository defines the contract for scenario persistence.
type Repository interface {
	CreateScenario(ctx context.Context, db bun.IDB, scenario *careerdomain.Scenario) error
	// GetScenario returns ErrNotFound when id is unknown.
	GetScenario(ctx context.Context, db bun.IDB, id uuid.UUID) (*careerdomain.Scenario, error)
	// ListScenarios returns the user's scenarios newest first.
	ListScenarios(ctx context.Context, db bun.IDB, userID int64) ([]careerdomain.Scenario, error)
}
