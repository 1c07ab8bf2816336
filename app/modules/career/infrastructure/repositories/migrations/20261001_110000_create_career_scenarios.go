package careermigrations

import (
	"context"
	"fmt"

	careerdb "github.com/hirelane/engage/app/modules/career/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating career_scenarios table...")

		if _, err := db.NewCreateTable().Model((*careerdb.CareerScenario)(nil)).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create career_scenarios table: %w", err)
		}
		if _, err := db.NewRaw("CREATE INDEX IF NOT EXISTS idx_career_scenarios_user_created ON career_scenarios (user_id, created_at DESC)").Exec(ctx); err != nil {
			return fmt.Errorf("failed to create user index: %w", err)
		}

		fmt.Println("career_scenarios table created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping career_scenarios table...")

		if _, err := db.NewDropTable().Model((*careerdb.CareerScenario)(nil)).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop career_scenarios table: %w", err)
		}

		fmt.Println("career_scenarios table dropped successfully!")
		return nil
	})
}
