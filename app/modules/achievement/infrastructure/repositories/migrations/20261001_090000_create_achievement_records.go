package achievementmigrations

import (
	"context"
	"fmt"

	achievementdb "github.com/hirelane/engage/app/modules/achievement/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating achievement_records table...")

		if _, err := db.NewCreateTable().Model((*achievementdb.AchievementRecord)(nil)).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create achievement_records table: %w", err)
		}

		// One row per (user, category, tier); the evaluator relies on this for
		// insert-on-conflict-do-nothing.
		if _, err := db.NewRaw("CREATE UNIQUE INDEX IF NOT EXISTS uq_achievement_records_user_category_tier ON achievement_records (user_id, category_id, tier)").Exec(ctx); err != nil {
			return fmt.Errorf("failed to create unique index: %w", err)
		}
		if _, err := db.NewRaw("CREATE INDEX IF NOT EXISTS idx_achievement_records_user_category ON achievement_records (user_id, category_id)").Exec(ctx); err != nil {
			return fmt.Errorf("failed to create user/category index: %w", err)
		}

		fmt.Println("achievement_records table created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping achievement_records table...")

		if _, err := db.NewDropTable().Model((*achievementdb.AchievementRecord)(nil)).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop achievement_records table: %w", err)
		}

		fmt.Println("achievement_records table dropped successfully!")
		return nil
	})
}
