package leaderboardmigrations

import (
	"context"
	"fmt"

	leaderboarddb "github.com/hirelane/engage/app/modules/leaderboard/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating leaderboard tables...")

		if _, err := db.NewCreateTable().Model((*leaderboarddb.LeaderboardDefinition)(nil)).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create leaderboard_definitions table: %w", err)
		}
		if _, err := db.NewCreateTable().
			Model((*leaderboarddb.LeaderboardEntry)(nil)).
			IfNotExists().
			ForeignKey(`("leaderboard_id") REFERENCES "leaderboard_definitions" ("id") ON DELETE CASCADE`).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to create leaderboard_entries table: %w", err)
		}

		indexes := []string{
			"CREATE INDEX IF NOT EXISTS idx_leaderboard_entries_score ON leaderboard_entries (leaderboard_id, score DESC)",
			"CREATE INDEX IF NOT EXISTS idx_leaderboard_entries_user ON leaderboard_entries (user_id)",
			"CREATE INDEX IF NOT EXISTS idx_leaderboard_definitions_active ON leaderboard_definitions (active) WHERE active",
		}
		for _, stmt := range indexes {
			if _, err := db.NewRaw(stmt).Exec(ctx); err != nil {
				return fmt.Errorf("failed to create index: %w", err)
			}
		}

		fmt.Println("Leaderboard tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping leaderboard tables...")

		if _, err := db.NewDropTable().Model((*leaderboarddb.LeaderboardEntry)(nil)).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop leaderboard_entries table: %w", err)
		}
		if _, err := db.NewDropTable().Model((*leaderboarddb.LeaderboardDefinition)(nil)).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop leaderboard_definitions table: %w", err)
		}

		fmt.Println("Leaderboard tables dropped successfully!")
		return nil
	})
}
