package leaderboardmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Seeding global leaderboard...")

		_, err := db.NewRaw(`INSERT INTO leaderboard_definitions (name, scope, timeframe, active)
			SELECT 'Global', 'global', 'all_time', true
			WHERE NOT EXISTS (SELECT 1 FROM leaderboard_definitions WHERE scope = 'global')`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to seed global leaderboard: %w", err)
		}

		fmt.Println("Global leaderboard seeded successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Removing seeded global leaderboard...")

		if _, err := db.NewRaw("DELETE FROM leaderboard_definitions WHERE name = 'Global' AND scope = 'global'").Exec(ctx); err != nil {
			return fmt.Errorf("failed to remove global leaderboard: %w", err)
		}
		return nil
	})
}
