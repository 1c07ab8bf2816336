package testutils

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	achievementmigrations "github.com/hirelane/engage/app/modules/achievement/infrastructure/repositories/migrations"
	careermigrations "github.com/hirelane/engage/app/modules/career/infrastructure/repositories/migrations"
	leaderboardqueue "github.com/hirelane/engage/app/modules/leaderboard/infrastructure/queue"
	leaderboardmigrations "github.com/hirelane/engage/app/modules/leaderboard/infrastructure/repositories/migrations"
)

// appTables lists every table the modules own. Seeded definitions are
// restored by ResetDatabase.
var appTables = []string{"achievement_records", "leaderboard_entries", "leaderboard_definitions", "career_scenarios"}

// runMigrations applies River's schema and then every module's migrations
// in dependency order.
func runMigrations(ctx context.Context, db *bun.DB, pgConnStr string) error {
	if _, err := leaderboardqueue.Migrate(ctx, pgConnStr); err != nil {
		return err
	}

	orderedModules := []struct {
		name       string
		migrations *migrate.Migrations
	}{
		{"achievement", achievementmigrations.Migrations},
		{"leaderboard", leaderboardmigrations.Migrations},
		{"career", careermigrations.Migrations},
	}

	for _, mod := range orderedModules {
		migrator := migrate.NewMigrator(db, mod.migrations,
			migrate.WithTableName(mod.name+"_bun_migrations"),
			migrate.WithLocksTableName(mod.name+"_bun_migration_locks"),
		)
		if err := migrator.Init(ctx); err != nil {
			return fmt.Errorf("failed to initialize %s migration tables: %w", mod.name, err)
		}
		group, err := migrator.Migrate(ctx)
		if err != nil {
			return fmt.Errorf("failed to run %s migrations: %w", mod.name, err)
		}
		if group.IsZero() {
			log.Printf("No %s migrations to run", mod.name)
		} else {
			log.Printf("Ran %s migrations group #%d", mod.name, group.ID)
		}
	}
	return nil
}

// TruncateTables truncates the given tables and restarts their sequences.
func TruncateTables(ctx context.Context, db bun.IDB, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}

	quoted := make([]string, len(tables))
	for i, table := range tables {
		quoted[i] = fmt.Sprintf(`"%s"`, table)
	}
	query := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(quoted, ", "))
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate tables %v: %w", tables, err)
	}
	return nil
}

// CleanupRiverJobs deletes all jobs from the River queue.
func CleanupRiverJobs(ctx context.Context, db bun.IDB) error {
	_, err := db.ExecContext(ctx, "DELETE FROM river_job")
	return err
}

// ResetDatabase empties every module table and the job queue, then
// re-seeds the global leaderboard the way its migration does.
func ResetDatabase(ctx context.Context, db *bun.DB) error {
	if err := TruncateTables(ctx, db, appTables...); err != nil {
		return err
	}
	if err := CleanupRiverJobs(ctx, db); err != nil {
		return fmt.Errorf("failed to cleanup river jobs: %w", err)
	}
	_, err := db.NewRaw(`
		INSERT INTO leaderboard_definitions (name, scope, timeframe, active)
		VALUES ('Global', 'global', 'all_time', true)`).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed global leaderboard: %w", err)
	}
	return nil
}
