package leaderboardqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/hirelane/engage/app/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivertype"
)

// ErrRefreshRunning is returned by ScheduleRefresh when an identical refresh
// is already executing and may have read entries before the caller's write.
var ErrRefreshRunning = errors.New("ranking refresh already running")

// uniqueStates excludes completed so a finished refresh never blocks the next one.
var uniqueStates = []rivertype.JobState{
	rivertype.JobStateAvailable,
	rivertype.JobStatePending,
	rivertype.JobStateRetryable,
	rivertype.JobStateRunning,
	rivertype.JobStateScheduled,
}

// Service schedules ranking refreshes using River.
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	metrics observability.OperationMetrics
}

// NewService creates a River-backed queue for ranking refreshes.
func NewService(ctx context.Context, dsn string, refresher Refresher, logger *slog.Logger, metrics observability.OperationMetrics) (*Service, error) {
	ctxLogger := logger.With(
		attr.String("operation", "new_leaderboard_queue_service"),
		attr.String("component", "river_queue"),
	)

	start := time.Now()
	metrics.RecordOperationAttempt(ctx, "initialize_service", "river")

	ctxLogger.Info("Initializing leaderboard queue service")

	// River requires pgx, not database/sql
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewRefreshRankingWorker(refresher, ctxLogger))

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			QueueName: {MaxWorkers: 4},
		},
		Workers: workers,
		Logger:  logger,
	})
	if err != nil {
		pool.Close()
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	metrics.RecordOperationSuccess(ctx, "initialize_service", "river")
	metrics.RecordOperationDuration(ctx, "initialize_service", "river", time.Since(start))

	ctxLogger.Info("Leaderboard queue service initialized successfully")
	return &Service{
		client:  riverClient,
		pool:    pool,
		logger:  ctxLogger,
		metrics: metrics,
	}, nil
}

// Start starts the River workers.
func (s *Service) Start(ctx context.Context) error {
	s.logger.Info("Starting leaderboard queue service")
	if err := s.client.Start(ctx); err != nil {
		s.logger.Error("Failed to start River client", attr.Error(err))
		return fmt.Errorf("failed to start River client: %w", err)
	}
	return nil
}

// Stop waits for running jobs, then closes the pool.
func (s *Service) Stop(ctx context.Context) error {
	s.logger.Info("Stopping leaderboard queue service")
	defer s.pool.Close()

	if err := s.client.Stop(ctx); err != nil {
		s.logger.Error("Failed to stop River client", attr.Error(err))
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	return nil
}

// ScheduleRefresh inserts a refresh job. Pending duplicates for the same
// leaderboard collapse into one job.
func (s *Service) ScheduleRefresh(ctx context.Context, leaderboardID int64) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "schedule_refresh", "river")
	defer func() {
		s.metrics.RecordOperationDuration(ctx, "schedule_refresh", "river", time.Since(start))
	}()

	res, err := s.client.Insert(ctx, RefreshRankingJob{LeaderboardID: leaderboardID}, &river.InsertOpts{
		Queue: QueueName,
		UniqueOpts: river.UniqueOpts{
			ByArgs:  true,
			ByState: uniqueStates,
		},
	})
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, "schedule_refresh", "river")
		return fmt.Errorf("failed to schedule ranking refresh: %w", err)
	}

	if res.UniqueSkippedAsDuplicate && res.Job != nil && res.Job.State == rivertype.JobStateRunning {
		s.metrics.RecordOperationFailure(ctx, "schedule_refresh", "river")
		return ErrRefreshRunning
	}

	s.metrics.RecordOperationSuccess(ctx, "schedule_refresh", "river")
	s.logger.Debug("Ranking refresh scheduled",
		attr.Int64("leaderboard_id", leaderboardID),
		attr.Int64("job_id", res.Job.ID),
		attr.Bool("deduplicated", res.UniqueSkippedAsDuplicate),
	)
	return nil
}

// HealthCheck verifies the queue's database connection.
func (s *Service) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("queue service health check failed: %w", err)
	}
	return nil
}
