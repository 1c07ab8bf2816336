package leaderboardservice

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/ThreeDotsLabs/watermill/message"
	achievementdb "github.com/hirelane/engage/app/modules/achievement/infrastructure/repositories"
	leaderboarddomain "github.com/hirelane/engage/app/modules/leaderboard/domain"
	leaderboarddb "github.com/hirelane/engage/app/modules/leaderboard/infrastructure/repositories"
	"github.com/hirelane/engage/app/observability"
	"github.com/hirelane/engage/app/shared"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// LeaderboardService implements the Service interface.
type LeaderboardService struct {
	repo         leaderboarddb.Repository
	achievements achievementdb.Repository
	weights      leaderboarddomain.TierWeights
	publisher    message.Publisher
	clock        shared.Clock
	logger       *slog.Logger
	config       Config
	ops          *shared.Operations

	mu        sync.RWMutex
	scheduler RefreshScheduler
}

// NewLeaderboardService creates a new LeaderboardService. A nil weights map
// uses the defaults.
func NewLeaderboardService(
	repo leaderboarddb.Repository,
	achievements achievementdb.Repository,
	weights leaderboarddomain.TierWeights,
	publisher message.Publisher,
	clock shared.Clock,
	cfg Config,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *LeaderboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = shared.SystemClock{}
	}
	if weights == nil {
		weights = leaderboarddomain.DefaultTierWeights()
	}
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 50
	}
	if cfg.MaxPageSize < cfg.DefaultPageSize {
		cfg.MaxPageSize = max(200, cfg.DefaultPageSize)
	}
	return &LeaderboardService{
		repo:         repo,
		achievements: achievements,
		weights:      weights,
		publisher:    publisher,
		clock:        clock,
		logger:       logger,
		config:       cfg,
		ops: &shared.Operations{
			Service: "LeaderboardService",
			Logger:  logger,
			Metrics: metrics,
			Tracer:  tracer,
			DB:      db,
		},
	}
}

// UseScheduler routes EnqueueRefresh through a queue. Passing nil restores
// inline refreshes.
func (s *LeaderboardService) UseScheduler(scheduler RefreshScheduler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduler = scheduler
}

func (s *LeaderboardService) currentScheduler() RefreshScheduler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scheduler
}

func (s *LeaderboardService) publishRanked(ctx context.Context, leaderboardID int64, entries int) {
	if s.publisher == nil {
		return
	}
	payload := shared.LeaderboardRankedPayload{
		LeaderboardID: leaderboardID,
		Entries:       entries,
		RankedAt:      s.clock.Now(),
	}
	if err := shared.PublishJSON(ctx, s.publisher, shared.LeaderboardRankedTopic, payload, nil); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish leaderboard ranked",
			attr.Int64("leaderboard_id", leaderboardID),
			attr.Error(err),
		)
	}
}

var _ Service = (*LeaderboardService)(nil)
