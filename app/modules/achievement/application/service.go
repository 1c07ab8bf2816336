package achievementservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	"github.com/ThreeDotsLabs/watermill/message"
	achievementdomain "github.com/hirelane/engage/app/modules/achievement/domain"
	achievementdb "github.com/hirelane/engage/app/modules/achievement/infrastructure/repositories"
	"github.com/hirelane/engage/app/observability"
	"github.com/hirelane/engage/app/shared"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// ErrConcurrencyConflict is reported by storage when another evaluation
// recorded the same tier first. Evaluate treats it as a no-op.
var ErrConcurrencyConflict = achievementdb.ErrConflict

type recordResult = results.OperationResult[*achievementdomain.Record, error]

// AchievementService implements the Service interface.
type AchievementService struct {
	repo      achievementdb.Repository
	catalog   *achievementdomain.Catalog
	publisher message.Publisher
	clock     shared.Clock
	logger    *slog.Logger
	ops       *shared.Operations
}

// NewAchievementService creates a new AchievementService. publisher may be
// nil, in which case unlocks are not announced.
func NewAchievementService(
	repo achievementdb.Repository,
	catalog *achievementdomain.Catalog,
	publisher message.Publisher,
	clock shared.Clock,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *AchievementService {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = shared.SystemClock{}
	}
	if catalog == nil {
		catalog = achievementdomain.DefaultCatalog()
	}
	return &AchievementService{
		repo:      repo,
		catalog:   catalog,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
		ops: &shared.Operations{
			Service: "AchievementService",
			Logger:  logger,
			Metrics: metrics,
			Tracer:  tracer,
			DB:      db,
		},
	}
}

// Evaluate qualifies value against the category thresholds and records the
// tier if it strictly exceeds the best recorded tier.
func (s *AchievementService) Evaluate(ctx context.Context, userID int64, category achievementdomain.CategoryID, value float64) (*achievementdomain.Record, error) {
	identifier := fmt.Sprintf("%d:%s", userID, category)
	record, err := shared.Run(s.ops, ctx, "Evaluate", identifier, func(ctx context.Context, db bun.IDB) (recordResult, error) {
		return s.evaluateLogic(ctx, db, userID, category, value)
	})
	if err != nil {
		return nil, err
	}

	if record != nil {
		s.publishUnlocked(ctx, record)
	}
	return record, nil
}

func (s *AchievementService) evaluateLogic(ctx context.Context, db bun.IDB, userID int64, category achievementdomain.CategoryID, value float64) (recordResult, error) {
	tier, err := s.catalog.Qualify(category, value)
	if err != nil {
		if errors.Is(err, achievementdomain.ErrUnknownCategory) || errors.Is(err, achievementdomain.ErrInvalidMetric) {
			return results.FailureResult[*achievementdomain.Record, error](err), nil
		}
		return recordResult{}, err
	}
	if tier == achievementdomain.TierNone {
		return results.SuccessResult[*achievementdomain.Record, error](nil), nil
	}

	if err := s.repo.LockUserCategory(ctx, db, userID, category); err != nil {
		return recordResult{}, shared.NewStorageError("LockUserCategory", err)
	}

	existing, err := s.repo.FindAchievements(ctx, db, userID, &category)
	if err != nil {
		return recordResult{}, shared.NewStorageError("FindAchievements", err)
	}
	if best := achievementdomain.HighestTier(existing); best >= tier {
		s.logger.DebugContext(ctx, "Tier already satisfied",
			attr.Int64("user_id", userID),
			attr.String("category", string(category)),
			attr.String("qualified_tier", tier.String()),
			attr.String("recorded_tier", best.String()),
		)
		return results.SuccessResult[*achievementdomain.Record, error](nil), nil
	}

	record := &achievementdomain.Record{
		UserID:     userID,
		Category:   category,
		Tier:       tier,
		UnlockedAt: s.clock.Now(),
	}
	if err := s.repo.InsertAchievement(ctx, db, record); err != nil {
		if errors.Is(err, ErrConcurrencyConflict) {
			s.logger.InfoContext(ctx, "Tier recorded by a concurrent evaluation",
				attr.Int64("user_id", userID),
				attr.String("category", string(category)),
				attr.String("tier", tier.String()),
			)
			return results.SuccessResult[*achievementdomain.Record, error](nil), nil
		}
		return recordResult{}, shared.NewStorageError("InsertAchievement", err)
	}

	return results.SuccessResult[*achievementdomain.Record, error](record), nil
}

func (s *AchievementService) publishUnlocked(ctx context.Context, record *achievementdomain.Record) {
	if s.publisher == nil {
		return
	}
	payload := shared.AchievementUnlockedPayload{
		RecordID:   record.ID,
		UserID:     record.UserID,
		Category:   string(record.Category),
		Tier:       record.Tier.String(),
		UnlockedAt: record.UnlockedAt,
	}
	if err := shared.PublishJSON(ctx, s.publisher, shared.AchievementUnlockedTopic, payload, nil); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish achievement unlocked",
			attr.Int64("user_id", record.UserID),
			attr.String("category", string(record.Category)),
			attr.Error(err),
		)
	}
}

// GetUserAchievements returns every record for the user, oldest first.
func (s *AchievementService) GetUserAchievements(ctx context.Context, userID int64) ([]achievementdomain.Record, error) {
	return shared.Run(s.ops, ctx, "GetUserAchievements", fmt.Sprint(userID), func(ctx context.Context, db bun.IDB) (results.OperationResult[[]achievementdomain.Record, error], error) {
		records, err := s.repo.FindAchievements(ctx, db, userID, nil)
		if err != nil {
			return results.OperationResult[[]achievementdomain.Record, error]{}, shared.NewStorageError("FindAchievements", err)
		}
		return results.SuccessResult[[]achievementdomain.Record, error](records), nil
	})
}

// GetUserCategoryProgress reports the best tier and next threshold per
// category.
func (s *AchievementService) GetUserCategoryProgress(ctx context.Context, userID int64) ([]achievementdomain.Progress, error) {
	records, err := s.GetUserAchievements(ctx, userID)
	if err != nil {
		return nil, err
	}
	return achievementdomain.BuildProgress(s.catalog, records), nil
}

// ListCategories returns the catalog in display order.
func (s *AchievementService) ListCategories(_ context.Context) []achievementdomain.Category {
	return s.catalog.Categories()
}

// Catalog exposes the catalog the service evaluates against.
func (s *AchievementService) Catalog() *achievementdomain.Catalog {
	return s.catalog
}

var _ Service = (*AchievementService)(nil)
