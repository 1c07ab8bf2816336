package leaderboardhandlers

import (
	"log/slog"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/ThreeDotsLabs/watermill/message"
	leaderboardservice "github.com/hirelane/engage/app/modules/leaderboard/application"
	"github.com/hirelane/engage/app/shared"
	"go.opentelemetry.io/otel/trace"
)

// LeaderboardEventHandlers implements EventHandlers.
type LeaderboardEventHandlers struct {
	service leaderboardservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewEventHandlers creates a new LeaderboardEventHandlers.
func NewEventHandlers(service leaderboardservice.Service, logger *slog.Logger, tracer trace.Tracer) EventHandlers {
	return &LeaderboardEventHandlers{service: service, logger: logger, tracer: tracer}
}

// HandleAchievementUnlocked recomputes the user's scores and refreshes the
// affected rankings.
func (h *LeaderboardEventHandlers) HandleAchievementUnlocked(msg *message.Message) error {
	ctx, span := h.tracer.Start(msg.Context(), "LeaderboardHandlers.HandleAchievementUnlocked")
	defer span.End()

	payload, err := shared.DecodeJSON[shared.AchievementUnlockedPayload](msg)
	if err != nil {
		h.logger.WarnContext(ctx, "Dropping malformed achievement event",
			attr.CorrelationIDFromMsg(msg),
			attr.Error(err),
		)
		return nil
	}
	if payload.UserID <= 0 {
		h.logger.WarnContext(ctx, "Dropping achievement event without user",
			attr.CorrelationIDFromMsg(msg),
			attr.Int64("record_id", payload.RecordID),
		)
		return nil
	}

	entries, err := h.service.SyncUser(ctx, payload.UserID)
	if err != nil {
		span.RecordError(err)
		h.logger.ErrorContext(ctx, "Leaderboard sync failed",
			attr.CorrelationIDFromMsg(msg),
			attr.Int64("user_id", payload.UserID),
			attr.Error(err),
		)
		return err
	}

	h.logger.InfoContext(ctx, "Leaderboard scores synced",
		attr.CorrelationIDFromMsg(msg),
		attr.Int64("user_id", payload.UserID),
		attr.String("tier", payload.Tier),
		attr.Int("leaderboards", len(entries)),
	)
	return nil
}
