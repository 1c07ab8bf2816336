package achievementhandlers

import (
	"errors"
	"log/slog"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/ThreeDotsLabs/watermill/message"
	achievementservice "github.com/hirelane/engage/app/modules/achievement/application"
	achievementdomain "github.com/hirelane/engage/app/modules/achievement/domain"
	"github.com/hirelane/engage/app/shared"
	"go.opentelemetry.io/otel/trace"
)

// AchievementEventHandlers implements EventHandlers.
type AchievementEventHandlers struct {
	service achievementservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewEventHandlers creates a new AchievementEventHandlers.
func NewEventHandlers(service achievementservice.Service, logger *slog.Logger, tracer trace.Tracer) EventHandlers {
	return &AchievementEventHandlers{service: service, logger: logger, tracer: tracer}
}

// HandleMetricReported evaluates a reported metric. Bad input is logged and
// acked; storage failures are returned so the router retries.
func (h *AchievementEventHandlers) HandleMetricReported(msg *message.Message) error {
	ctx, span := h.tracer.Start(msg.Context(), "AchievementHandlers.HandleMetricReported")
	defer span.End()

	payload, err := shared.DecodeJSON[shared.MetricReportedPayload](msg)
	if err != nil {
		h.logger.WarnContext(ctx, "Dropping malformed metric report",
			attr.CorrelationIDFromMsg(msg),
			attr.Error(err),
		)
		return nil
	}

	category, err := achievementdomain.ParseCategoryID(payload.Category)
	if err != nil {
		h.logger.WarnContext(ctx, "Dropping metric report for unknown category",
			attr.CorrelationIDFromMsg(msg),
			attr.Int64("user_id", payload.UserID),
			attr.String("category", payload.Category),
		)
		return nil
	}

	record, err := h.service.Evaluate(ctx, payload.UserID, category, payload.Value)
	if err != nil {
		if errors.Is(err, achievementdomain.ErrInvalidMetric) || errors.Is(err, achievementdomain.ErrUnknownCategory) {
			h.logger.WarnContext(ctx, "Dropping invalid metric report",
				attr.CorrelationIDFromMsg(msg),
				attr.Int64("user_id", payload.UserID),
				attr.Error(err),
			)
			return nil
		}
		span.RecordError(err)
		return err
	}

	if record != nil {
		h.logger.InfoContext(ctx, "Achievement unlocked from metric report",
			attr.CorrelationIDFromMsg(msg),
			attr.Int64("user_id", record.UserID),
			attr.String("category", string(record.Category)),
			attr.String("tier", record.Tier.String()),
		)
	}
	return nil
}
