package achievementrouter

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	achievementhandlers "github.com/hirelane/engage/app/modules/achievement/infrastructure/handlers"
	"github.com/hirelane/engage/app/shared"
)

// AchievementRouter handles Watermill handler registration for achievement events.
type AchievementRouter struct {
	logger     *slog.Logger
	router     *message.Router
	subscriber message.Subscriber
}

// NewAchievementRouter creates a new AchievementRouter.
func NewAchievementRouter(logger *slog.Logger, router *message.Router, subscriber message.Subscriber) *AchievementRouter {
	return &AchievementRouter{
		logger:     logger,
		router:     router,
		subscriber: subscriber,
	}
}

// Configure sets up the router with handlers.
func (r *AchievementRouter) Configure(_ context.Context, handlers achievementhandlers.EventHandlers) error {
	r.logger.Info("Registering achievement module handlers",
		slog.String("metric_reported_subject", shared.MetricReportedTopic),
	)

	r.router.AddNoPublisherHandler(
		"achievement."+shared.MetricReportedTopic,
		shared.MetricReportedTopic,
		r.subscriber,
		handlers.HandleMetricReported,
	)

	r.logger.Info("Achievement module handlers registered successfully")
	return nil
}

// Close shuts down the router.
func (r *AchievementRouter) Close() error {
	return r.router.Close()
}
