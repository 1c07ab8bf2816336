package leaderboardrouter

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	leaderboardhandlers "github.com/hirelane/engage/app/modules/leaderboard/infrastructure/handlers"
	"github.com/hirelane/engage/app/shared"
)

// LeaderboardRouter handles Watermill handler registration for leaderboard events.
type LeaderboardRouter struct {
	logger     *slog.Logger
	router     *message.Router
	subscriber message.Subscriber
}

// NewLeaderboardRouter creates a new LeaderboardRouter.
func NewLeaderboardRouter(logger *slog.Logger, router *message.Router, subscriber message.Subscriber) *LeaderboardRouter {
	return &LeaderboardRouter{
		logger:     logger,
		router:     router,
		subscriber: subscriber,
	}
}

// Configure sets up the router with handlers.
func (r *LeaderboardRouter) Configure(_ context.Context, handlers leaderboardhandlers.EventHandlers) error {
	r.logger.Info("Registering leaderboard module handlers",
		slog.String("achievement_unlocked_subject", shared.AchievementUnlockedTopic),
	)

	r.router.AddNoPublisherHandler(
		"leaderboard."+shared.AchievementUnlockedTopic,
		shared.AchievementUnlockedTopic,
		r.subscriber,
		handlers.HandleAchievementUnlocked,
	)

	r.logger.Info("Leaderboard module handlers registered successfully")
	return nil
}

// Close shuts down the router.
func (r *LeaderboardRouter) Close() error {
	return r.router.Close()
}
