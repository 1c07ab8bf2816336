package leaderboardhandlers

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/danielgtaylor/huma/v2"
)

// EventHandlers handles bus events that change leaderboard scores.
type EventHandlers interface {
	HandleAchievementUnlocked(msg *message.Message) error
}

// HTTPHandlers registers the leaderboard API.
type HTTPHandlers interface {
	Register(api huma.API)
}
