package achievementhandlers

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/danielgtaylor/huma/v2"
)

// EventHandlers handles achievement-related bus messages.
type EventHandlers interface {
	HandleMetricReported(msg *message.Message) error
}

// HTTPHandlers registers the achievement HTTP API.
type HTTPHandlers interface {
	Register(api huma.API)
}
