package shared

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// EventBus is the publish/subscribe surface modules depend on.
type EventBus interface {
	message.Publisher
	message.Subscriber
}

// NewEventBus creates the in-process bus. Delivery is at-least-once per
// subscriber while the process is up; nothing is persisted.
func NewEventBus(logger *slog.Logger) EventBus {
	return gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            256,
		BlockPublishUntilSubscriberAck: false,
	}, watermill.NewSlogLogger(logger))
}

// NewRouter creates a watermill router with correlation, retry and panic
// recovery middleware.
func NewRouter(logger *slog.Logger) (*message.Router, error) {
	wmLogger := watermill.NewSlogLogger(logger)
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 10 * time.Second}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create message router: %w", err)
	}

	router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: 100 * time.Millisecond,
			Multiplier:      2,
			Logger:          wmLogger,
		}.Middleware,
		middleware.Recoverer,
	)
	return router, nil
}

// PublishJSON marshals payload and publishes it on topic. The correlation id
// from the source message is carried over when one is given.
func PublishJSON(ctx context.Context, pub message.Publisher, topic string, payload any, source *message.Message) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.SetContext(ctx)

	correlationID := ""
	if source != nil {
		correlationID = middleware.MessageCorrelationID(source)
	}
	if correlationID == "" {
		correlationID = watermill.NewUUID()
	}
	middleware.SetCorrelationID(correlationID, msg)

	if err := pub.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", topic, err)
	}
	return nil
}

// DecodeJSON unmarshals a message payload.
func DecodeJSON[T any](msg *message.Message) (*T, error) {
	var out T
	if err := json.Unmarshal(msg.Payload, &out); err != nil {
		return nil, fmt.Errorf("failed to decode message %s: %w", msg.UUID, err)
	}
	return &out, nil
}
