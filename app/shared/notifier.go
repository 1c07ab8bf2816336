package shared

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/hirelane/engage/config"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nkeys"
)

// Notifier forwards unlocked achievements to the notification service over
// NATS. The notification service owns delivery (email, in-app).
type Notifier struct {
	conn    *nats.Conn
	subject string
	logger  *slog.Logger
}

// NewNotifier connects to NATS. When a seed is configured the connection
// authenticates with the derived nkey.
func NewNotifier(cfg config.NATSConfig, logger *slog.Logger) (*Notifier, error) {
	opts := []nats.Option{
		nats.Name("hirelane-engage"),
		nats.Timeout(10 * time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", attr.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", attr.String("url", c.ConnectedUrl()))
		}),
	}

	if cfg.NKeySeed != "" {
		kp, err := nkeys.FromSeed([]byte(cfg.NKeySeed))
		if err != nil {
			return nil, fmt.Errorf("failed to parse nkey seed: %w", err)
		}
		pub, err := kp.PublicKey()
		if err != nil {
			return nil, fmt.Errorf("failed to derive nkey public key: %w", err)
		}
		opts = append(opts, nats.Nkey(pub, kp.Sign))
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &Notifier{conn: conn, subject: cfg.NotificationSubject, logger: logger}, nil
}

// Forward republishes an achievement.unlocked message on the notification
// subject. It is registered as a watermill handler.
func (n *Notifier) Forward(msg *message.Message) error {
	out := nats.NewMsg(n.subject)
	out.Data = msg.Payload
	out.Header.Set("Nats-Msg-Id", msg.UUID)
	out.Header.Set("Event-Type", AchievementUnlockedTopic)
	out.Header.Set("Correlation-Id", middleware.MessageCorrelationID(msg))

	if err := n.conn.PublishMsg(out); err != nil {
		n.logger.ErrorContext(msg.Context(), "Failed to forward achievement notification",
			attr.CorrelationIDFromMsg(msg),
			attr.String("subject", n.subject),
			attr.Error(err),
		)
		return err
	}
	return nil
}

// Register subscribes Forward to achievement.unlocked on the router.
func (n *Notifier) Register(router *message.Router, sub message.Subscriber) {
	router.AddNoPublisherHandler("notifier.achievement_unlocked", AchievementUnlockedTopic, sub, n.Forward)
}

// Close drains the connection.
func (n *Notifier) Close(ctx context.Context) error {
	if n == nil || n.conn == nil {
		return nil
	}
	done := make(chan error, 1)
	go func() { done <- n.conn.Drain() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		n.conn.Close()
		return ctx.Err()
	}
}
