package shared

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageError(t *testing.T) {
	driverErr := errors.New("connection reset")

	err := NewStorageError("InsertAchievement", driverErr)
	require.Error(t, err)
	assert.True(t, IsStorageError(err))
	assert.ErrorIs(t, err, driverErr)
	assert.Contains(t, err.Error(), "InsertAchievement")

	wrapped := fmt.Errorf("Evaluate: %w", err)
	assert.True(t, IsStorageError(wrapped))
	assert.Same(t, err, NewStorageError("Other", err))

	assert.NoError(t, NewStorageError("noop", nil))
	assert.False(t, IsStorageError(driverErr))
}

func TestFixedClock(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clk := NewFixedClock(start)
	assert.Equal(t, start, clk.Now())
	clk.Advance(time.Hour)
	assert.Equal(t, start.Add(time.Hour), clk.Now())
}

func TestPublishJSON_RoundTrip(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := NewEventBus(logger)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	msgs, err := bus.Subscribe(ctx, AchievementUnlockedTopic)
	require.NoError(t, err)

	payload := AchievementUnlockedPayload{RecordID: 7, UserID: 42, Category: "skill_builder", Tier: "gold"}
	require.NoError(t, PublishJSON(ctx, bus, AchievementUnlockedTopic, payload, nil))

	select {
	case msg := <-msgs:
		decoded, err := DecodeJSON[AchievementUnlockedPayload](msg)
		require.NoError(t, err)
		assert.Equal(t, payload.UserID, decoded.UserID)
		assert.Equal(t, "gold", decoded.Tier)
		assert.NotEmpty(t, middleware.MessageCorrelationID(msg))
		msg.Ack()
	case <-ctx.Done():
		t.Fatal("timed out waiting for message")
	}
}
