package service

import (
	"context"
	"encoding/json"

	"ironxpress/notify-svc/internal/domain"

	"github.com/rs/zerolog"
)

type Consumer struct {
	Reader MessageReader
	Store  StoreInterface
	Logger zerolog.Logger
}

func NewConsumer(reader MessageReader, store StoreInterface, logger zerolog.Logger) *Consumer {
	return &Consumer{
		Reader: reader,
		Store:  store,
		Logger: logger,
	}
}

// Start consumes order events until ctx is cancelled. Unreadable messages
// are logged and skipped.
func (c *Consumer) Start(ctx context.Context) error {
	c.Logger.Info().Msg("Starting notification consumer")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.Logger.Error().Err(err).Msg("Error reading message")
			continue
		}

		var evt domain.OrderEvent
		if err := json.Unmarshal(message.Value, &evt); err != nil {
			c.Logger.Error().Err(err).Int64("offset", message.Offset).Msg("Error unmarshaling message")
			continue
		}

		c.ProcessOrder(ctx, evt)
	}
}

func (c *Consumer) ProcessOrder(ctx context.Context, evt domain.OrderEvent) {
	if evt.Type != domain.EventOrderPlaced {
		return
	}
	logger := c.Logger.With().Int("order_id", evt.OrderID).Str("user_id", evt.UserID).Logger()
	if evt.UserID == "" {
		logger.Warn().Msg("Order event without user, skipping")
		return
	}

	if err := c.Store.InsertNotification(ctx, domain.OrderPlacedNotification(evt)); err != nil {
		logger.Error().Err(err).Msg("Error inserting notification")
		return
	}

	if err := c.Store.IncrementUnread(ctx, evt.UserID); err != nil {
		logger.Error().Err(err).Msg("Error updating unread counter")
		return
	}

	logger.Info().Msg("Order notification delivered")
}
