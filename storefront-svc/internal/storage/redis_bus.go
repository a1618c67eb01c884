package storage

import (
	"context"

	"ironxpress/storefront-svc/internal/cart"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisBus broadcasts cartUpdated through a Redis channel so that every
// storefront instance wakes its own subscribers. The message payload is the
// session id; the signal itself carries no data.
type RedisBus struct {
	Client  *redis.Client
	Channel string
	local   *cart.LocalBus
	logger  zerolog.Logger
}

func NewRedisBus(client *redis.Client, logger zerolog.Logger) *RedisBus {
	return &RedisBus{
		Client:  client,
		Channel: keyPrefix + cart.EventCartUpdated,
		local:   cart.NewLocalBus(),
		logger:  logger,
	}
}

// Publish sends the signal through Redis. If Redis is unreachable, local
// subscribers are still notified.
func (b *RedisBus) Publish(ctx context.Context, session string) error {
	if err := b.Client.Publish(ctx, b.Channel, session).Err(); err != nil {
		b.local.Notify(session)
		return err
	}
	return nil
}

func (b *RedisBus) Subscribe(session string) (<-chan struct{}, func()) {
	return b.local.Subscribe(session)
}

// Run relays channel messages to local subscribers until ctx is done.
func (b *RedisBus) Run(ctx context.Context) error {
	sub := b.Client.Subscribe(ctx, b.Channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			b.local.Notify(msg.Payload)
		}
	}
}

var _ cart.Bus = (*RedisBus)(nil)
