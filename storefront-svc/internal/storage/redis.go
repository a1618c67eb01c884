package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"ironxpress/storefront-svc/internal/cart"
	"ironxpress/storefront-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "storefront:"

// RedisStorage keeps session-scoped cart values as plain strings. Values do
// not expire; a cart lives until it is cleared.
type RedisStorage struct {
	Client *redis.Client
}

func NewRedisStorage(client *redis.Client) *RedisStorage {
	return &RedisStorage{Client: client}
}

func (s *RedisStorage) Key(session, key string) string {
	return keyPrefix + session + ":" + key
}

func (s *RedisStorage) Get(ctx context.Context, session, key string) (string, error) {
	val, err := s.Client.Get(ctx, s.Key(session, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

func (s *RedisStorage) Set(ctx context.Context, session, key, value string) error {
	return s.Client.Set(ctx, s.Key(session, key), value, 0).Err()
}

func (s *RedisStorage) Delete(ctx context.Context, session, key string) error {
	return s.Client.Del(ctx, s.Key(session, key)).Err()
}

var _ cart.Storage = (*RedisStorage)(nil)

// CheckoutCache stores checkout progress with a sliding TTL.
type CheckoutCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewCheckoutCache(client *redis.Client, ttl time.Duration) *CheckoutCache {
	return &CheckoutCache{Client: client, TTL: ttl}
}

func (c *CheckoutCache) ProgressKey(session string) string {
	return keyPrefix + session + ":checkout"
}

// Load returns the stored progress, or a fresh cart-step record when none
// exists or the stored value is unreadable.
func (c *CheckoutCache) Load(ctx context.Context, session string) (domain.CheckoutProgress, error) {
	fresh := domain.CheckoutProgress{Step: domain.StepCart}

	raw, err := c.Client.Get(ctx, c.ProgressKey(session)).Bytes()
	if errors.Is(err, redis.Nil) {
		return fresh, nil
	}
	if err != nil {
		return fresh, err
	}

	var progress domain.CheckoutProgress
	if err := json.Unmarshal(raw, &progress); err != nil || progress.Step == "" {
		return fresh, nil
	}
	return progress, nil
}

func (c *CheckoutCache) Save(ctx context.Context, session string, progress domain.CheckoutProgress) error {
	payload, err := json.Marshal(progress)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, c.ProgressKey(session), payload, c.TTL).Err()
}

func (c *CheckoutCache) Reset(ctx context.Context, session string) error {
	return c.Client.Del(ctx, c.ProgressKey(session)).Err()
}

// UnreadKeyPrefix is shared with notify-svc, which increments the counter.
const UnreadKeyPrefix = "notifications:unread:"

type UnreadCounter struct {
	Client *redis.Client
}

func NewUnreadCounter(client *redis.Client) *UnreadCounter {
	return &UnreadCounter{Client: client}
}

func (u *UnreadCounter) Unread(ctx context.Context, userID string) (int64, error) {
	n, err := u.Client.Get(ctx, UnreadKeyPrefix+userID).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

func (u *UnreadCounter) ResetUnread(ctx context.Context, userID string) error {
	return u.Client.Del(ctx, UnreadKeyPrefix+userID).Err()
}
