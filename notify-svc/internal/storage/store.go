package storage

import (
	"context"
	"database/sql"
	"time"

	"ironxpress/notify-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

// UnreadKeyPrefix matches the key the storefront reads unread counts from.
const UnreadKeyPrefix = "notifications:unread:"

const unreadTTL = 30 * 24 * time.Hour

type Store struct {
	db  *sql.DB
	rdb *redis.Client
}

func NewStore(db *sql.DB, rdb *redis.Client) *Store {
	return &Store{
		db:  db,
		rdb: rdb,
	}
}

func (s *Store) InsertNotification(ctx context.Context, n domain.Notification) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (user_id, title, message)
		VALUES ($1, $2, $3)
	`, n.UserID, n.Title, n.Message)
	return err
}

func (s *Store) IncrementUnread(ctx context.Context, userID string) error {
	key := UnreadKeyPrefix + userID
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, unreadTTL)
		return nil
	})
	return err
}
