package service

import (
	"context"

	"ironxpress/notify-svc/internal/domain"
	"ironxpress/notify-svc/internal/storage"

	"github.com/segmentio/kafka-go"
)

type StoreInterface interface {
	InsertNotification(ctx context.Context, n domain.Notification) error
	IncrementUnread(ctx context.Context, userID string) error
}

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type ConsumerInterface interface {
	Start(ctx context.Context) error
	ProcessOrder(ctx context.Context, evt domain.OrderEvent)
}

var _ StoreInterface = (*storage.Store)(nil)
var _ MessageReader = (*kafka.Reader)(nil)
var _ ConsumerInterface = (*Consumer)(nil)
