package mocks

import (
	"context"

	"ironxpress/storefront-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type ProgressStore struct {
	mock.Mock
}

func (m *ProgressStore) Load(ctx context.Context, session string) (domain.CheckoutProgress, error) {
	args := m.Called(ctx, session)
	return args.Get(0).(domain.CheckoutProgress), args.Error(1)
}

func (m *ProgressStore) Save(ctx context.Context, session string, progress domain.CheckoutProgress) error {
	return m.Called(ctx, session, progress).Error(0)
}

func (m *ProgressStore) Reset(ctx context.Context, session string) error {
	return m.Called(ctx, session).Error(0)
}

type OrderPublisher struct {
	mock.Mock
}

func (m *OrderPublisher) PublishOrder(ctx context.Context, event domain.OrderEvent) error {
	return m.Called(ctx, event).Error(0)
}

type QRGenerator struct {
	mock.Mock
}

func (m *QRGenerator) Generate(orderID int) ([]byte, error) {
	args := m.Called(orderID)
	qr, _ := args.Get(0).([]byte)
	return qr, args.Error(1)
}

type UnreadCounter struct {
	mock.Mock
}

func (m *UnreadCounter) Unread(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *UnreadCounter) ResetUnread(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}
