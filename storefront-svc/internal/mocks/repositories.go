package mocks

import (
	"context"

	"ironxpress/storefront-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type ReferenceRepository struct {
	mock.Mock
}

func (m *ReferenceRepository) ActiveCoupons(ctx context.Context) ([]domain.Coupon, error) {
	args := m.Called(ctx)
	coupons, _ := args.Get(0).([]domain.Coupon)
	return coupons, args.Error(1)
}

func (m *ReferenceRepository) ActivePincodes(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	pincodes, _ := args.Get(0).([]string)
	return pincodes, args.Error(1)
}

func (m *ReferenceRepository) DeliverySlots(ctx context.Context) ([]domain.DeliverySlot, error) {
	args := m.Called(ctx)
	slots, _ := args.Get(0).([]domain.DeliverySlot)
	return slots, args.Error(1)
}

type CatalogRepository struct {
	mock.Mock
}

func (m *CatalogRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]domain.Category)
	return categories, args.Error(1)
}

func (m *CatalogRepository) ListProducts(ctx context.Context, categoryID string) ([]domain.Product, error) {
	args := m.Called(ctx, categoryID)
	products, _ := args.Get(0).([]domain.Product)
	return products, args.Error(1)
}

func (m *CatalogRepository) ListServices(ctx context.Context) ([]domain.Service, error) {
	args := m.Called(ctx)
	services, _ := args.Get(0).([]domain.Service)
	return services, args.Error(1)
}

func (m *CatalogRepository) ListBanners(ctx context.Context) ([]domain.Banner, error) {
	args := m.Called(ctx)
	banners, _ := args.Get(0).([]domain.Banner)
	return banners, args.Error(1)
}

type OrderRepository struct {
	mock.Mock
}

func (m *OrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *OrderRepository) SaveReceipt(ctx context.Context, orderID int, qr []byte) error {
	return m.Called(ctx, orderID, qr).Error(0)
}

func (m *OrderRepository) GetReceipt(ctx context.Context, userID string, orderID int) ([]byte, error) {
	args := m.Called(ctx, userID, orderID)
	qr, _ := args.Get(0).([]byte)
	return qr, args.Error(1)
}

func (m *OrderRepository) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	orders, _ := args.Get(0).([]domain.Order)
	return orders, args.Error(1)
}

type AccountRepository struct {
	mock.Mock
}

func (m *AccountRepository) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	args := m.Called(ctx, userID)
	profile, _ := args.Get(0).(*domain.UserProfile)
	return profile, args.Error(1)
}

func (m *AccountRepository) CreateProfile(ctx context.Context, p *domain.UserProfile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *AccountRepository) UpdateProfile(ctx context.Context, p *domain.UserProfile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *AccountRepository) ListAddresses(ctx context.Context, userID string) ([]domain.Address, error) {
	args := m.Called(ctx, userID)
	addresses, _ := args.Get(0).([]domain.Address)
	return addresses, args.Error(1)
}

func (m *AccountRepository) CreateAddress(ctx context.Context, a *domain.Address) error {
	return m.Called(ctx, a).Error(0)
}

func (m *AccountRepository) DeleteAddress(ctx context.Context, userID, id string) (int64, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *AccountRepository) ListNotifications(ctx context.Context, userID string) ([]domain.Notification, error) {
	args := m.Called(ctx, userID)
	notifications, _ := args.Get(0).([]domain.Notification)
	return notifications, args.Error(1)
}

type StoreRepository struct {
	mock.Mock
}

func (m *StoreRepository) ListStoreAddresses(ctx context.Context) ([]domain.StoreAddress, error) {
	args := m.Called(ctx)
	stores, _ := args.Get(0).([]domain.StoreAddress)
	return stores, args.Error(1)
}

func (m *StoreRepository) CreateStoreAddress(ctx context.Context, s *domain.StoreAddress) error {
	return m.Called(ctx, s).Error(0)
}

type TagRepository struct {
	mock.Mock
}

func (m *TagRepository) UpdateServiceTag(ctx context.Context, name, tag string) ([]domain.Service, error) {
	args := m.Called(ctx, name, tag)
	services, _ := args.Get(0).([]domain.Service)
	return services, args.Error(1)
}

func (m *TagRepository) AllServices(ctx context.Context) ([]domain.Service, error) {
	args := m.Called(ctx)
	services, _ := args.Get(0).([]domain.Service)
	return services, args.Error(1)
}
