package service

import (
	"context"

	"ironxpress/storefront-svc/internal/domain"
)

type ReferenceRepository interface {
	ActiveCoupons(ctx context.Context) ([]domain.Coupon, error)
	ActivePincodes(ctx context.Context) ([]string, error)
	DeliverySlots(ctx context.Context) ([]domain.DeliverySlot, error)
}

type CatalogRepository interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListProducts(ctx context.Context, categoryID string) ([]domain.Product, error)
	ListServices(ctx context.Context) ([]domain.Service, error)
	ListBanners(ctx context.Context) ([]domain.Banner, error)
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	SaveReceipt(ctx context.Context, orderID int, qr []byte) error
	GetReceipt(ctx context.Context, userID string, orderID int) ([]byte, error)
	ListOrders(ctx context.Context, userID string) ([]domain.Order, error)
}

type AccountRepository interface {
	GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error)
	CreateProfile(ctx context.Context, p *domain.UserProfile) error
	UpdateProfile(ctx context.Context, p *domain.UserProfile) error
	ListAddresses(ctx context.Context, userID string) ([]domain.Address, error)
	CreateAddress(ctx context.Context, a *domain.Address) error
	DeleteAddress(ctx context.Context, userID, id string) (int64, error)
	ListNotifications(ctx context.Context, userID string) ([]domain.Notification, error)
}

type StoreRepository interface {
	ListStoreAddresses(ctx context.Context) ([]domain.StoreAddress, error)
	CreateStoreAddress(ctx context.Context, s *domain.StoreAddress) error
}

type ProgressStore interface {
	Load(ctx context.Context, session string) (domain.CheckoutProgress, error)
	Save(ctx context.Context, session string, progress domain.CheckoutProgress) error
	Reset(ctx context.Context, session string) error
}

type OrderPublisher interface {
	PublishOrder(ctx context.Context, event domain.OrderEvent) error
}

type QRGenerator interface {
	Generate(orderID int) ([]byte, error)
}

// UnreadCounter tracks notifications a user has not opened yet.
type UnreadCounter interface {
	Unread(ctx context.Context, userID string) (int64, error)
	ResetUnread(ctx context.Context, userID string) error
}

type CartServiceInterface interface {
	View(ctx context.Context, session string) (*CartView, error)
	AddItem(ctx context.Context, session string, item domain.CartLineItem) (domain.CartLineItem, error)
	UpdateQuantity(ctx context.Context, session, id string, quantity int) (*CartView, error)
	RemoveItem(ctx context.Context, session, id string) (*CartView, error)
	ApplyCoupon(ctx context.Context, session, code string) (*CartView, error)
	RemoveCoupon(ctx context.Context, session string) (*CartView, error)
	Coupons(ctx context.Context) []domain.Coupon
	Subscribe(session string) (<-chan struct{}, func())
}

type CheckoutServiceInterface interface {
	State(ctx context.Context, session string) (*CheckoutState, error)
	ConfirmArea(ctx context.Context, session, pincode string) (*CheckoutState, error)
	Login(ctx context.Context, session, userID string) (*CheckoutState, error)
	Review(ctx context.Context, session, userID string) (*CheckoutState, error)
	SelectSlot(ctx context.Context, session, userID, date, slotID string) (*CheckoutState, error)
	Pay(ctx context.Context, session, userID string) (*domain.Order, error)
}

type CatalogServiceInterface interface {
	Categories(ctx context.Context) ([]domain.Category, error)
	Products(ctx context.Context, categoryID string) ([]domain.Product, error)
	Services(ctx context.Context) ([]domain.Service, error)
	Banners(ctx context.Context) ([]domain.Banner, error)
}

type AccountServiceInterface interface {
	Profile(ctx context.Context, userID string) (*domain.UserProfile, error)
	UpdateProfile(ctx context.Context, p *domain.UserProfile) error
	Addresses(ctx context.Context, userID string) ([]domain.Address, error)
	AddAddress(ctx context.Context, a *domain.Address) error
	DeleteAddress(ctx context.Context, userID, id string) error
	Orders(ctx context.Context, userID string) ([]domain.Order, error)
	Receipt(ctx context.Context, userID string, orderID int) ([]byte, error)
	Notifications(ctx context.Context, userID string) ([]domain.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
}

type StoreServiceInterface interface {
	List(ctx context.Context) ([]domain.StoreAddress, error)
	Create(ctx context.Context, body map[string]any) (*domain.StoreAddress, error)
}
