package service

import (
	"context"
	"strings"

	"ironxpress/storefront-svc/internal/cart"
	"ironxpress/storefront-svc/internal/domain"
	"ironxpress/storefront-svc/internal/pricing"

	"github.com/rs/zerolog"
)

// CartView is the cart as the client renders it.
type CartView struct {
	Items      []domain.CartLineItem `json:"items"`
	Summary    pricing.Summary       `json:"summary"`
	CouponCode string                `json:"appliedCoupon,omitempty"`
	Coupon     *domain.Coupon        `json:"coupon,omitempty"`
}

type CartService struct {
	store       *cart.Store
	refData     *RefData
	deliveryFee float64
	logger      zerolog.Logger
}

func NewCartService(store *cart.Store, refData *RefData, deliveryFee float64, logger zerolog.Logger) *CartService {
	return &CartService{store: store, refData: refData, deliveryFee: deliveryFee, logger: logger}
}

// View prices the session cart. An applied code that no longer matches an
// active coupon stays stored but discounts nothing.
func (s *CartService) View(ctx context.Context, session string) (*CartView, error) {
	items, err := s.store.Items(ctx, session)
	if err != nil {
		return nil, err
	}
	code, err := s.store.AppliedCoupon(ctx, session)
	if err != nil {
		return nil, err
	}
	return s.price(ctx, items, code), nil
}

func (s *CartService) price(ctx context.Context, items []domain.CartLineItem, code string) *CartView {
	coupon := s.refData.FindCoupon(ctx, code)
	return &CartView{
		Items:      items,
		Summary:    pricing.Summarize(items, coupon, s.deliveryFee),
		CouponCode: code,
		Coupon:     coupon,
	}
}

func (s *CartService) AddItem(ctx context.Context, session string, item domain.CartLineItem) (domain.CartLineItem, error) {
	if strings.TrimSpace(item.Name) == "" || item.Price < 0 || item.ServicePrice < 0 {
		return domain.CartLineItem{}, ErrInvalidItem
	}
	return s.store.Add(ctx, session, item)
}

func (s *CartService) UpdateQuantity(ctx context.Context, session, id string, quantity int) (*CartView, error) {
	if _, err := s.store.SetQuantity(ctx, session, id, quantity); err != nil {
		return nil, err
	}
	return s.View(ctx, session)
}

func (s *CartService) RemoveItem(ctx context.Context, session, id string) (*CartView, error) {
	return s.UpdateQuantity(ctx, session, id, 0)
}

// ApplyCoupon stores code when it names an active coupon. The minimum order
// value is not checked here; pricing applies it.
func (s *CartService) ApplyCoupon(ctx context.Context, session, code string) (*CartView, error) {
	coupon := s.refData.FindCoupon(ctx, strings.TrimSpace(code))
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	if err := s.store.ApplyCoupon(ctx, session, coupon.Code); err != nil {
		return nil, err
	}
	return s.View(ctx, session)
}

func (s *CartService) RemoveCoupon(ctx context.Context, session string) (*CartView, error) {
	if err := s.store.RemoveCoupon(ctx, session); err != nil {
		return nil, err
	}
	return s.View(ctx, session)
}

// Coupons lists active coupons, empty when they cannot be read.
func (s *CartService) Coupons(ctx context.Context) []domain.Coupon {
	coupons, err := s.refData.Coupons(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("fetch coupons")
		return []domain.Coupon{}
	}
	if coupons == nil {
		return []domain.Coupon{}
	}
	return coupons
}

func (s *CartService) Subscribe(session string) (<-chan struct{}, func()) {
	return s.store.Subscribe(session)
}

var _ CartServiceInterface = (*CartService)(nil)
