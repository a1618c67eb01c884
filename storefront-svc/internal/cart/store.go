package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ironxpress/storefront-svc/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var ErrItemNotFound = errors.New("cart item not found")

// Store is the session cart. It is the only writer of the "cart" and
// "appliedCoupon" keys; every successful mutation persists the full list and
// publishes cartUpdated. Last writer wins.
type Store struct {
	storage Storage
	bus     Bus
	logger  zerolog.Logger
	newID   func() string
}

func NewStore(storage Storage, bus Bus, logger zerolog.Logger) *Store {
	return &Store{
		storage: storage,
		bus:     bus,
		logger:  logger,
		newID:   uuid.NewString,
	}
}

// Items returns the session's line items. A corrupt stored value is
// discarded and reported as an empty cart.
func (s *Store) Items(ctx context.Context, session string) ([]domain.CartLineItem, error) {
	raw, err := s.storage.Get(ctx, session, KeyCart)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return s.decode(ctx, session, raw), nil
}

func (s *Store) decode(ctx context.Context, session, raw string) []domain.CartLineItem {
	items := []domain.CartLineItem{}
	if raw == "" {
		return items
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Warn().Err(err).Str("session", session).Msg("discarding malformed cart")
		if delErr := s.storage.Delete(ctx, session, KeyCart); delErr != nil {
			s.logger.Warn().Err(delErr).Str("session", session).Msg("reset malformed cart")
		}
		return []domain.CartLineItem{}
	}
	return items
}

// Add appends a new line item. The item gets a fresh id, a quantity of at
// least one and a recomputed total.
func (s *Store) Add(ctx context.Context, session string, item domain.CartLineItem) (domain.CartLineItem, error) {
	items, err := s.Items(ctx, session)
	if err != nil {
		return domain.CartLineItem{}, err
	}

	item.ID = s.newID()
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	item.Recompute()

	if err := s.save(ctx, session, append(items, item)); err != nil {
		return domain.CartLineItem{}, err
	}
	return item, nil
}

// SetQuantity changes an item's quantity, removing it when quantity <= 0.
func (s *Store) SetQuantity(ctx context.Context, session, id string, quantity int) ([]domain.CartLineItem, error) {
	items, err := s.Items(ctx, session)
	if err != nil {
		return nil, err
	}

	idx := indexOf(items, id)
	if idx < 0 {
		return items, ErrItemNotFound
	}

	if quantity <= 0 {
		items = append(items[:idx], items[idx+1:]...)
	} else {
		items[idx].Quantity = quantity
		items[idx].Recompute()
	}

	if err := s.save(ctx, session, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) Remove(ctx context.Context, session, id string) ([]domain.CartLineItem, error) {
	return s.SetQuantity(ctx, session, id, 0)
}

// Clear empties the cart and forgets the applied coupon.
func (s *Store) Clear(ctx context.Context, session string) error {
	if err := s.storage.Delete(ctx, session, KeyCart); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	if err := s.storage.Delete(ctx, session, KeyAppliedCoupon); err != nil {
		return fmt.Errorf("clear coupon: %w", err)
	}
	s.publish(ctx, session)
	return nil
}

func (s *Store) AppliedCoupon(ctx context.Context, session string) (string, error) {
	code, err := s.storage.Get(ctx, session, KeyAppliedCoupon)
	if err != nil {
		return "", fmt.Errorf("load applied coupon: %w", err)
	}
	return code, nil
}

// ApplyCoupon records code as the session's single applied coupon,
// replacing any previous one.
func (s *Store) ApplyCoupon(ctx context.Context, session, code string) error {
	if err := s.storage.Set(ctx, session, KeyAppliedCoupon, code); err != nil {
		return fmt.Errorf("save applied coupon: %w", err)
	}
	s.publish(ctx, session)
	return nil
}

func (s *Store) RemoveCoupon(ctx context.Context, session string) error {
	if err := s.storage.Delete(ctx, session, KeyAppliedCoupon); err != nil {
		return fmt.Errorf("remove applied coupon: %w", err)
	}
	s.publish(ctx, session)
	return nil
}

// Subscribe registers for cartUpdated signals on session.
func (s *Store) Subscribe(session string) (<-chan struct{}, func()) {
	return s.bus.Subscribe(session)
}

func (s *Store) save(ctx context.Context, session string, items []domain.CartLineItem) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.storage.Set(ctx, session, KeyCart, string(payload)); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	s.publish(ctx, session)
	return nil
}

func (s *Store) publish(ctx context.Context, session string) {
	if err := s.bus.Publish(ctx, session); err != nil {
		s.logger.Warn().Err(err).Str("session", session).Msg("publish cartUpdated")
	}
}

func indexOf(items []domain.CartLineItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
