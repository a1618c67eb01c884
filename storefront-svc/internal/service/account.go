package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"ironxpress/storefront-svc/internal/domain"
	"ironxpress/storefront-svc/internal/serviceability"

	"github.com/rs/zerolog"
)

type AccountService struct {
	repo   AccountRepository
	orders OrderRepository
	qr     QRGenerator
	logger zerolog.Logger

	// Unread is optional; without it the unread count is always zero.
	Unread UnreadCounter
}

func NewAccountService(repo AccountRepository, orders OrderRepository, qr QRGenerator, logger zerolog.Logger) *AccountService {
	return &AccountService{repo: repo, orders: orders, qr: qr, logger: logger}
}

// Profile returns the user's profile, creating an empty one on first read.
func (s *AccountService) Profile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	profile, err := s.repo.GetProfile(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	profile = &domain.UserProfile{UserID: userID}
	if err := s.repo.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateProfile overwrites every editable field. Last writer wins.
func (s *AccountService) UpdateProfile(ctx context.Context, p *domain.UserProfile) error {
	if p.UserID == "" {
		return ErrUnauthenticated
	}
	if _, err := s.Profile(ctx, p.UserID); err != nil {
		return err
	}
	return s.repo.UpdateProfile(ctx, p)
}

func (s *AccountService) Addresses(ctx context.Context, userID string) ([]domain.Address, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	return s.repo.ListAddresses(ctx, userID)
}

func (s *AccountService) AddAddress(ctx context.Context, a *domain.Address) error {
	if a.UserID == "" {
		return ErrUnauthenticated
	}
	a.AddressLine1 = strings.TrimSpace(a.AddressLine1)
	if a.AddressLine1 == "" {
		return ErrInvalidAddress
	}
	a.Pincode = serviceability.SanitizePincode(a.Pincode)
	return s.repo.CreateAddress(ctx, a)
}

func (s *AccountService) DeleteAddress(ctx context.Context, userID, id string) error {
	if userID == "" {
		return ErrUnauthenticated
	}
	rows, err := s.repo.DeleteAddress(ctx, userID, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAddressNotFound
	}
	return nil
}

func (s *AccountService) Orders(ctx context.Context, userID string) ([]domain.Order, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	return s.orders.ListOrders(ctx, userID)
}

// Receipt returns the stored QR receipt, regenerating it when the order has
// none yet.
func (s *AccountService) Receipt(ctx context.Context, userID string, orderID int) ([]byte, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	qr, err := s.orders.GetReceipt(ctx, userID, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(qr) == 0 && s.qr != nil {
		regenerated, err := s.qr.Generate(orderID)
		if err != nil {
			s.logger.Warn().Err(err).Int("order_id", orderID).Msg("Failed to regenerate receipt")
			return qr, nil
		}
		if err := s.orders.SaveReceipt(ctx, orderID, regenerated); err != nil {
			s.logger.Warn().Err(err).Int("order_id", orderID).Msg("Failed to save regenerated receipt")
		}
		return regenerated, nil
	}
	return qr, nil
}

// Notifications lists the user's notifications newest first. Listing them
// marks them as seen.
func (s *AccountService) Notifications(ctx context.Context, userID string) ([]domain.Notification, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	notifications, err := s.repo.ListNotifications(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.Unread != nil {
		if err := s.Unread.ResetUnread(ctx, userID); err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("Failed to reset unread count")
		}
	}
	return notifications, nil
}

func (s *AccountService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, ErrUnauthenticated
	}
	if s.Unread == nil {
		return 0, nil
	}
	return s.Unread.Unread(ctx, userID)
}

var _ AccountServiceInterface = (*AccountService)(nil)
