package service

import (
	"context"
	"errors"
	"time"

	"ironxpress/storefront-svc/internal/domain"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"
)

// RefData reads coupons, pincodes and slots on every call. Concurrent reads
// of the same table share one query, and a breaker stops hammering the
// database once it keeps failing.
type RefData struct {
	repo    ReferenceRepository
	sfg     singleflight.Group
	breaker *gobreaker.CircuitBreaker[any]
	logger  zerolog.Logger
}

func NewRefData(repo ReferenceRepository, logger zerolog.Logger) *RefData {
	settings := gobreaker.Settings{
		Name:        "refdata",
		MaxRequests: 1,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	}
	return &RefData{
		repo:    repo,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
		logger:  logger,
	}
}

// fetch runs query under the caller's context. A follower whose shared
// query was cancelled by the leader's disconnect runs it again.
func (d *RefData) fetch(ctx context.Context, key string, query func(context.Context) (any, error)) (any, error) {
	for attempt := 0; ; attempt++ {
		ch := d.sfg.DoChan(key, func() (any, error) {
			return d.breaker.Execute(func() (any, error) {
				return query(ctx)
			})
		})

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res := <-ch:
			if attempt == 0 && errors.Is(res.Err, context.Canceled) && ctx.Err() == nil {
				continue
			}
			return res.Val, res.Err
		}
	}
}

func (d *RefData) Coupons(ctx context.Context) ([]domain.Coupon, error) {
	v, err := d.fetch(ctx, "coupons", func(ctx context.Context) (any, error) {
		return d.repo.ActiveCoupons(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Coupon), nil
}

func (d *RefData) ActivePincodes(ctx context.Context) ([]string, error) {
	v, err := d.fetch(ctx, "pincodes", func(ctx context.Context) (any, error) {
		return d.repo.ActivePincodes(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

func (d *RefData) DeliverySlots(ctx context.Context) ([]domain.DeliverySlot, error) {
	v, err := d.fetch(ctx, "slots", func(ctx context.Context) (any, error) {
		return d.repo.DeliverySlots(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.DeliverySlot), nil
}

// FindCoupon looks a code up among the active coupons. A lookup failure
// reads as "not found".
func (d *RefData) FindCoupon(ctx context.Context, code string) *domain.Coupon {
	if code == "" {
		return nil
	}
	coupons, err := d.Coupons(ctx)
	if err != nil {
		d.logger.Warn().Err(err).Msg("fetch coupons")
		return nil
	}
	for i := range coupons {
		if coupons[i].Code == code {
			return &coupons[i]
		}
	}
	return nil
}
