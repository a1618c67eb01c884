package service

import (
	"context"
	"fmt"
	"time"

	"ironxpress/storefront-svc/internal/cart"
	"ironxpress/storefront-svc/internal/domain"
	"ironxpress/storefront-svc/internal/serviceability"
	"ironxpress/storefront-svc/internal/slots"

	"github.com/rs/zerolog"
)

var stepRank = map[domain.CheckoutStep]int{
	domain.StepCart:     0,
	domain.StepLogin:    1,
	domain.StepReview:   2,
	domain.StepSlot:     3,
	domain.StepPayment:  4,
	domain.StepComplete: 5,
}

type CheckoutState struct {
	Step           domain.CheckoutStep     `json:"step"`
	Progress       domain.CheckoutProgress `json:"progress"`
	Cart           *CartView               `json:"cart"`
	Serviceability *serviceability.Result  `json:"serviceability,omitempty"`
}

type CheckoutDeps struct {
	Cart           *CartService
	Store          *cart.Store
	Checker        *serviceability.Checker
	Slots          *slots.Selector
	Progress       ProgressStore
	Orders         OrderRepository
	QR             QRGenerator
	Publisher      OrderPublisher
	ReceiptBaseURL string
}

// CheckoutService drives the cart, login, review, slot, payment and complete
// wizard for one session. Each step may only be entered from the step
// before it or a later one; confirming the area restarts the flow.
type CheckoutService struct {
	CheckoutDeps
	logger zerolog.Logger
	now    func() time.Time
}

func NewCheckoutService(deps CheckoutDeps, logger zerolog.Logger) *CheckoutService {
	return &CheckoutService{CheckoutDeps: deps, logger: logger, now: time.Now}
}

func (s *CheckoutService) load(ctx context.Context, session string) domain.CheckoutProgress {
	progress, err := s.Progress.Load(ctx, session)
	if err != nil {
		s.logger.Warn().Err(err).Str("session", session).Msg("load checkout progress")
	}
	return progress
}

func (s *CheckoutService) save(ctx context.Context, session string, progress domain.CheckoutProgress) error {
	if err := s.Progress.Save(ctx, session, progress); err != nil {
		return fmt.Errorf("save checkout progress: %w", err)
	}
	return nil
}

func requireStep(progress domain.CheckoutProgress, min domain.CheckoutStep) error {
	if progress.Step == domain.StepComplete || stepRank[progress.Step] < stepRank[min] {
		return fmt.Errorf("%w: at %s, need %s", ErrStepOrder, progress.Step, min)
	}
	return nil
}

func (s *CheckoutService) state(progress domain.CheckoutProgress, view *CartView) *CheckoutState {
	return &CheckoutState{Step: progress.Step, Progress: progress, Cart: view}
}

func (s *CheckoutService) nonEmptyCart(ctx context.Context, session string) (*CartView, error) {
	view, err := s.Cart.View(ctx, session)
	if err != nil {
		return nil, err
	}
	if len(view.Items) == 0 {
		return view, ErrEmptyCart
	}
	return view, nil
}

func (s *CheckoutService) State(ctx context.Context, session string) (*CheckoutState, error) {
	view, err := s.Cart.View(ctx, session)
	if err != nil {
		return nil, err
	}
	return s.state(s.load(ctx, session), view), nil
}

// ConfirmArea checks the pincode and moves to login. On an unserviceable
// pincode the returned state carries the result alongside ErrNotServiceable.
func (s *CheckoutService) ConfirmArea(ctx context.Context, session, pincode string) (*CheckoutState, error) {
	view, err := s.nonEmptyCart(ctx, session)
	if err != nil {
		return nil, err
	}

	result := s.Checker.Check(ctx, pincode)
	if !result.Available {
		state := s.state(s.load(ctx, session), view)
		state.Serviceability = &result
		return state, ErrNotServiceable
	}

	progress := domain.CheckoutProgress{Step: domain.StepLogin, Pincode: result.Pincode}
	if err := s.save(ctx, session, progress); err != nil {
		return nil, err
	}
	state := s.state(progress, view)
	state.Serviceability = &result
	return state, nil
}

func (s *CheckoutService) Login(ctx context.Context, session, userID string) (*CheckoutState, error) {
	progress := s.load(ctx, session)
	if err := requireStep(progress, domain.StepLogin); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	view, err := s.Cart.View(ctx, session)
	if err != nil {
		return nil, err
	}
	progress.Step = domain.StepReview
	if err := s.save(ctx, session, progress); err != nil {
		return nil, err
	}
	return s.state(progress, view), nil
}

func (s *CheckoutService) Review(ctx context.Context, session, userID string) (*CheckoutState, error) {
	progress := s.load(ctx, session)
	if err := requireStep(progress, domain.StepReview); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	view, err := s.nonEmptyCart(ctx, session)
	if err != nil {
		return nil, err
	}

	progress.Step = domain.StepSlot
	if err := s.save(ctx, session, progress); err != nil {
		return nil, err
	}
	return s.state(progress, view), nil
}

func (s *CheckoutService) SelectSlot(ctx context.Context, session, userID, date, slotID string) (*CheckoutState, error) {
	progress := s.load(ctx, session)
	if err := requireStep(progress, domain.StepSlot); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	view, err := s.nonEmptyCart(ctx, session)
	if err != nil {
		return nil, err
	}
	if _, err := s.Slots.Validate(ctx, date, slotID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSlot, err)
	}

	progress.Step = domain.StepPayment
	progress.PickupDate = date
	progress.PickupSlot = slotID
	if err := s.save(ctx, session, progress); err != nil {
		return nil, err
	}
	return s.state(progress, view), nil
}

// Pay simulates a successful payment and places the order. Receipt,
// notification and progress bookkeeping failures are logged; the order
// stands once inserted.
func (s *CheckoutService) Pay(ctx context.Context, session, userID string) (*domain.Order, error) {
	progress := s.load(ctx, session)
	if err := requireStep(progress, domain.StepPayment); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	view, err := s.nonEmptyCart(ctx, session)
	if err != nil {
		return nil, err
	}
	if _, err := s.Slots.Validate(ctx, progress.PickupDate, progress.PickupSlot); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSlot, err)
	}

	order := &domain.Order{
		UserID:        userID,
		Items:         view.Items,
		Subtotal:      view.Summary.Subtotal,
		Discount:      view.Summary.Discount,
		DeliveryFee:   view.Summary.DeliveryFee,
		TotalAmount:   view.Summary.Total,
		Pincode:       progress.Pincode,
		PickupDate:    progress.PickupDate,
		PickupSlot:    progress.PickupSlot,
		OrderStatus:   domain.OrderStatusPlaced,
		PaymentMethod: domain.PaymentMethodOnline,
		PaymentStatus: domain.PaymentStatusPaid,
	}
	if view.Coupon != nil && view.Summary.Discount > 0 {
		order.CouponCode = view.Coupon.Code
	}

	if err := s.Orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	log := s.logger.With().Int("order_id", order.ID).Str("session", session).Logger()

	if s.QR != nil {
		if qr, err := s.QR.Generate(order.ID); err != nil {
			log.Warn().Err(err).Msg("generate receipt")
		} else if err := s.Orders.SaveReceipt(ctx, order.ID, qr); err != nil {
			log.Warn().Err(err).Msg("save receipt")
		} else {
			order.ReceiptURL = fmt.Sprintf("%s/api/orders/%d/receipt", s.ReceiptBaseURL, order.ID)
		}
	}

	if err := s.Store.Clear(ctx, session); err != nil {
		log.Warn().Err(err).Msg("clear cart after order")
	}

	if s.Publisher != nil {
		event := domain.OrderEvent{
			Type:        domain.EventOrderPlaced,
			OrderID:     order.ID,
			UserID:      userID,
			TotalAmount: order.TotalAmount,
			PickupDate:  order.PickupDate,
			PickupSlot:  order.PickupSlot,
			Timestamp:   s.now().UTC(),
		}
		if err := s.Publisher.PublishOrder(ctx, event); err != nil {
			log.Warn().Err(err).Msg("publish order event")
		}
	}

	progress = domain.CheckoutProgress{Step: domain.StepComplete, OrderID: order.ID}
	if err := s.Progress.Save(ctx, session, progress); err != nil {
		log.Warn().Err(err).Msg("save checkout progress")
	}

	log.Info().Float64("total", order.TotalAmount).Msg("order placed")
	return order, nil
}

var _ CheckoutServiceInterface = (*CheckoutService)(nil)
