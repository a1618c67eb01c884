package slots

import (
	"context"
	"errors"
	"strconv"
	"time"

	"ironxpress/storefront-svc/internal/domain"

	"github.com/rs/zerolog"
)

// WindowDays is how many consecutive days are offered for pickup.
const WindowDays = 7

const dateLayout = "2006-01-02"

var (
	ErrDateOutOfWindow = errors.New("pickup date is outside the booking window")
	ErrUnknownSlot     = errors.New("unknown time slot")
	ErrSlotUnavailable = errors.New("time slot is not available")
)

// FallbackSlots is served whenever delivery_slots cannot be read or is empty.
func FallbackSlots() []domain.DeliverySlot {
	return []domain.DeliverySlot{
		{ID: "08:00-10:00", Label: "08:00 AM - 10:00 AM", Available: true},
		{ID: "10:00-12:00", Label: "10:00 AM - 12:00 PM", Available: true},
		{ID: "12:00-14:00", Label: "12:00 PM - 02:00 PM", Available: false},
		{ID: "14:00-16:00", Label: "02:00 PM - 04:00 PM", Available: true},
		{ID: "16:00-18:00", Label: "04:00 PM - 06:00 PM", Available: true},
		{ID: "18:00-20:00", Label: "06:00 PM - 08:00 PM", Available: true},
	}
}

// GenerateDates returns count consecutive calendar days starting at start's
// local day. Only the calendar day of start is used.
func GenerateDates(start time.Time, count int) []domain.SlotDate {
	y, m, d := start.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, start.Location())

	dates := make([]domain.SlotDate, 0, count)
	for i := 0; i < count; i++ {
		date := day.AddDate(0, 0, i)
		dates = append(dates, domain.SlotDate{
			Date:   date.Format(dateLayout),
			Day:    date.Format("Mon"),
			DayNum: strconv.Itoa(date.Day()),
			Month:  date.Format("Jan"),
		})
	}
	return dates
}

// SlotSource reads configured time slots.
type SlotSource interface {
	DeliverySlots(ctx context.Context) ([]domain.DeliverySlot, error)
}

type Selector struct {
	source SlotSource
	logger zerolog.Logger
	now    func() time.Time
}

func NewSelector(source SlotSource, logger zerolog.Logger) *Selector {
	return &Selector{source: source, logger: logger, now: time.Now}
}

type Availability struct {
	Dates     []domain.SlotDate     `json:"dates"`
	TimeSlots []domain.DeliverySlot `json:"timeSlots"`
	Fallback  bool                  `json:"fallback"`
}

// TimeSlots returns the configured slots, or FallbackSlots when the source
// fails or has none.
func (s *Selector) TimeSlots(ctx context.Context) ([]domain.DeliverySlot, bool) {
	slots, err := s.source.DeliverySlots(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("fetch delivery slots, using fallback")
		return FallbackSlots(), true
	}
	if len(slots) == 0 {
		return FallbackSlots(), true
	}
	return slots, false
}

func (s *Selector) Availability(ctx context.Context) Availability {
	slots, fallback := s.TimeSlots(ctx)
	return Availability{
		Dates:     GenerateDates(s.now(), WindowDays),
		TimeSlots: slots,
		Fallback:  fallback,
	}
}

// Validate checks a (date, slot) selection against the current window and
// slot availability.
func (s *Selector) Validate(ctx context.Context, date, slotID string) (domain.DeliverySlot, error) {
	inWindow := false
	for _, d := range GenerateDates(s.now(), WindowDays) {
		if d.Date == date {
			inWindow = true
			break
		}
	}
	if !inWindow {
		return domain.DeliverySlot{}, ErrDateOutOfWindow
	}

	slots, _ := s.TimeSlots(ctx)
	for _, slot := range slots {
		if slot.ID != slotID {
			continue
		}
		if !slot.Available {
			return slot, ErrSlotUnavailable
		}
		return slot, nil
	}
	return domain.DeliverySlot{}, ErrUnknownSlot
}
