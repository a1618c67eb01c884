package domain

import "time"

// CartLineItem is one product+service combination in a session's cart.
type CartLineItem struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Image        string  `json:"image"`
	Service      string  `json:"service"`
	Price        float64 `json:"price"`
	ServicePrice float64 `json:"servicePrice"`
	Quantity     int     `json:"quantity"`
	TotalPrice   float64 `json:"totalPrice"`
}

// Recompute restores TotalPrice == (Price + ServicePrice) * Quantity.
func (i *CartLineItem) Recompute() {
	i.TotalPrice = (i.Price + i.ServicePrice) * float64(i.Quantity)
}

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

type Coupon struct {
	Code              string   `json:"code"`
	DiscountType      string   `json:"discount_type"`
	DiscountValue     float64  `json:"discount_value"`
	MinimumOrderValue float64  `json:"minimum_order_value"`
	MaxDiscountAmount *float64 `json:"max_discount_amount"`
	Description       string   `json:"description"`
}

type ServiceAreaPincode struct {
	Pincode  string `json:"pincode"`
	IsActive bool   `json:"is_active"`
}

type DeliverySlot struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Available bool   `json:"available"`
}

// SlotDate is one selectable pickup day.
type SlotDate struct {
	Date   string `json:"date"`
	Day    string `json:"day"`
	DayNum string `json:"dayNum"`
	Month  string `json:"month"`
}

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	SortOrder   int    `json:"sort_order"`
}

type Product struct {
	ID           string  `json:"id"`
	CategoryID   string  `json:"category_id"`
	Name         string  `json:"product_name"`
	Price        float64 `json:"product_price"`
	Description  string  `json:"description"`
	ImageURL     string  `json:"image_url"`
	IsEnabled    bool    `json:"is_enabled"`
	CategoryName string  `json:"category_name,omitempty"`
}

type Service struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Icon        string  `json:"icon"`
	ColorHex    string  `json:"color_hex"`
	Description string  `json:"service_description"`
	Tag         string  `json:"tag,omitempty"`
	SortOrder   int     `json:"sort_order"`
}

type Banner struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	ImageURL  string `json:"image_url"`
	LinkURL   string `json:"link_url"`
	SortOrder int    `json:"sort_order"`
}

type Address struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	AddressType  string    `json:"address_type"`
	FullName     string    `json:"full_name"`
	PhoneNumber  string    `json:"phone_number"`
	AddressLine1 string    `json:"address_line_1"`
	AddressLine2 string    `json:"address_line_2"`
	Landmark     string    `json:"landmark"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Pincode      string    `json:"pincode"`
	IsDefault    bool      `json:"is_default"`
	CreatedAt    time.Time `json:"created_at"`
}

type UserProfile struct {
	UserID    string    `json:"user_id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	OrderStatusPlaced   = "placed"
	PaymentStatusPaid   = "paid"
	PaymentMethodOnline = "online"
)

type Order struct {
	ID            int            `json:"id"`
	UserID        string         `json:"user_id"`
	Items         []CartLineItem `json:"items"`
	Subtotal      float64        `json:"subtotal"`
	Discount      float64        `json:"discount_amount"`
	DeliveryFee   float64        `json:"delivery_fee"`
	TotalAmount   float64        `json:"total_amount"`
	CouponCode    string         `json:"coupon_code,omitempty"`
	Pincode       string         `json:"pincode"`
	PickupDate    string         `json:"pickup_date"`
	PickupSlot    string         `json:"pickup_slot"`
	OrderStatus   string         `json:"order_status"`
	PaymentMethod string         `json:"payment_method"`
	PaymentStatus string         `json:"payment_status"`
	ReceiptURL    string         `json:"receipt_url,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

type Notification struct {
	ID        int       `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type StoreAddress struct {
	ID                int       `json:"id"`
	StoreName         string    `json:"store_name"`
	AddressType       string    `json:"address_type"`
	ContactPersonName string    `json:"contact_person_name"`
	PhoneNumber       string    `json:"phone_number"`
	AddressLine1      string    `json:"address_line_1"`
	AddressLine2      string    `json:"address_line_2"`
	Landmark          string    `json:"landmark"`
	City              string    `json:"city"`
	State             string    `json:"state"`
	Pincode           string    `json:"pincode"`
	Latitude          *float64  `json:"latitude"`
	Longitude         *float64  `json:"longitude"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
}

// OrderEvent is published on the orders topic after a successful checkout.
type OrderEvent struct {
	Type        string    `json:"type"`
	OrderID     int       `json:"order_id"`
	UserID      string    `json:"user_id"`
	TotalAmount float64   `json:"total_amount"`
	PickupDate  string    `json:"pickup_date"`
	PickupSlot  string    `json:"pickup_slot"`
	Timestamp   time.Time `json:"timestamp"`
}

const EventOrderPlaced = "order_placed"

type CheckoutStep string

const (
	StepCart     CheckoutStep = "cart"
	StepLogin    CheckoutStep = "login"
	StepReview   CheckoutStep = "review"
	StepSlot     CheckoutStep = "slot"
	StepPayment  CheckoutStep = "payment"
	StepComplete CheckoutStep = "complete"
)

// CheckoutProgress is the per-session wizard state. It expires with the
// checkout TTL; the cart and coupon outlive it.
type CheckoutProgress struct {
	Step       CheckoutStep `json:"step"`
	Pincode    string       `json:"pincode,omitempty"`
	PickupDate string       `json:"pickup_date,omitempty"`
	PickupSlot string       `json:"pickup_slot,omitempty"`
	OrderID    int          `json:"order_id,omitempty"`
}
