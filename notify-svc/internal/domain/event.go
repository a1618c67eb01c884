package domain

import (
	"fmt"
	"time"
)

const EventOrderPlaced = "order_placed"

// OrderEvent is the storefront's order_placed message.
type OrderEvent struct {
	Type        string    `json:"type"`
	OrderID     int       `json:"order_id"`
	UserID      string    `json:"user_id"`
	TotalAmount float64   `json:"total_amount"`
	PickupDate  string    `json:"pickup_date"`
	PickupSlot  string    `json:"pickup_slot"`
	Timestamp   time.Time `json:"timestamp"`
}

type Notification struct {
	UserID  string
	Title   string
	Message string
}

const TitleOrderPlaced = "Order placed"

func OrderPlacedNotification(evt OrderEvent) Notification {
	return Notification{
		UserID: evt.UserID,
		Title:  TitleOrderPlaced,
		Message: fmt.Sprintf("Your order #%d is confirmed. Pickup on %s, %s. Total ₹%.2f",
			evt.OrderID, evt.PickupDate, evt.PickupSlot, evt.TotalAmount),
	}
}
