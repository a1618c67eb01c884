package service

import (
	"errors"
	"strings"

	"ironxpress/storefront-svc/internal/cart"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrNotServiceable    = errors.New("location is not serviceable")
	ErrUnauthenticated   = errors.New("sign in required")
	ErrInvalidSlot       = errors.New("invalid pickup slot")
	ErrItemNotFound      = cart.ErrItemNotFound
	ErrCouponNotFound    = errors.New("coupon not found")
	ErrStepOrder         = errors.New("checkout step not reached")
	ErrInvalidQuantity   = errors.New("quantity must be a number")
	ErrInvalidItem       = errors.New("item needs a name and non-negative prices")
	ErrInvalidAddress    = errors.New("address_line_1 is required")
	ErrAddressNotFound   = errors.New("address not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrStoreTableMissing = errors.New("store addresses table does not exist")
)

// MissingFieldsError lists required store fields absent from a request.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "Missing required fields: " + strings.Join(e.Fields, ", ")
}
