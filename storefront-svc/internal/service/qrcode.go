package service

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// ReceiptQRGenerator encodes a link to the order in the storefront's order
// history.
type ReceiptQRGenerator struct {
	BaseURL string
}

func (g ReceiptQRGenerator) Link(orderID int) string {
	return fmt.Sprintf("%s/order-history?order=%d", g.BaseURL, orderID)
}

func (g ReceiptQRGenerator) Generate(orderID int) ([]byte, error) {
	return qrcode.Encode(g.Link(orderID), qrcode.Medium, 256)
}

var _ QRGenerator = ReceiptQRGenerator{}
