package services

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

// QRGenerator renders the receipt QR code of an order as PNG.
type QRGenerator interface {
	Generate(orderID int64) ([]byte, error)
}

// ReceiptQRGenerator encodes a link to the order's receipt page on the frontend.
type ReceiptQRGenerator struct {
	BaseURL string
	Size    int
}

// ReceiptURL is the link encoded for orderID.
func (g ReceiptQRGenerator) ReceiptURL(orderID int64) string {
	return fmt.Sprintf("%s/orders/%d", strings.TrimRight(g.BaseURL, "/"), orderID)
}

func (g ReceiptQRGenerator) Generate(orderID int64) ([]byte, error) {
	size := g.Size
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(g.ReceiptURL(orderID), qrcode.Medium, size)
}
