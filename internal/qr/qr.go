package qr

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/skip2/go-qrcode"
)

// Generator renders pickup QR codes for placed orders. The encoded payload
// is the order's public tracking URL so the counter can scan it with any
// reader.
type Generator interface {
	Generate(orderID int) ([]byte, error)
}

type PickupQR struct {
	BaseURL string
}

func (g PickupQR) Generate(orderID int) ([]byte, error) {
	payload := fmt.Sprintf("%s/orders/%d/track", g.BaseURL, orderID)
	return qrcode.Encode(payload, qrcode.Medium, 256)
}

// SaveTo writes the PNG for an order into dir and returns the file path.
func SaveTo(g Generator, dir string, orderID int) (string, error) {
	png, err := g.Generate(orderID)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("order-%d.png", orderID))
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
