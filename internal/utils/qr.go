package utils

import (
	"encoding/base64"

	qrcode "github.com/skip2/go-qrcode"
)

// PaymentQRBase64 renders the gateway redirect URL as a QR code PNG, base64
// encoded for direct embedding in the checkout response.
func PaymentQRBase64(paymentURL string) (string, error) {
	png, err := qrcode.Encode(paymentURL, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
