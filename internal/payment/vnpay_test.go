package payment

import (
	"context"
	"net/url"
	"testing"
	"time"

	"lumiskin_back_end/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.VNPayConfig {
	return config.VNPayConfig{
		TmnCode:    "LUMISKIN",
		HashSecret: "ULTRASECRETKEY",
		PayURL:     "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		ReturnURL:  "https://shop.example.com/api/order/vnpay-return",
		Locale:     "vn",
		OrderType:  "other",
	}
}

func testRequest() Request {
	created := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	return Request{
		Reference: "0f0b9aa0-0102-11f0-8f5e-000000000000",
		Amount:    300000,
		OrderInfo: "Payment for order 0f0b9aa0",
		ClientIP:  "203.0.113.7",
		CreatedAt: created,
		ExpiresAt: created.Add(24 * time.Hour),
	}
}

func TestBuildRedirectURL(t *testing.T) {
	client := NewVNPayClient(testConfig())

	raw, err := client.BuildRedirectURL(context.Background(), testRequest())
	require.NoError(t, err)

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	query := parsed.Query()

	assert.Equal(t, "sandbox.vnpayment.vn", parsed.Host)
	assert.Equal(t, "2.1.0", query.Get("vnp_Version"))
	assert.Equal(t, "pay", query.Get("vnp_Command"))
	assert.Equal(t, "LUMISKIN", query.Get("vnp_TmnCode"))
	assert.Equal(t, "0f0b9aa0-0102-11f0-8f5e-000000000000", query.Get("vnp_TxnRef"))
	assert.Equal(t, "30000000", query.Get("vnp_Amount"), "amount is in minor units")
	assert.Equal(t, "20250314150926", query.Get("vnp_CreateDate"))
	assert.Equal(t, "20250315150926", query.Get("vnp_ExpireDate"), "expiry is creation + 24h")
	assert.NotEmpty(t, query.Get("vnp_SecureHash"))

	t.Run("Deterministic for identical input", func(t *testing.T) {
		again, err := client.BuildRedirectURL(context.Background(), testRequest())
		require.NoError(t, err)
		assert.Equal(t, raw, again)
	})
}

func TestBuildRedirectURLMissingCredentials(t *testing.T) {
	cfg := testConfig()
	cfg.HashSecret = ""
	client := NewVNPayClient(cfg)

	_, err := client.BuildRedirectURL(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestVerifyCallback(t *testing.T) {
	client := NewVNPayClient(testConfig())

	raw, err := client.BuildRedirectURL(context.Background(), testRequest())
	require.NoError(t, err)
	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	t.Run("Accepts a signature it produced", func(t *testing.T) {
		assert.True(t, client.VerifyCallback(parsed.Query()))
	})

	t.Run("Rejects a tampered amount", func(t *testing.T) {
		query := parsed.Query()
		query.Set("vnp_Amount", "100")
		assert.False(t, client.VerifyCallback(query))
	})

	t.Run("Rejects a missing signature", func(t *testing.T) {
		query := parsed.Query()
		query.Del("vnp_SecureHash")
		assert.False(t, client.VerifyCallback(query))
	})

	t.Run("Rejects a signature under another secret", func(t *testing.T) {
		other := testConfig()
		other.HashSecret = "DIFFERENTSECRET"
		assert.False(t, NewVNPayClient(other).VerifyCallback(parsed.Query()))
	})

	t.Run("Ignores the hash-type field", func(t *testing.T) {
		query := parsed.Query()
		query.Set("vnp_SecureHashType", "HmacSHA512")
		assert.True(t, client.VerifyCallback(query))
	})
}
