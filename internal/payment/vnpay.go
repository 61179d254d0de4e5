package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"math"
	"net/url"
	"strconv"
	"time"

	"lumiskin_back_end/internal/config"
)

// Request is the transient view of an order handed to the gateway: the order
// id as reference, the locked-in total, and the 24h validity window.
type Request struct {
	Reference string
	Amount    float64
	OrderInfo string
	ClientIP  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

const (
	vnpVersion  = "2.1.0"
	vnpCommand  = "pay"
	vnpCurrency = "VND"
	timeLayout  = "20060102150405"

	// ResponseCodeSuccess is the gateway's "payment accepted" code.
	ResponseCodeSuccess = "00"
)

var ErrMissingCredentials = errors.New("vnpay merchant code or secret is not configured")

// VNPayClient signs redirect URLs and verifies callbacks with a single
// process-scoped configuration, never rebuilt per call.
type VNPayClient struct {
	cfg config.VNPayConfig
}

func NewVNPayClient(cfg config.VNPayConfig) *VNPayClient {
	return &VNPayClient{cfg: cfg}
}

// BuildRedirectURL builds the signed payment URL for a request. Pure
// request/response, no gateway round-trip; the context bounds nothing today
// but keeps the call shape of an external dependency.
func (c *VNPayClient) BuildRedirectURL(_ context.Context, req Request) (string, error) {
	if c.cfg.TmnCode == "" || c.cfg.HashSecret == "" {
		return "", ErrMissingCredentials
	}

	params := url.Values{}
	params.Set("vnp_Version", vnpVersion)
	params.Set("vnp_Command", vnpCommand)
	params.Set("vnp_TmnCode", c.cfg.TmnCode)
	params.Set("vnp_Locale", c.cfg.Locale)
	params.Set("vnp_CurrCode", vnpCurrency)
	params.Set("vnp_TxnRef", req.Reference)
	params.Set("vnp_OrderInfo", req.OrderInfo)
	params.Set("vnp_OrderType", c.cfg.OrderType)
	// The gateway wants the amount in minor units.
	params.Set("vnp_Amount", strconv.FormatInt(int64(math.Round(req.Amount*100)), 10))
	params.Set("vnp_ReturnUrl", c.cfg.ReturnURL)
	params.Set("vnp_IpAddr", req.ClientIP)
	params.Set("vnp_CreateDate", req.CreatedAt.Format(timeLayout))
	params.Set("vnp_ExpireDate", req.ExpiresAt.Format(timeLayout))

	// Signature covers the URL-encoded query in key order.
	signData := params.Encode()
	params.Set("vnp_SecureHash", c.sign(signData))

	return c.cfg.PayURL + "?" + params.Encode(), nil
}

// VerifyCallback checks the gateway signature on a return/IPN query.
// The secure-hash fields themselves are excluded from the signed data.
func (c *VNPayClient) VerifyCallback(query url.Values) bool {
	received := query.Get("vnp_SecureHash")
	if received == "" {
		return false
	}

	signed := url.Values{}
	for key, values := range query {
		if key == "vnp_SecureHash" || key == "vnp_SecureHashType" {
			continue
		}
		for _, v := range values {
			signed.Add(key, v)
		}
	}

	expected := c.sign(signed.Encode())
	return hmac.Equal([]byte(expected), []byte(received))
}

func (c *VNPayClient) sign(data string) string {
	mac := hmac.New(sha512.New, []byte(c.cfg.HashSecret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}
