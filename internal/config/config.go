package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

func Load() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("⚠️  No .env file found — continuing with system environment variables")
	} else {
		log.Println("✅ .env file loaded")
	}
}

// VNPayConfig holds the gateway credentials and endpoints. It is built once
// at startup and injected into the payment adapter, never rebuilt per call.
type VNPayConfig struct {
	TmnCode       string        // merchant code
	HashSecret    string        // HMAC-SHA512 signing secret
	PayURL        string        // gateway payment endpoint
	ReturnURL     string        // where the gateway redirects the buyer back
	Locale        string        // vn / en
	OrderType     string        // gateway product-type code
	PaymentExpiry time.Duration // redirect URL validity window
	CallTimeout   time.Duration // bound on any gateway-facing work
}

// LoadVNPay reads the gateway configuration from the environment.
func LoadVNPay() VNPayConfig {
	cfg := VNPayConfig{
		TmnCode:       os.Getenv("VNP_TMN_CODE"),
		HashSecret:    os.Getenv("VNP_HASH_SECRET"),
		PayURL:        os.Getenv("VNP_PAY_URL"),
		ReturnURL:     os.Getenv("VNP_RETURN_URL"),
		Locale:        os.Getenv("VNP_LOCALE"),
		OrderType:     os.Getenv("VNP_ORDER_TYPE"),
		PaymentExpiry: 24 * time.Hour,
		CallTimeout:   10 * time.Second,
	}
	if cfg.PayURL == "" {
		cfg.PayURL = "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"
	}
	if cfg.Locale == "" {
		cfg.Locale = "vn"
	}
	if cfg.OrderType == "" {
		cfg.OrderType = "other"
	}
	return cfg
}

// FrontendConfig holds the pages the payment return endpoint redirects to.
type FrontendConfig struct {
	PaymentSuccessURL string
	PaymentFailureURL string
}

func LoadFrontend() FrontendConfig {
	base := os.Getenv("FRONTEND_URL")
	if base == "" {
		base = "http://localhost:3000"
	}
	return FrontendConfig{
		PaymentSuccessURL: base + "/payment/success",
		PaymentFailureURL: base + "/payment/failure",
	}
}
