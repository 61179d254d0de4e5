package order

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"lumiskin_back_end/internal/config"
	"lumiskin_back_end/internal/models"
	"lumiskin_back_end/internal/orders"
	"lumiskin_back_end/internal/payment"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory stores so the full HTTP surface runs without a cluster.

type memProducts struct {
	mu    sync.Mutex
	items map[gocql.UUID]*models.Product
}

func (m *memProducts) GetByID(_ context.Context, id gocql.UUID) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return nil, orders.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProducts) ReserveStock(_ context.Context, id gocql.UUID, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return orders.ErrProductNotFound
	}
	if p.Quantity < qty {
		return &orders.InsufficientStockError{
			ProductID:   id,
			ProductName: p.Name,
			Available:   p.Quantity,
			Requested:   qty,
		}
	}
	p.Quantity -= qty
	return nil
}

func (m *memProducts) RestoreStock(_ context.Context, id gocql.UUID, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return orders.ErrProductNotFound
	}
	p.Quantity += qty
	return nil
}

func (m *memProducts) stock(id gocql.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[id].Quantity
}

type memOrders struct {
	mu    sync.Mutex
	items map[gocql.UUID]*models.Order
}

func (m *memOrders) Insert(_ context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *order
	m.items[order.ID] = &cp
	return nil
}

func (m *memOrders) Delete(_ context.Context, id gocql.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

func (m *memOrders) GetByID(_ context.Context, id gocql.UUID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.items[id]
	if !ok {
		return nil, orders.ErrOrderNotFound
	}
	cp := *order
	return &cp, nil
}

func (m *memOrders) ListByAccount(_ context.Context, accountID string) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, order := range m.items {
		if order.AccountID == accountID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (m *memOrders) CompareAndSetStatus(_ context.Context, id gocql.UUID, from, to models.OrderStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.items[id]
	if !ok {
		return false, orders.ErrOrderNotFound
	}
	if order.Status != from {
		return false, nil
	}
	order.Status = to
	return true, nil
}

func (m *memOrders) ListStalePending(_ context.Context, cutoff time.Time) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, order := range m.items {
		if order.Status == models.OrderPending && order.CreatedAt.Before(cutoff) {
			out = append(out, *order)
		}
	}
	return out, nil
}

type memRefunds struct {
	mu    sync.Mutex
	items []models.Refund
}

func (m *memRefunds) Insert(_ context.Context, refund *models.Refund) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, *refund)
	return nil
}

type memPromotions struct{}

func (memPromotions) GetByID(_ context.Context, _ gocql.UUID) (*models.Promotion, error) {
	return nil, orders.ErrPromotionNotFound
}

type memAccounts struct{}

func (memAccounts) GetByID(_ context.Context, id string) (*models.Account, error) {
	return &models.Account{ID: id, Name: "Linh", Email: "linh@example.com"}, nil
}

type env struct {
	router   *gin.Engine
	products *memProducts
	orders   *memOrders
	refunds  *memRefunds
	cfg      config.VNPayConfig
}

// authAs injects the identity the JWT middleware would have set.
func authAs(accountID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if accountID != "" {
			c.Set("account_id", accountID)
			c.Set("role", role)
		}
		c.Next()
	}
}

func setup(t *testing.T, accountID, role string) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.VNPayConfig{
		TmnCode:       "LUMISKIN",
		HashSecret:    "ULTRASECRETKEY",
		PayURL:        "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		ReturnURL:     "https://shop.example.com/api/order/vnpay-return",
		Locale:        "vn",
		OrderType:     "other",
		PaymentExpiry: 24 * time.Hour,
		CallTimeout:   time.Second,
	}
	client := payment.NewVNPayClient(cfg)

	e := &env{
		products: &memProducts{items: make(map[gocql.UUID]*models.Product)},
		orders:   &memOrders{items: make(map[gocql.UUID]*models.Order)},
		refunds:  &memRefunds{},
		cfg:      cfg,
	}

	svc := orders.NewService(e.products, e.orders, e.refunds, memPromotions{},
		memAccounts{}, client, nil, nil, cfg.CallTimeout)

	frontend := config.FrontendConfig{
		PaymentSuccessURL: "https://shop.example.com/payment/success",
		PaymentFailureURL: "https://shop.example.com/payment/failure",
	}
	h := NewHandler(svc, client, frontend)

	r := gin.New()
	group := r.Group("/api/order", authAs(accountID, role))
	group.POST("/add-to-cart", h.AddToCart)
	group.GET("/account/:id", h.ListAccountOrders)
	group.GET("/:id", h.GetOrder)
	group.POST("/cancel-order/:id", h.CancelOrder)
	r.GET("/api/order/vnpay-return", h.VNPayReturn)

	e.router = r
	return e
}

func (e *env) addProduct(t *testing.T, name string, price float64, stock int) gocql.UUID {
	t.Helper()
	id := gocql.TimeUUID()
	e.products.items[id] = &models.Product{ID: id, Name: name, Price: price, Quantity: stock}
	return id
}

func (e *env) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// signedReturnQuery builds a gateway return query signed the way the gateway
// would sign it.
func signedReturnQuery(secret string, orderID gocql.UUID, responseCode string) string {
	params := url.Values{}
	params.Set("vnp_TxnRef", orderID.String())
	params.Set("vnp_ResponseCode", responseCode)
	params.Set("vnp_TmnCode", "LUMISKIN")
	params.Set("vnp_Amount", "30000000")
	params.Set("vnp_TransactionNo", "14226112")

	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(params.Encode()))
	params.Set("vnp_SecureHash", hex.EncodeToString(mac.Sum(nil)))
	return params.Encode()
}

func (e *env) placedOrderID(t *testing.T, productID gocql.UUID, qty int) gocql.UUID {
	t.Helper()
	rec := e.do(http.MethodPost, "/api/order/add-to-cart", gin.H{
		"items": []gin.H{{"product": productID.String(), "quantity": qty}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		OrderID gocql.UUID `json:"orderId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.OrderID
}

func TestAddToCart(t *testing.T) {
	t.Run("Successful submission returns payment URL and QR", func(t *testing.T) {
		e := setup(t, "acc-1", "customer")
		productID := e.addProduct(t, "Niacinamide Serum", 100, 10)

		rec := e.do(http.MethodPost, "/api/order/add-to-cart", gin.H{
			"items": []gin.H{{"product": productID.String(), "quantity": 3}},
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp struct {
			OrderID       gocql.UUID `json:"orderId"`
			VNPayResponse struct {
				PaymentURL string `json:"paymentUrl"`
				QRCode     string `json:"qrCode"`
			} `json:"vnpayResponse"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.VNPayResponse.PaymentURL, "vnp_SecureHash=")
		assert.Contains(t, resp.VNPayResponse.PaymentURL, "vnp_TxnRef="+resp.OrderID.String())
		assert.NotEmpty(t, resp.VNPayResponse.QRCode)
		assert.Equal(t, 7, e.products.stock(productID))

		stored, err := e.orders.GetByID(context.Background(), resp.OrderID)
		require.NoError(t, err)
		assert.Equal(t, models.OrderPending, stored.Status)
		assert.Equal(t, 300.0, stored.TotalAmount)
	})

	t.Run("Unauthenticated request is rejected", func(t *testing.T) {
		e := setup(t, "", "")
		rec := e.do(http.MethodPost, "/api/order/add-to-cart", gin.H{"items": []gin.H{}})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Malformed product id is rejected", func(t *testing.T) {
		e := setup(t, "acc-1", "customer")
		rec := e.do(http.MethodPost, "/api/order/add-to-cart", gin.H{
			"items": []gin.H{{"product": "not-a-uuid", "quantity": 1}},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Unknown product maps to 404", func(t *testing.T) {
		e := setup(t, "acc-1", "customer")
		rec := e.do(http.MethodPost, "/api/order/add-to-cart", gin.H{
			"items": []gin.H{{"product": gocql.TimeUUID().String(), "quantity": 1}},
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Insufficient stock reports both counts", func(t *testing.T) {
		e := setup(t, "acc-1", "customer")
		productID := e.addProduct(t, "Rose Toner", 50, 2)

		rec := e.do(http.MethodPost, "/api/order/add-to-cart", gin.H{
			"items": []gin.H{{"product": productID.String(), "quantity": 5}},
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp struct {
			Available int `json:"available"`
			Requested int `json:"requested"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.Available)
		assert.Equal(t, 5, resp.Requested)
		assert.Equal(t, 2, e.products.stock(productID), "nothing was reserved")
	})
}

func TestVNPayReturn(t *testing.T) {
	t.Run("Signed success confirms the order and redirects", func(t *testing.T) {
		e := setup(t, "acc-1", "customer")
		productID := e.addProduct(t, "Niacinamide Serum", 100, 10)
		orderID := e.placedOrderID(t, productID, 3)

		query := signedReturnQuery(e.cfg.HashSecret, orderID, payment.ResponseCodeSuccess)
		rec := e.do(http.MethodGet, "/api/order/vnpay-return?"+query, nil)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Contains(t, rec.Header().Get("Location"), "/payment/success")

		stored, err := e.orders.GetByID(context.Background(), orderID)
		require.NoError(t, err)
		assert.Equal(t, models.OrderPaid, stored.Status)
	})

	t.Run("Failure code leaves the order Pending", func(t *testing.T) {
		e := setup(t, "acc-1", "customer")
		productID := e.addProduct(t, "Niacinamide Serum", 100, 10)
		orderID := e.placedOrderID(t, productID, 3)

		query := signedReturnQuery(e.cfg.HashSecret, orderID, "24")
		rec := e.do(http.MethodGet, "/api/order/vnpay-return?"+query, nil)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Contains(t, rec.Header().Get("Location"), "/payment/failure")

		stored, err := e.orders.GetByID(context.Background(), orderID)
		require.NoError(t, err)
		assert.Equal(t, models.OrderPending, stored.Status)
		assert.Equal(t, 7, e.products.stock(productID), "stock stays reserved")
	})

	t.Run("Tampered signature is rejected before any state change", func(t *testing.T) {
		e := setup(t, "acc-1", "customer")
		productID := e.addProduct(t, "Niacinamide Serum", 100, 10)
		orderID := e.placedOrderID(t, productID, 3)

		query := signedReturnQuery("WRONGSECRET", orderID, payment.ResponseCodeSuccess)
		rec := e.do(http.MethodGet, "/api/order/vnpay-return?"+query, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		stored, err := e.orders.GetByID(context.Background(), orderID)
		require.NoError(t, err)
		assert.Equal(t, models.OrderPending, stored.Status)
	})
}

func TestCancelOrder(t *testing.T) {
	paidOrder := func(t *testing.T, e *env, productID gocql.UUID) gocql.UUID {
		orderID := e.placedOrderID(t, productID, 3)
		query := signedReturnQuery(e.cfg.HashSecret, orderID, payment.ResponseCodeSuccess)
		rec := e.do(http.MethodGet, "/api/order/vnpay-return?"+query, nil)
		require.Equal(t, http.StatusFound, rec.Code)
		return orderID
	}

	t.Run("Paid order refunds half and restores stock", func(t *testing.T) {
		e := setup(t, "acc-1", "customer")
		productID := e.addProduct(t, "Niacinamide Serum", 100, 10)
		orderID := paidOrder(t, e, productID)

		rec := e.do(http.MethodPost, fmt.Sprintf("/api/order/cancel-order/%s", orderID), nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp struct {
			RefundAmount float64 `json:"refundAmount"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 150.0, resp.RefundAmount)
		assert.Equal(t, 10, e.products.stock(productID))
	})

	t.Run("Pending order cannot be canceled", func(t *testing.T) {
		e := setup(t, "acc-1", "customer")
		productID := e.addProduct(t, "Niacinamide Serum", 100, 10)
		orderID := e.placedOrderID(t, productID, 3)

		rec := e.do(http.MethodPost, fmt.Sprintf("/api/order/cancel-order/%s", orderID), nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "only paid orders can be canceled")
	})

	t.Run("Unknown order maps to 404", func(t *testing.T) {
		e := setup(t, "acc-1", "customer")
		rec := e.do(http.MethodPost, fmt.Sprintf("/api/order/cancel-order/%s", gocql.TimeUUID()), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGetOrder(t *testing.T) {
	t.Run("Owner reads own order", func(t *testing.T) {
		e := setup(t, "acc-1", "customer")
		productID := e.addProduct(t, "Niacinamide Serum", 100, 10)
		orderID := e.placedOrderID(t, productID, 1)

		rec := e.do(http.MethodGet, fmt.Sprintf("/api/order/%s", orderID), nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Own order history is readable", func(t *testing.T) {
		e := setup(t, "acc-1", "customer")
		productID := e.addProduct(t, "Niacinamide Serum", 100, 10)
		e.placedOrderID(t, productID, 1)

		rec := e.do(http.MethodGet, "/api/order/account/acc-1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"count":1`)
	})

	t.Run("Foreign order history is forbidden", func(t *testing.T) {
		e := setup(t, "acc-1", "customer")
		rec := e.do(http.MethodGet, "/api/order/account/acc-2", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Foreign order is forbidden", func(t *testing.T) {
		e := setup(t, "acc-1", "customer")
		productID := e.addProduct(t, "Niacinamide Serum", 100, 10)
		orderID := e.placedOrderID(t, productID, 1)

		e.orders.mu.Lock()
		e.orders.items[orderID].AccountID = "someone-else"
		e.orders.mu.Unlock()

		rec := e.do(http.MethodGet, fmt.Sprintf("/api/order/%s", orderID), nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
