package order

import (
	"errors"
	"log"
	"net/http"

	"lumiskin_back_end/internal/config"
	"lumiskin_back_end/internal/middleware"
	"lumiskin_back_end/internal/models"
	"lumiskin_back_end/internal/orders"
	"lumiskin_back_end/internal/payment"
	"lumiskin_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// Handler exposes the order workflow over HTTP. All the semantics live in
// orders.Service; this layer only translates requests, errors and redirects.
type Handler struct {
	svc      *orders.Service
	client   *payment.VNPayClient
	frontend config.FrontendConfig
}

func NewHandler(svc *orders.Service, client *payment.VNPayClient, frontend config.FrontendConfig) *Handler {
	return &Handler{svc: svc, client: client, frontend: frontend}
}

type cartItem struct {
	ProductID string `json:"product" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type addToCartRequest struct {
	Items     []cartItem `json:"items" binding:"required"`
	Promotion string     `json:"promotion"`
}

// AddToCart submits the cart: stock is reserved, the Pending order is stored
// and the signed payment URL (plus its QR code) comes back to the client.
func (h *Handler) AddToCart(c *gin.Context) {
	accountID := c.GetString("account_id")
	if accountID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data: " + err.Error()})
		return
	}

	placeReq := orders.PlaceOrderRequest{
		AccountID: accountID,
		ClientIP:  c.ClientIP(),
	}
	for _, item := range req.Items {
		productID, err := gocql.ParseUUID(item.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID: " + item.ProductID})
			return
		}
		placeReq.Items = append(placeReq.Items, orders.CartLine{ProductID: productID, Quantity: item.Quantity})
	}
	if req.Promotion != "" {
		promotionID, err := gocql.ParseUUID(req.Promotion)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid promotion ID"})
			return
		}
		placeReq.PromotionID = &promotionID
	}

	result, err := h.svc.PlaceOrder(c.Request.Context(), placeReq)
	if err != nil {
		writeOrderError(c, err)
		return
	}

	// The QR is a convenience rendering of the same URL; losing it is not
	// worth failing the checkout over.
	qr, err := utils.PaymentQRBase64(result.PaymentURL)
	if err != nil {
		log.Printf("⚠️ QR generation failed for order %s: %v", result.Order.ID, err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"orderId": result.Order.ID,
		"order":   result.Order,
		"vnpayResponse": gin.H{
			"paymentUrl": result.PaymentURL,
			"qrCode":     qr,
		},
	})
}

// ListAccountOrders returns an account's orders; customers can only read
// their own history, admins anyone's.
func (h *Handler) ListAccountOrders(c *gin.Context) {
	accountID := c.Param("id")
	if accountID != c.GetString("account_id") && !middleware.IsAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	list, err := h.svc.ListByAccount(c.Request.Context(), accountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Order listing error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": list, "count": len(list)})
}

// GetOrder returns one order; only its owner or an admin may read it.
func (h *Handler) GetOrder(c *gin.Context) {
	orderID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	ord, err := h.svc.GetByID(c.Request.Context(), orderID)
	if err != nil {
		writeOrderError(c, err)
		return
	}

	if ord.AccountID != c.GetString("account_id") && !middleware.IsAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	c.JSON(http.StatusOK, ord)
}

// CancelOrder cancels a Paid order: half the total is refunded and the stock
// goes back on the shelf.
func (h *Handler) CancelOrder(c *gin.Context) {
	orderID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	refund, err := h.svc.Cancel(c.Request.Context(), orderID, c.GetString("account_id"), middleware.IsAdmin(c))
	if err != nil {
		writeOrderError(c, err)
		return
	}

	log.Printf("💰 Order %s canceled, refund %.2f", orderID, refund)
	c.JSON(http.StatusOK, gin.H{
		"message":      "Order canceled",
		"refundAmount": refund,
		"status":       models.OrderCanceled,
	})
}

// VNPayReturn is where the gateway sends the buyer back. The signature over
// the query is checked before anything is applied; the buyer then gets
// redirected to the frontend result page matching the outcome.
func (h *Handler) VNPayReturn(c *gin.Context) {
	query := c.Request.URL.Query()

	if !h.client.VerifyCallback(query) {
		log.Printf("❌ VNPay callback rejected: invalid signature")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	orderID, err := gocql.ParseUUID(query.Get("vnp_TxnRef"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order reference"})
		return
	}

	responseCode := query.Get("vnp_ResponseCode")
	status, err := h.svc.HandleCallback(c.Request.Context(), orderID, responseCode)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment processing error"})
		return
	}

	if status == models.OrderPaid {
		c.Redirect(http.StatusFound, h.frontend.PaymentSuccessURL+"?orderId="+orderID.String())
		return
	}
	c.Redirect(http.StatusFound, h.frontend.PaymentFailureURL+"?orderId="+orderID.String()+"&code="+responseCode)
}

// writeOrderError maps the workflow's error taxonomy onto HTTP statuses.
func writeOrderError(c *gin.Context, err error) {
	var stock *orders.InsufficientStockError
	switch {
	case errors.As(err, &stock):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     stock.Error(),
			"product":   stock.ProductID,
			"available": stock.Available,
			"requested": stock.Requested,
		})
	case errors.Is(err, orders.ErrEmptyCart),
		errors.Is(err, orders.ErrMissingAccount),
		errors.Is(err, orders.ErrInvalidQuantity),
		errors.Is(err, orders.ErrOnlyPaidCancelable),
		errors.Is(err, orders.ErrPromotionInactive):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, orders.ErrProductNotFound),
		errors.Is(err, orders.ErrOrderNotFound),
		errors.Is(err, orders.ErrPromotionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, orders.ErrNotOrderOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, orders.ErrGateway):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment gateway error, order was not kept"})
	default:
		log.Printf("❌ Order workflow error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}
