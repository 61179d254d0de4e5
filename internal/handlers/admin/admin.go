package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"lumiskin_back_end/internal/database"
	"lumiskin_back_end/internal/models"
	"lumiskin_back_end/internal/orders"

	"github.com/gin-gonic/gin"
)

const (
	lowStockThreshold = 5
	dashboardCacheKey = "dashboard:summary"
	dashboardCacheTTL = time.Minute
)

// Handler serves the back-office endpoints.
type Handler struct {
	svc *orders.Service
}

func NewHandler(svc *orders.Service) *Handler {
	return &Handler{svc: svc}
}

type dashboardSummary struct {
	Products  int            `json:"products"`
	LowStock  int            `json:"lowStock"`
	Accounts  int            `json:"accounts"`
	Feedback  int            `json:"feedback"`
	Orders    map[string]int `json:"orders"`
	Revenue   float64        `json:"revenue"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// Dashboard aggregates the counters the back-office landing page shows.
// Plain table scans behind a short Redis cache.
func (h *Handler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	if cached, err := database.Redis.Get(ctx, dashboardCacheKey).Result(); err == nil {
		var summary dashboardSummary
		if json.Unmarshal([]byte(cached), &summary) == nil {
			c.JSON(http.StatusOK, summary)
			return
		}
	}

	summary, err := buildDashboard(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Dashboard error"})
		return
	}

	if data, err := json.Marshal(summary); err == nil {
		database.Redis.Set(ctx, dashboardCacheKey, data, dashboardCacheTTL)
	}

	c.JSON(http.StatusOK, summary)
}

func buildDashboard(ctx context.Context) (*dashboardSummary, error) {
	productsSession, err := database.GetProductsSession()
	if err != nil {
		return nil, err
	}
	usersSession, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}
	ordersSession, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	summary := &dashboardSummary{
		Orders:    map[string]int{"pending": 0, "paid": 0, "canceled": 0},
		UpdatedAt: time.Now(),
	}

	// Products: total plus the ones about to run out.
	iter := productsSession.Query(`SELECT quantity, is_deleted FROM products`).WithContext(ctx).Iter()
	var quantity int
	var deleted bool
	for iter.Scan(&quantity, &deleted) {
		if deleted {
			continue
		}
		summary.Products++
		if quantity < lowStockThreshold {
			summary.LowStock++
		}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	if err := usersSession.Query(`SELECT COUNT(*) FROM accounts`).WithContext(ctx).Scan(&summary.Accounts); err != nil {
		return nil, err
	}
	if err := productsSession.Query(`SELECT COUNT(*) FROM feedback`).WithContext(ctx).Scan(&summary.Feedback); err != nil {
		return nil, err
	}

	// Orders per status; revenue only counts Paid money.
	iter = ordersSession.Query(`SELECT status, total_amount FROM orders`).WithContext(ctx).Iter()
	var status models.OrderStatus
	var total float64
	for iter.Scan(&status, &total) {
		switch status {
		case models.OrderPending:
			summary.Orders["pending"]++
		case models.OrderPaid:
			summary.Orders["paid"]++
			summary.Revenue += total
		case models.OrderCanceled:
			summary.Orders["canceled"]++
		}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	return summary, nil
}

// StaleOrders lists Pending orders older than ?hours= (default 24, the
// payment URL validity window). Their stock is still reserved; this endpoint
// makes that visible without releasing anything.
func (h *Handler) StaleOrders(c *gin.Context) {
	hours := 24
	if raw := c.Query("hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "hours must be a positive integer"})
			return
		}
		hours = parsed
	}

	stale, err := h.svc.StalePending(c.Request.Context(), time.Duration(hours)*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stale order listing error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": stale, "count": len(stale), "olderThanHours": hours})
}
