package realtime

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"lumiskin_back_end/internal/database"
	"lumiskin_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins (tighten in production)
		return true
	},
}

func channelFor(accountID string) string {
	return "orders:" + accountID
}

// StatusPublisher fans order status changes out through Redis pub/sub, one
// channel per account. It satisfies the order service's listener interface.
type StatusPublisher struct{}

func (StatusPublisher) OrderStatusChanged(accountID string, orderID gocql.UUID, status models.OrderStatus) {
	payload, _ := json.Marshal(map[string]interface{}{
		"type":    "order_status",
		"orderId": orderID.String(),
		"status":  status,
	})

	if err := database.Redis.Publish(context.Background(), channelFor(accountID), payload).Err(); err != nil {
		log.Printf("⚠️ Order status publish failed for account %s: %v", accountID, err)
	}
}

// OrderStatusWebSocket streams the caller's order status changes.
func OrderStatusWebSocket(c *gin.Context) {
	accountID := c.GetString("account_id")
	if accountID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ WebSocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	pubsub := database.Redis.Subscribe(ctx, channelFor(accountID))
	defer pubsub.Close()

	conn.WriteJSON(map[string]interface{}{
		"type":    "connected",
		"message": "Order updates enabled",
	})

	// Reader goroutine: its only job is to notice the peer going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				return
			}
		case <-done:
			return
		case <-ctx.Done():
			return
		}
	}
}
