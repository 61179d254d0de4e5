package orders

import (
	"context"
	"time"

	"lumiskin_back_end/internal/models"
	"lumiskin_back_end/internal/payment"

	"github.com/gocql/gocql"
)

// ProductStore is the slice of the catalog the order workflow touches.
// Stock mutations are conditional: a decrement only lands if the stock it was
// computed from is still current, so quantity can never go negative.
type ProductStore interface {
	GetByID(ctx context.Context, id gocql.UUID) (*models.Product, error)
	// ReserveStock decrements quantity by qty only while quantity >= qty.
	// Returns *InsufficientStockError when the product cannot cover qty.
	ReserveStock(ctx context.Context, id gocql.UUID, qty int) error
	// RestoreStock puts qty back on the shelf (cancellation, rollback).
	RestoreStock(ctx context.Context, id gocql.UUID, qty int) error
}

type OrderStore interface {
	Insert(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id gocql.UUID) error
	GetByID(ctx context.Context, id gocql.UUID) (*models.Order, error)
	ListByAccount(ctx context.Context, accountID string) ([]models.Order, error)
	// CompareAndSetStatus transitions from → to and reports whether the
	// transition was applied. A false return with nil error means the order
	// was no longer in the from status.
	CompareAndSetStatus(ctx context.Context, id gocql.UUID, from, to models.OrderStatus) (bool, error)
	// ListStalePending returns Pending orders created before cutoff.
	ListStalePending(ctx context.Context, cutoff time.Time) ([]models.Order, error)
}

type RefundStore interface {
	Insert(ctx context.Context, refund *models.Refund) error
}

type PromotionStore interface {
	GetByID(ctx context.Context, id gocql.UUID) (*models.Promotion, error)
}

type AccountStore interface {
	GetByID(ctx context.Context, id string) (*models.Account, error)
}

// Gateway translates an internal payment request into a redirect URL for the
// external processor.
type Gateway interface {
	BuildRedirectURL(ctx context.Context, req payment.Request) (string, error)
}

// Notifier sends transactional mail. Every call is best-effort: the service
// dispatches it after the state change commits and never waits on it.
type Notifier interface {
	PaymentConfirmed(order models.Order, email string)
	RefundIssued(order models.Order, amount float64, email string)
}

// StatusListener observes order status transitions (websocket push).
type StatusListener interface {
	OrderStatusChanged(accountID string, orderID gocql.UUID, status models.OrderStatus)
}
