package orders

import (
	"context"
	"fmt"
	"log"
	"time"

	"lumiskin_back_end/internal/models"
	"lumiskin_back_end/internal/payment"

	"github.com/gocql/gocql"
)

// refundRate is the flat partial-refund policy applied on cancellation.
const refundRate = 0.5

type CartLine struct {
	ProductID gocql.UUID
	Quantity  int
}

type PlaceOrderRequest struct {
	AccountID   string
	Items       []CartLine
	PromotionID *gocql.UUID
	ClientIP    string
}

type PlaceOrderResult struct {
	Order      *models.Order
	PaymentURL string
}

// Service orchestrates cart submission, payment confirmation and
// cancellation over the stores and the payment gateway.
type Service struct {
	products    ProductStore
	orders      OrderStore
	refunds     RefundStore
	promotions  PromotionStore
	accounts    AccountStore
	gateway     Gateway
	notifier    Notifier
	listener    StatusListener
	callTimeout time.Duration
	now         func() time.Time
}

func NewService(products ProductStore, orders OrderStore, refunds RefundStore,
	promotions PromotionStore, accounts AccountStore, gateway Gateway,
	notifier Notifier, listener StatusListener, callTimeout time.Duration) *Service {
	if callTimeout <= 0 {
		callTimeout = 10 * time.Second
	}
	return &Service{
		products:    products,
		orders:      orders,
		refunds:     refunds,
		promotions:  promotions,
		accounts:    accounts,
		gateway:     gateway,
		notifier:    notifier,
		listener:    listener,
		callTimeout: callTimeout,
		now:         time.Now,
	}
}

// PlaceOrder runs the whole submission: validate, reserve stock, persist the
// Pending order, and get a redirect URL from the gateway. Stock is reserved
// per line with a conditional decrement; if any line fails, every decrement
// already applied is put back before the error is returned.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	// 1. Validate the request before touching anything.
	if req.AccountID == "" {
		return nil, ErrMissingAccount
	}
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}
	for _, line := range req.Items {
		if line.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
	}

	if req.PromotionID != nil {
		promo, err := s.promotions.GetByID(ctx, *req.PromotionID)
		if err != nil {
			return nil, err
		}
		now := s.now()
		if !promo.IsActive || now.Before(promo.StartsAt) || now.After(promo.ExpiresAt) {
			return nil, ErrPromotionInactive
		}
	}

	// 2. Fetch every product and check availability before any mutation.
	// The whole submission is rejected on the first miss or shortfall.
	fetched := make([]*models.Product, len(req.Items))
	for i, line := range req.Items {
		product, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if product.Quantity < line.Quantity {
			return nil, &InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Available:   product.Quantity,
				Requested:   line.Quantity,
			}
		}
		fetched[i] = product
	}

	// 3. Reserve stock line by line. The conditional decrement can still
	// lose to a concurrent submission, in which case everything reserved so
	// far is released and the shortfall is surfaced.
	reserved := make([]CartLine, 0, len(req.Items))
	for _, line := range req.Items {
		if err := s.products.ReserveStock(ctx, line.ProductID, line.Quantity); err != nil {
			s.releaseStock(ctx, reserved)
			return nil, err
		}
		reserved = append(reserved, line)
	}

	// 4. Lock in the total at submission-time prices.
	var total float64
	items := make([]models.OrderItem, len(req.Items))
	for i, line := range req.Items {
		items[i] = models.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: fetched[i].Price,
		}
		total += float64(line.Quantity) * fetched[i].Price
	}

	// 5. Persist the Pending order.
	now := s.now()
	order := &models.Order{
		ID:          gocql.TimeUUID(),
		AccountID:   req.AccountID,
		Status:      models.OrderPending,
		Items:       items,
		PromotionID: req.PromotionID,
		TotalAmount: total,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.orders.Insert(ctx, order); err != nil {
		s.releaseStock(ctx, reserved)
		return nil, err
	}

	// 6. Ask the gateway for a redirect URL, with a bounded timeout. An
	// order that can never be paid is a stuck resource, so a gateway failure
	// undoes the whole submission.
	gatewayCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	paymentURL, err := s.gateway.BuildRedirectURL(gatewayCtx, payment.Request{
		Reference: order.ID.String(),
		Amount:    total,
		OrderInfo: fmt.Sprintf("Payment for order %s", order.ID),
		ClientIP:  req.ClientIP,
		CreatedAt: now,
		ExpiresAt: now.Add(24 * time.Hour),
	})
	if err != nil {
		s.releaseStock(ctx, reserved)
		if delErr := s.orders.Delete(ctx, order.ID); delErr != nil {
			log.Printf("❌ Could not delete order %s after gateway failure: %v", order.ID, delErr)
		}
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	log.Printf("🛒 Order %s created for account %s (%.2f, %d items)",
		order.ID, req.AccountID, total, len(items))

	return &PlaceOrderResult{Order: order, PaymentURL: paymentURL}, nil
}

// HandleCallback applies a gateway payment result to an order. It is
// idempotent: the Pending → Paid transition is a compare-and-set, so a
// duplicate success callback (or one arriving after cancellation) is a no-op.
func (s *Service) HandleCallback(ctx context.Context, orderID gocql.UUID, responseCode string) (models.OrderStatus, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return "", err
	}

	if responseCode != payment.ResponseCodeSuccess {
		// Failure result: the order stays Pending, stock stays reserved.
		log.Printf("⚠️ Payment failed for order %s (code %s)", orderID, responseCode)
		return order.Status, nil
	}

	applied, err := s.orders.CompareAndSetStatus(ctx, orderID, models.OrderPending, models.OrderPaid)
	if err != nil {
		return "", err
	}
	if !applied {
		// Already Paid or Canceled: duplicate delivery, nothing to apply.
		log.Printf("🔁 Callback for order %s ignored, status is %s", orderID, order.Status)
		return order.Status, nil
	}

	order.Status = models.OrderPaid
	log.Printf("💳 Order %s confirmed as Paid", orderID)

	s.dispatchStatusChange(*order)
	s.notifyAsync(func(email string) { s.notifier.PaymentConfirmed(*order, email) }, order.AccountID)

	return models.OrderPaid, nil
}

// Cancel cancels a Paid order: half of the total is refunded and every line
// item's stock goes back on the shelf. The Paid → Canceled compare-and-set is
// the commit point, so a double cancellation can never restore stock twice.
func (s *Service) Cancel(ctx context.Context, orderID gocql.UUID, requesterID string, isAdmin bool) (float64, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return 0, err
	}
	if !isAdmin && order.AccountID != requesterID {
		return 0, ErrNotOrderOwner
	}
	if order.Status != models.OrderPaid {
		return 0, ErrOnlyPaidCancelable
	}

	applied, err := s.orders.CompareAndSetStatus(ctx, orderID, models.OrderPaid, models.OrderCanceled)
	if err != nil {
		return 0, err
	}
	if !applied {
		// Lost a race with another cancellation or state change.
		return 0, ErrOnlyPaidCancelable
	}

	refundAmount := order.TotalAmount * refundRate

	for _, item := range order.Items {
		if err := s.products.RestoreStock(ctx, item.ProductID, item.Quantity); err != nil {
			// The cancellation is already committed; log with enough
			// context to reconcile the shelf by hand.
			log.Printf("❌ Stock restoration failed for order %s, product %s, qty %d: %v",
				orderID, item.ProductID, item.Quantity, err)
		}
	}

	refund := &models.Refund{
		ID:        gocql.TimeUUID(),
		OrderID:   order.ID,
		AccountID: order.AccountID,
		Amount:    refundAmount,
		CreatedAt: s.now(),
	}
	if err := s.refunds.Insert(ctx, refund); err != nil {
		log.Printf("❌ Refund record insert failed for order %s: %v", orderID, err)
	}

	order.Status = models.OrderCanceled
	log.Printf("💰 Order %s canceled, refund %.2f", orderID, refundAmount)

	s.dispatchStatusChange(*order)
	s.notifyAsync(func(email string) { s.notifier.RefundIssued(*order, refundAmount, email) }, order.AccountID)

	return refundAmount, nil
}

// ListByAccount returns an account's orders, newest first.
func (s *Service) ListByAccount(ctx context.Context, accountID string) ([]models.Order, error) {
	return s.orders.ListByAccount(ctx, accountID)
}

// StalePending lists Pending orders older than age. They hold reserved stock
// with no path to payment; surfaced for operators, never auto-released.
func (s *Service) StalePending(ctx context.Context, age time.Duration) ([]models.Order, error) {
	return s.orders.ListStalePending(ctx, s.now().Add(-age))
}

// GetByID returns one order.
func (s *Service) GetByID(ctx context.Context, orderID gocql.UUID) (*models.Order, error) {
	return s.orders.GetByID(ctx, orderID)
}

func (s *Service) releaseStock(ctx context.Context, reserved []CartLine) {
	for _, line := range reserved {
		if err := s.products.RestoreStock(ctx, line.ProductID, line.Quantity); err != nil {
			log.Printf("❌ Stock release failed for product %s, qty %d: %v",
				line.ProductID, line.Quantity, err)
		}
	}
}

func (s *Service) dispatchStatusChange(order models.Order) {
	if s.listener != nil {
		s.listener.OrderStatusChanged(order.AccountID, order.ID, order.Status)
	}
}

// notifyAsync resolves the account's email and fires the notification in the
// background. Failures are logged, never surfaced to the caller.
func (s *Service) notifyAsync(send func(email string), accountID string) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		account, err := s.accounts.GetByID(ctx, accountID)
		if err != nil {
			log.Printf("⚠️ Could not resolve account %s for notification: %v", accountID, err)
			return
		}
		send(account.Email)
	}()
}
