package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lumiskin_back_end/internal/database"
	"lumiskin_back_end/internal/models"

	"github.com/gocql/gocql"
)

// casRetries bounds the optimistic retry loop on conditional stock updates.
const casRetries = 5

// ScyllaProductStore mutates product stock through lightweight transactions:
// the decrement only lands if the quantity it was computed from is still the
// current one, so concurrent submissions can never drive stock negative.
type ScyllaProductStore struct{}

func (ScyllaProductStore) GetByID(ctx context.Context, id gocql.UUID) (*models.Product, error) {
	session, err := database.GetProductsSession()
	if err != nil {
		return nil, err
	}

	var p models.Product
	p.ID = id
	err = session.Query(`
		SELECT name, description, price, quantity, category_id, brand_id, skin_type_id, image_url, is_deleted, created_at, updated_at
		FROM products WHERE product_id = ?
	`, id).WithContext(ctx).Scan(&p.Name, &p.Description, &p.Price, &p.Quantity,
		&p.CategoryID, &p.BrandID, &p.SkinTypeID, &p.ImageURL, &p.IsDeleted,
		&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	if p.IsDeleted {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

func (ScyllaProductStore) ReserveStock(ctx context.Context, id gocql.UUID, qty int) error {
	session, err := database.GetProductsSession()
	if err != nil {
		return err
	}

	var current int
	var name string
	err = session.Query(`SELECT quantity, name FROM products WHERE product_id = ?`, id).
		WithContext(ctx).Scan(&current, &name)
	if errors.Is(err, gocql.ErrNotFound) {
		return ErrProductNotFound
	}
	if err != nil {
		return err
	}

	for attempt := 0; attempt < casRetries; attempt++ {
		if current < qty {
			return &InsufficientStockError{
				ProductID:   id,
				ProductName: name,
				Available:   current,
				Requested:   qty,
			}
		}

		applied, err := session.Query(`
			UPDATE products SET quantity = ?, updated_at = ? WHERE product_id = ? IF quantity = ?
		`, current-qty, time.Now(), id, current).WithContext(ctx).ScanCAS(&current)
		if err != nil {
			return err
		}
		if applied {
			return nil
		}
		// ScanCAS refreshed current with the winner's value; re-check.
	}

	return fmt.Errorf("stock reservation for product %s kept losing the conditional update", id)
}

func (ScyllaProductStore) RestoreStock(ctx context.Context, id gocql.UUID, qty int) error {
	session, err := database.GetProductsSession()
	if err != nil {
		return err
	}

	var current int
	err = session.Query(`SELECT quantity FROM products WHERE product_id = ?`, id).
		WithContext(ctx).Scan(&current)
	if errors.Is(err, gocql.ErrNotFound) {
		return ErrProductNotFound
	}
	if err != nil {
		return err
	}

	for attempt := 0; attempt < casRetries; attempt++ {
		applied, err := session.Query(`
			UPDATE products SET quantity = ?, updated_at = ? WHERE product_id = ? IF quantity = ?
		`, current+qty, time.Now(), id, current).WithContext(ctx).ScanCAS(&current)
		if err != nil {
			return err
		}
		if applied {
			return nil
		}
	}

	return fmt.Errorf("stock restoration for product %s kept losing the conditional update", id)
}

// ScyllaOrderStore persists orders in ks_orders; line items live in their own
// table keyed by order id.
type ScyllaOrderStore struct{}

func (ScyllaOrderStore) Insert(ctx context.Context, order *models.Order) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	if err := session.Query(`
		INSERT INTO orders (order_id, account_id, status, promotion_id, total_amount, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, order.ID, order.AccountID, string(order.Status), order.PromotionID,
		order.TotalAmount, order.CreatedAt, order.UpdatedAt).WithContext(ctx).Exec(); err != nil {
		return err
	}

	for _, item := range order.Items {
		if err := session.Query(`
			INSERT INTO order_items (order_id, product_id, quantity, unit_price)
			VALUES (?, ?, ?, ?)
		`, order.ID, item.ProductID, item.Quantity, item.UnitPrice).WithContext(ctx).Exec(); err != nil {
			return err
		}
	}
	return nil
}

func (ScyllaOrderStore) Delete(ctx context.Context, id gocql.UUID) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}
	if err := session.Query(`DELETE FROM order_items WHERE order_id = ?`, id).WithContext(ctx).Exec(); err != nil {
		return err
	}
	return session.Query(`DELETE FROM orders WHERE order_id = ?`, id).WithContext(ctx).Exec()
}

func (ScyllaOrderStore) GetByID(ctx context.Context, id gocql.UUID) (*models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	var o models.Order
	var status string
	o.ID = id
	err = session.Query(`
		SELECT account_id, status, promotion_id, total_amount, created_at, updated_at
		FROM orders WHERE order_id = ?
	`, id).WithContext(ctx).Scan(&o.AccountID, &status, &o.PromotionID,
		&o.TotalAmount, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	o.Status = models.OrderStatus(status)

	items, err := loadOrderItems(ctx, session, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (ScyllaOrderStore) ListByAccount(ctx context.Context, accountID string) ([]models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`
		SELECT order_id, status, promotion_id, total_amount, created_at, updated_at
		FROM orders WHERE account_id = ? ALLOW FILTERING
	`, accountID).WithContext(ctx).Iter()

	var (
		orders []models.Order
		o      models.Order
		status string
	)
	for iter.Scan(&o.ID, &status, &o.PromotionID, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt) {
		o.AccountID = accountID
		o.Status = models.OrderStatus(status)
		orders = append(orders, o)
		o = models.Order{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := loadOrderItems(ctx, session, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (ScyllaOrderStore) CompareAndSetStatus(ctx context.Context, id gocql.UUID, from, to models.OrderStatus) (bool, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return false, err
	}

	var previous string
	applied, err := session.Query(`
		UPDATE orders SET status = ?, updated_at = ? WHERE order_id = ? IF status = ?
	`, string(to), time.Now(), id, string(from)).WithContext(ctx).ScanCAS(&previous)
	if err != nil {
		return false, err
	}
	return applied, nil
}

func (ScyllaOrderStore) ListStalePending(ctx context.Context, cutoff time.Time) ([]models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`
		SELECT order_id, account_id, total_amount, created_at, updated_at
		FROM orders WHERE status = ? ALLOW FILTERING
	`, string(models.OrderPending)).WithContext(ctx).Iter()

	var (
		stale []models.Order
		o     models.Order
	)
	for iter.Scan(&o.ID, &o.AccountID, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt) {
		if o.CreatedAt.Before(cutoff) {
			o.Status = models.OrderPending
			stale = append(stale, o)
		}
		o = models.Order{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return stale, nil
}

func loadOrderItems(ctx context.Context, session *gocql.Session, orderID gocql.UUID) ([]models.OrderItem, error) {
	iter := session.Query(`
		SELECT product_id, quantity, unit_price FROM order_items WHERE order_id = ?
	`, orderID).WithContext(ctx).Iter()

	var (
		items []models.OrderItem
		item  models.OrderItem
	)
	for iter.Scan(&item.ProductID, &item.Quantity, &item.UnitPrice) {
		items = append(items, item)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return items, nil
}

// ScyllaRefundStore writes refund records to ks_orders.
type ScyllaRefundStore struct{}

func (ScyllaRefundStore) Insert(ctx context.Context, refund *models.Refund) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}
	return session.Query(`
		INSERT INTO refunds (refund_id, order_id, account_id, amount, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, refund.ID, refund.OrderID, refund.AccountID, refund.Amount, refund.CreatedAt).
		WithContext(ctx).Exec()
}

// ScyllaPromotionStore reads promotions from ks_orders.
type ScyllaPromotionStore struct{}

func (ScyllaPromotionStore) GetByID(ctx context.Context, id gocql.UUID) (*models.Promotion, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	var p models.Promotion
	p.ID = id
	err = session.Query(`
		SELECT name, code, description, starts_at, expires_at, is_active, created_by, created_at
		FROM promotions WHERE promotion_id = ?
	`, id).WithContext(ctx).Scan(&p.Name, &p.Code, &p.Description, &p.StartsAt,
		&p.ExpiresAt, &p.IsActive, &p.CreatedBy, &p.CreatedAt)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, ErrPromotionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ScyllaAccountStore reads accounts from ks_users.
type ScyllaAccountStore struct{}

func (ScyllaAccountStore) GetByID(ctx context.Context, id string) (*models.Account, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}

	var a models.Account
	a.ID = id
	err = session.Query(`
		SELECT name, email, role FROM accounts WHERE account_id = ?
	`, id).WithContext(ctx).Scan(&a.Name, &a.Email, &a.Role)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
