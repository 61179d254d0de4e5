package cache

import (
	"context"
	"encoding/json"
	"time"

	"lumiskin_back_end/internal/database"
	"lumiskin_back_end/internal/models"

	"github.com/gocql/gocql"
)

const (
	AccountCacheTTL = 5 * time.Minute
	ProductCacheTTL = 10 * time.Minute
	RatingCacheTTL  = 10 * time.Minute
)

// GetProductFromCache reads a product from Redis, falling back to ScyllaDB
// and repopulating the cache on a miss.
func GetProductFromCache(productID gocql.UUID) (*models.Product, error) {
	ctx := context.Background()
	key := "product:" + productID.String()

	data, err := database.Redis.Get(ctx, key).Result()
	if err == nil {
		var product models.Product
		if json.Unmarshal([]byte(data), &product) == nil {
			return &product, nil
		}
	}

	session, err := database.GetProductsSession()
	if err != nil {
		return nil, err
	}

	var p models.Product
	p.ID = productID
	err = session.Query(`
		SELECT name, description, price, quantity, category_id, brand_id, skin_type_id, image_url, is_deleted, created_at, updated_at
		FROM products WHERE product_id = ?
	`, productID).Scan(&p.Name, &p.Description, &p.Price, &p.Quantity,
		&p.CategoryID, &p.BrandID, &p.SkinTypeID, &p.ImageURL, &p.IsDeleted,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	jsonData, _ := json.Marshal(p)
	database.Redis.Set(ctx, key, jsonData, ProductCacheTTL)

	return &p, nil
}

// InvalidateProductCache drops a product's cache entries. Called on every
// catalog write; stock mutations go straight to ScyllaDB, so cached
// quantities are at most ProductCacheTTL stale and never authoritative.
func InvalidateProductCache(productID gocql.UUID) {
	ctx := context.Background()
	database.Redis.Del(ctx, "product:"+productID.String(), "rating:"+productID.String())
}

// GetAccountFromCache reads an account from Redis or ScyllaDB.
func GetAccountFromCache(accountID string) (*models.Account, error) {
	ctx := context.Background()
	key := "account:" + accountID

	data, err := database.Redis.Get(ctx, key).Result()
	if err == nil {
		var account models.Account
		if json.Unmarshal([]byte(data), &account) == nil {
			return &account, nil
		}
	}

	session, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}

	var a models.Account
	a.ID = accountID
	err = session.Query(`
		SELECT name, email, role, skin_type_id FROM accounts WHERE account_id = ?
	`, accountID).Scan(&a.Name, &a.Email, &a.Role, &a.SkinTypeID)
	if err != nil {
		return nil, err
	}

	jsonData, _ := json.Marshal(a)
	database.Redis.Set(ctx, key, jsonData, AccountCacheTTL)

	return &a, nil
}

// InvalidateAccountCache drops an account's cache entry.
func InvalidateAccountCache(accountID string) {
	ctx := context.Background()
	database.Redis.Del(ctx, "account:"+accountID)
}
