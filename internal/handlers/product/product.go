package product

import (
	"log"
	"net/http"
	"time"

	"lumiskin_back_end/internal/cache"
	"lumiskin_back_end/internal/database"
	"lumiskin_back_end/internal/models"
	"lumiskin_back_end/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// CreateProduct - manager-only catalog write.
func CreateProduct(c *gin.Context) {
	var req struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		Price       float64 `json:"price" binding:"min=0"`
		Quantity    int     `json:"quantity" binding:"min=0"`
		CategoryID  string  `json:"category_id" binding:"required"`
		BrandID     string  `json:"brand_id" binding:"required"`
		SkinTypeID  string  `json:"skin_type_id" binding:"required"`
		ImageURL    string  `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data: " + err.Error()})
		return
	}

	categoryID, err := gocql.ParseUUID(req.CategoryID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}
	brandID, err := gocql.ParseUUID(req.BrandID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid brand ID"})
		return
	}
	skinTypeID, err := gocql.ParseUUID(req.SkinTypeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid skin type ID"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection error"})
		return
	}

	now := time.Now()
	product := models.Product{
		ID:          gocql.TimeUUID(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		CategoryID:  categoryID,
		BrandID:     brandID,
		SkinTypeID:  skinTypeID,
		ImageURL:    req.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := session.Query(`
		INSERT INTO products (product_id, name, description, price, quantity, category_id, brand_id, skin_type_id, image_url, is_deleted, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, false, ?, ?)
	`, product.ID, product.Name, product.Description, product.Price, product.Quantity,
		product.CategoryID, product.BrandID, product.SkinTypeID, product.ImageURL,
		product.CreatedAt, product.UpdatedAt).Exec(); err != nil {
		log.Printf("❌ Product creation error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Product creation error"})
		return
	}

	service.IndexProduct(product)

	log.Printf("✅ Product created: %s (%s)", product.Name, product.ID)
	c.JSON(http.StatusCreated, product)
}

// GetProducts lists the catalog, optionally filtered by category, brand or
// skin type. Soft-deleted products are hidden.
func GetProducts(c *gin.Context) {
	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection error"})
		return
	}

	iter := session.Query(`
		SELECT product_id, name, description, price, quantity, category_id, brand_id, skin_type_id, image_url, is_deleted, created_at, updated_at
		FROM products
	`).Iter()

	categoryFilter := c.Query("category_id")
	brandFilter := c.Query("brand_id")
	skinFilter := c.Query("skin_type_id")

	var products []models.Product
	var p models.Product
	for iter.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Quantity,
		&p.CategoryID, &p.BrandID, &p.SkinTypeID, &p.ImageURL, &p.IsDeleted,
		&p.CreatedAt, &p.UpdatedAt) {
		if p.IsDeleted {
			continue
		}
		if categoryFilter != "" && p.CategoryID.String() != categoryFilter {
			continue
		}
		if brandFilter != "" && p.BrandID.String() != brandFilter {
			continue
		}
		if skinFilter != "" && p.SkinTypeID.String() != skinFilter {
			continue
		}
		products = append(products, p)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Product listing error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

// GetProductByID serves one product, through the Redis cache.
func GetProductByID(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	product, err := cache.GetProductFromCache(productID)
	if err != nil || product.IsDeleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// UpdateProduct - manager-only. Price changes never touch existing orders:
// their line items keep the price snapshotted at submission.
func UpdateProduct(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		ImageURL    *string  `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}
	if req.Price != nil && *req.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price cannot be negative"})
		return
	}

	product, err := cache.GetProductFromCache(productID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	product.UpdatedAt = time.Now()

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection error"})
		return
	}

	if err := session.Query(`
		UPDATE products SET name = ?, description = ?, price = ?, image_url = ?, updated_at = ?
		WHERE product_id = ?
	`, product.Name, product.Description, product.Price, product.ImageURL,
		product.UpdatedAt, productID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Product update error"})
		return
	}

	cache.InvalidateProductCache(productID)
	service.IndexProduct(*product)

	c.JSON(http.StatusOK, product)
}

// DeleteProduct - manager-only soft delete; the row stays so historical
// orders keep a resolvable reference.
func DeleteProduct(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection error"})
		return
	}

	if err := session.Query(`
		UPDATE products SET is_deleted = true, updated_at = ? WHERE product_id = ?
	`, time.Now(), productID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Product deletion error"})
		return
	}

	cache.InvalidateProductCache(productID)
	service.RemoveProductFromIndex(productID.String())

	log.Printf("🗑️ Product soft-deleted: %s", productID)
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// SearchProducts - full-text search through Elasticsearch.
func SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'q' is required"})
		return
	}

	results, err := service.SearchProducts(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}

// UploadImage - manager-only; stores the image in MinIO and attaches its URL
// to the product.
func UploadImage(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file is required"})
		return
	}

	url, err := service.UploadProductImage(c.Request.Context(), file)
	if err != nil {
		log.Printf("❌ Image upload error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Image upload error"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection error"})
		return
	}

	if err := session.Query(`
		UPDATE products SET image_url = ?, updated_at = ? WHERE product_id = ?
	`, url, time.Now(), productID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Product update error"})
		return
	}

	cache.InvalidateProductCache(productID)

	c.JSON(http.StatusOK, gin.H{"image_url": url})
}
