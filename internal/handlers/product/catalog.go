package product

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"lumiskin_back_end/internal/database"
	"lumiskin_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// Brands, categories and skin types share the same tiny CRUD shape, so the
// handlers are kept together here.

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	slug := slugCleaner.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

func CreateBrand(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		LogoURL     string `json:"logo_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Brand name is required"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection error"})
		return
	}

	now := time.Now()
	brand := models.Brand{
		ID:          gocql.TimeUUID(),
		Name:        req.Name,
		Slug:        slugify(req.Name),
		Description: req.Description,
		LogoURL:     req.LogoURL,
		CreatedAt:   &now,
	}
	if err := session.Query(`
		INSERT INTO brands (brand_id, name, slug, description, logo_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, brand.ID, brand.Name, brand.Slug, brand.Description, brand.LogoURL, brand.CreatedAt).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Brand creation error"})
		return
	}

	c.JSON(http.StatusCreated, brand)
}

func GetBrands(c *gin.Context) {
	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection error"})
		return
	}

	iter := session.Query(`SELECT brand_id, name, slug, description, logo_url FROM brands`).Iter()
	var brands []models.Brand
	var b models.Brand
	for iter.Scan(&b.ID, &b.Name, &b.Slug, &b.Description, &b.LogoURL) {
		brands = append(brands, b)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Brand listing error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"brands": brands})
}

func CreateCategory(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category name is required"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection error"})
		return
	}

	now := time.Now()
	category := models.Category{
		ID:          gocql.TimeUUID(),
		Name:        req.Name,
		Slug:        slugify(req.Name),
		Description: req.Description,
		CreatedAt:   &now,
	}
	if err := session.Query(`
		INSERT INTO categories (category_id, name, slug, description, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, category.ID, category.Name, category.Slug, category.Description, category.CreatedAt).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Category creation error"})
		return
	}

	c.JSON(http.StatusCreated, category)
}

func GetCategories(c *gin.Context) {
	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection error"})
		return
	}

	iter := session.Query(`SELECT category_id, name, slug, description FROM categories`).Iter()
	var categories []models.Category
	var cat models.Category
	for iter.Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.Description) {
		categories = append(categories, cat)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Category listing error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func CreateSkinType(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Skin type name is required"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection error"})
		return
	}

	now := time.Now()
	skinType := models.SkinType{
		ID:          gocql.TimeUUID(),
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   &now,
	}
	if err := session.Query(`
		INSERT INTO skin_types (skin_type_id, name, description, created_at)
		VALUES (?, ?, ?, ?)
	`, skinType.ID, skinType.Name, skinType.Description, skinType.CreatedAt).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Skin type creation error"})
		return
	}

	c.JSON(http.StatusCreated, skinType)
}

func GetSkinTypes(c *gin.Context) {
	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection error"})
		return
	}

	iter := session.Query(`SELECT skin_type_id, name, description FROM skin_types`).Iter()
	var skinTypes []models.SkinType
	var st models.SkinType
	for iter.Scan(&st.ID, &st.Name, &st.Description) {
		skinTypes = append(skinTypes, st)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Skin type listing error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"skinTypes": skinTypes})
}
