package promotion

import (
	"log"
	"net/http"
	"strings"
	"time"

	"lumiskin_back_end/internal/database"
	"lumiskin_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// CreatePromotion - manager-only. A promotion is a label attached to orders;
// it never changes the payable total.
func CreatePromotion(c *gin.Context) {
	var req struct {
		Name        string    `json:"name" binding:"required"`
		Code        string    `json:"code" binding:"required"`
		Description string    `json:"description"`
		StartsAt    time.Time `json:"starts_at" binding:"required"`
		ExpiresAt   time.Time `json:"expires_at" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data: " + err.Error()})
		return
	}
	if !req.ExpiresAt.After(req.StartsAt) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expires_at must be after starts_at"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection error"})
		return
	}

	promo := models.Promotion{
		ID:          gocql.TimeUUID(),
		Name:        req.Name,
		Code:        strings.ToUpper(strings.TrimSpace(req.Code)),
		Description: req.Description,
		StartsAt:    req.StartsAt,
		ExpiresAt:   req.ExpiresAt,
		IsActive:    true,
		CreatedBy:   c.GetString("account_id"),
		CreatedAt:   time.Now(),
	}

	if err := session.Query(`
		INSERT INTO promotions (promotion_id, name, code, description, starts_at, expires_at, is_active, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, promo.ID, promo.Name, promo.Code, promo.Description, promo.StartsAt,
		promo.ExpiresAt, promo.IsActive, promo.CreatedBy, promo.CreatedAt).Exec(); err != nil {
		log.Printf("❌ Promotion creation error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Promotion creation error"})
		return
	}

	log.Printf("🎁 Promotion created: %s (%s)", promo.Name, promo.Code)
	c.JSON(http.StatusCreated, promo)
}

// GetActivePromotions lists the promotions currently in their validity
// window.
func GetActivePromotions(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection error"})
		return
	}

	now := time.Now()
	iter := session.Query(`
		SELECT promotion_id, name, code, description, starts_at, expires_at, is_active, created_by, created_at
		FROM promotions
	`).Iter()

	var active []models.Promotion
	var p models.Promotion
	for iter.Scan(&p.ID, &p.Name, &p.Code, &p.Description, &p.StartsAt,
		&p.ExpiresAt, &p.IsActive, &p.CreatedBy, &p.CreatedAt) {
		if p.IsActive && !now.Before(p.StartsAt) && now.Before(p.ExpiresAt) {
			active = append(active, p)
		}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Promotion listing error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"promotions": active, "count": len(active)})
}

// GetAllPromotions - manager-only; includes inactive and expired entries.
func GetAllPromotions(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection error"})
		return
	}

	iter := session.Query(`
		SELECT promotion_id, name, code, description, starts_at, expires_at, is_active, created_by, created_at
		FROM promotions
	`).Iter()

	var all []models.Promotion
	var p models.Promotion
	for iter.Scan(&p.ID, &p.Name, &p.Code, &p.Description, &p.StartsAt,
		&p.ExpiresAt, &p.IsActive, &p.CreatedBy, &p.CreatedAt) {
		all = append(all, p)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Promotion listing error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"promotions": all, "count": len(all)})
}

// DeactivatePromotion - manager-only kill switch; running orders keep their
// promotion reference.
func DeactivatePromotion(c *gin.Context) {
	promotionID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid promotion ID"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection error"})
		return
	}

	if err := session.Query(`
		UPDATE promotions SET is_active = false WHERE promotion_id = ?
	`, promotionID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Promotion update error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Promotion deactivated"})
}
