package product

import (
	"log"
	"net/http"
	"time"

	"lumiskin_back_end/internal/cache"
	"lumiskin_back_end/internal/database"
	"lumiskin_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// CreateFeedback lets an authenticated customer rate a product 1-5 with an
// optional comment.
func CreateFeedback(c *gin.Context) {
	accountID := c.GetString("account_id")
	if accountID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req struct {
		ProductID string `json:"product_id" binding:"required"`
		Rating    int    `json:"rating" binding:"required,min=1,max=5"`
		Comment   string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data: rating must be between 1 and 5"})
		return
	}

	productID, err := gocql.ParseUUID(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	if _, err := cache.GetProductFromCache(productID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	account, err := cache.GetAccountFromCache(accountID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account not found"})
		return
	}

	bought, err := hasPaidOrderWith(accountID, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Feedback verification error"})
		return
	}
	if !bought {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only buyers of this product can leave feedback"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection error"})
		return
	}

	feedback := models.Feedback{
		ID:          gocql.TimeUUID(),
		ProductID:   productID,
		AccountID:   accountID,
		AccountName: account.Name,
		Rating:      req.Rating,
		Comment:     req.Comment,
		CreatedAt:   time.Now(),
	}

	if err := session.Query(`
		INSERT INTO feedback (feedback_id, product_id, account_id, account_name, rating, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, feedback.ID, feedback.ProductID, feedback.AccountID, feedback.AccountName,
		feedback.Rating, feedback.Comment, feedback.CreatedAt).Exec(); err != nil {
		log.Printf("❌ Feedback creation error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Feedback creation error"})
		return
	}

	// The cached average is stale now.
	database.Redis.Del(c.Request.Context(), "rating:"+productID.String())

	c.JSON(http.StatusCreated, feedback)
}

// hasPaidOrderWith reports whether the account has a Paid order containing
// the product. Feedback is reserved for actual buyers.
func hasPaidOrderWith(accountID string, productID gocql.UUID) (bool, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return false, err
	}

	iter := session.Query(`
		SELECT order_id, status FROM orders WHERE account_id = ? ALLOW FILTERING
	`, accountID).Iter()

	var orderIDs []gocql.UUID
	var orderID gocql.UUID
	var status string
	for iter.Scan(&orderID, &status) {
		if status == string(models.OrderPaid) {
			orderIDs = append(orderIDs, orderID)
		}
	}
	if err := iter.Close(); err != nil {
		return false, err
	}

	for _, id := range orderIDs {
		itemIter := session.Query(`
			SELECT product_id FROM order_items WHERE order_id = ?
		`, id).Iter()
		var itemProduct gocql.UUID
		found := false
		for itemIter.Scan(&itemProduct) {
			if itemProduct == productID {
				found = true
			}
		}
		if err := itemIter.Close(); err != nil {
			return false, err
		}
		if found {
			return true, nil
		}
	}
	return false, nil
}

// GetProductFeedback lists a product's feedback with its average rating.
func GetProductFeedback(c *gin.Context) {
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

	iter := session.Query(`
		SELECT feedback_id, product_id, account_id, account_name, rating, comment, created_at
		FROM feedback WHERE product_id = ? ALLOW FILTERING
	`, productID).Iter()

	var feedbacks []models.Feedback
	var f models.Feedback
	total := 0
	for iter.Scan(&f.ID, &f.ProductID, &f.AccountID, &f.AccountName, &f.Rating, &f.Comment, &f.CreatedAt) {
		feedbacks = append(feedbacks, f)
		total += f.Rating
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Feedback listing error"})
		return
	}

	rating := models.ProductRating{ProductID: productID, TotalFeedback: len(feedbacks)}
	if len(feedbacks) > 0 {
		rating.AverageRating = float64(total) / float64(len(feedbacks))
	}

	c.JSON(http.StatusOK, gin.H{"feedback": feedbacks, "rating": rating})
}
