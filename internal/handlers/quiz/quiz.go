package quiz

import (
	"log"
	"net/http"
	"sort"
	"time"

	"lumiskin_back_end/internal/cache"
	"lumiskin_back_end/internal/database"
	"lumiskin_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// GetQuestions lists the skin-type quiz in display order.
func GetQuestions(c *gin.Context) {
	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection error"})
		return
	}

	iter := session.Query(`
		SELECT question_id, position, text, options FROM quiz_questions
	`).Iter()

	var questions []models.QuizQuestion
	var q models.QuizQuestion
	for iter.Scan(&q.ID, &q.Position, &q.Text, &q.Options) {
		questions = append(questions, q)
		q = models.QuizQuestion{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Quiz loading error"})
		return
	}

	sort.Slice(questions, func(i, j int) bool { return questions[i].Position < questions[j].Position })

	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

// Submit scores a quiz submission. Each answer votes for a skin type; the
// type with the most votes wins and is saved on the account.
func Submit(c *gin.Context) {
	accountID := c.GetString("account_id")
	if accountID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req struct {
		Answers map[string]string `json:"answers" binding:"required"` // question id → option key
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Answers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Answers are required"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection error"})
		return
	}

	// 1. Tally one vote per answered question.
	scores := make(map[string]int)
	iter := session.Query(`SELECT question_id, position, text, options FROM quiz_questions`).Iter()
	var q models.QuizQuestion
	for iter.Scan(&q.ID, &q.Position, &q.Text, &q.Options) {
		key, answered := req.Answers[q.ID.String()]
		if !answered {
			q = models.QuizQuestion{}
			continue
		}
		for _, opt := range q.Options {
			if opt.Key == key {
				scores[opt.SkinTypeID.String()]++
				break
			}
		}
		q = models.QuizQuestion{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Quiz scoring error"})
		return
	}
	if len(scores) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No valid answers"})
		return
	}

	// 2. Highest vote count wins; ties break on the id for determinism.
	var winner string
	for id, votes := range scores {
		if winner == "" || votes > scores[winner] || (votes == scores[winner] && id < winner) {
			winner = id
		}
	}
	skinTypeID, err := gocql.ParseUUID(winner)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Quiz scoring error"})
		return
	}

	// 3. Persist the result and pin the skin type on the account.
	result := models.QuizResult{
		ID:         gocql.TimeUUID(),
		AccountID:  accountID,
		SkinTypeID: skinTypeID,
		Scores:     scores,
		CreatedAt:  time.Now(),
	}
	if err := session.Query(`
		INSERT INTO quiz_results (result_id, account_id, skin_type_id, scores, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, result.ID, result.AccountID, result.SkinTypeID, result.Scores, result.CreatedAt).Exec(); err != nil {
		log.Printf("❌ Quiz result insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Quiz result error"})
		return
	}

	usersSession, err := database.GetUsersSession()
	if err == nil {
		skinID := skinTypeID.String()
		if err := usersSession.Query(`
			UPDATE accounts SET skin_type_id = ? WHERE account_id = ?
		`, skinID, accountID).Exec(); err != nil {
			log.Printf("⚠️ Could not save skin type on account %s: %v", accountID, err)
		}
		cache.InvalidateAccountCache(accountID)
	}

	log.Printf("✅ Quiz completed for %s: skin type %s", accountID, skinTypeID)
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// Recommendations lists in-stock products matching the account's quiz skin
// type.
func Recommendations(c *gin.Context) {
	accountID := c.GetString("account_id")
	if accountID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	account, err := cache.GetAccountFromCache(accountID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}
	if account.SkinTypeID == nil || *account.SkinTypeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Take the skin quiz first"})
		return
	}
	skinTypeID, err := gocql.ParseUUID(*account.SkinTypeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid skin type on account"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection error"})
		return
	}

	iter := session.Query(`
		SELECT product_id, name, description, price, quantity, category_id, brand_id, skin_type_id, image_url, is_deleted, created_at, updated_at
		FROM products
	`).Iter()

	var recommended []models.Product
	var p models.Product
	for iter.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Quantity,
		&p.CategoryID, &p.BrandID, &p.SkinTypeID, &p.ImageURL, &p.IsDeleted,
		&p.CreatedAt, &p.UpdatedAt) {
		if p.IsDeleted || p.Quantity == 0 || p.SkinTypeID != skinTypeID {
			continue
		}
		recommended = append(recommended, p)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Recommendation error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"skinTypeId": skinTypeID, "products": recommended, "count": len(recommended)})
}
