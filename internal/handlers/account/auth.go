package account

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log"
	"net/http"
	"os"
	"time"

	"lumiskin_back_end/internal/cache"
	"lumiskin_back_end/internal/database"
	"lumiskin_back_end/internal/middleware"
	"lumiskin_back_end/internal/models"
	"lumiskin_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const resetTokenTTL = 30 * time.Minute

// Register creates a customer account and sends the welcome email.
func Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data", "details": err.Error()})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection error"})
		return
	}

	// Email already taken?
	var existingID string
	err = session.Query(`SELECT account_id FROM accounts_by_email WHERE email = ?`, input.Email).Scan(&existingID)
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists"})
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Account creation error"})
		return
	}

	account := models.Account{
		ID:       uuid.NewString(),
		Name:     input.Name,
		Email:    input.Email,
		Password: hashed,
		Role:     "customer",
	}

	now := time.Now()
	if err := session.Query(`
		INSERT INTO accounts (account_id, name, email, password, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, account.ID, account.Name, account.Email, account.Password, account.Role, now).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Account creation error"})
		return
	}
	if err := session.Query(`
		INSERT INTO accounts_by_email (email, account_id) VALUES (?, ?)
	`, account.Email, account.ID).Exec(); err != nil {
		log.Printf("⚠️ Email lookup row insert failed for %s: %v", account.Email, err)
	}

	// Welcome email is best-effort.
	go func(name, email string) {
		if err := utils.SendEmail(email, "🌸 Welcome to Lumiskin", utils.GenerateWelcomeHTML(name)); err != nil {
			log.Printf("❌ Welcome email failed for %s: %v", email, err)
		}
	}(account.Name, account.Email)

	token, err := utils.GenerateJWT(account)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation error"})
		return
	}

	log.Printf("✅ Account created: %s (%s)", account.ID, account.Email)

	c.JSON(http.StatusCreated, gin.H{
		"token":     token,
		"accountId": account.ID,
		"email":     account.Email,
		"name":      account.Name,
		"role":      account.Role,
	})
}

// Login authenticates by email + password and issues a JWT.
func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection error"})
		return
	}

	var accountID string
	if err := session.Query(`SELECT account_id FROM accounts_by_email WHERE email = ?`, input.Email).Scan(&accountID); err != nil {
		middleware.RecordFailedLogin(input.Email)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	var account models.Account
	account.ID = accountID
	if err := session.Query(`
		SELECT name, email, password, role FROM accounts WHERE account_id = ?
	`, accountID).Scan(&account.Name, &account.Email, &account.Password, &account.Role); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Account lookup error"})
		return
	}

	ok, err := utils.VerifyPassword(input.Password, account.Password)
	if err != nil || !ok {
		middleware.RecordFailedLogin(input.Email)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	middleware.ClearLoginAttempts(input.Email)

	token, err := utils.GenerateJWT(account)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation error"})
		return
	}

	log.Printf("🔓 Login: %s", account.Email)

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"accountId": account.ID,
		"email":     account.Email,
		"name":      account.Name,
		"role":      account.Role,
	})
}

// Me returns the caller's account.
func Me(c *gin.Context) {
	accountID := c.GetString("account_id")

	account, err := cache.GetAccountFromCache(accountID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}

	c.JSON(http.StatusOK, account)
}

// ForgotPassword stores a one-shot reset token in Redis and mails the link.
// The response never reveals whether the email exists.
func ForgotPassword(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection error"})
		return
	}

	response := gin.H{"message": "If this email exists, a reset link has been sent"}

	var accountID string
	if err := session.Query(`SELECT account_id FROM accounts_by_email WHERE email = ?`, input.Email).Scan(&accountID); err != nil {
		c.JSON(http.StatusOK, response)
		return
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation error"})
		return
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	ctx := context.Background()
	database.Redis.Set(ctx, "pwd_reset:"+token, accountID, resetTokenTTL)

	frontURL := os.Getenv("FRONTEND_URL")
	resetLink := frontURL + "/reset-password?token=" + token

	go func(email, link string) {
		if err := utils.SendEmail(email, "🔑 Reset your Lumiskin password", utils.GeneratePasswordResetHTML(link)); err != nil {
			log.Printf("❌ Password reset email failed for %s: %v", email, err)
		}
	}(input.Email, resetLink)

	c.JSON(http.StatusOK, response)
}

// ResetPassword consumes a reset token and replaces the password.
func ResetPassword(c *gin.Context) {
	var input struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	ctx := context.Background()
	key := "pwd_reset:" + input.Token

	accountID, err := database.Redis.Get(ctx, key).Result()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Password update error"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection error"})
		return
	}

	if err := session.Query(`
		UPDATE accounts SET password = ? WHERE account_id = ?
	`, hashed, accountID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Password update error"})
		return
	}

	database.Redis.Del(ctx, key)
	cache.InvalidateAccountCache(accountID)

	log.Printf("🔑 Password reset for account %s", accountID)

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
