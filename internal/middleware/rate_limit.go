package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"lumiskin_back_end/internal/database"

	"github.com/gin-gonic/gin"
)

const (
	LoginMaxAttempts = 5
	LoginCooldown    = 15 * time.Minute
)

// LoginRateLimit throttles login attempts per email through Redis.
func LoginRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		bodyBytes, _ := io.ReadAll(c.Request.Body)

		var input struct {
			Email string `json:"email"`
		}
		if err := json.Unmarshal(bodyBytes, &input); err != nil || input.Email == "" {
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			c.Next()
			return
		}

		// Put the body back for the handler.
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		ctx := context.Background()
		cooldownKey := "login_cooldown:" + input.Email

		if database.Redis.Exists(ctx, cooldownKey).Val() > 0 {
			ttl := database.Redis.TTL(ctx, cooldownKey).Val()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("Too many failed attempts. Retry in %d minutes", int(ttl.Minutes())+1),
				"retry_after": int(ttl.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RecordFailedLogin bumps the attempt counter and arms the cooldown once the
// limit is hit.
func RecordFailedLogin(email string) {
	ctx := context.Background()
	key := "login_attempts:" + email

	attempts := database.Redis.Incr(ctx, key).Val()
	database.Redis.Expire(ctx, key, LoginCooldown)

	if attempts >= LoginMaxAttempts {
		database.Redis.Set(ctx, "login_cooldown:"+email, "1", LoginCooldown)
		database.Redis.Del(ctx, key)
	}
}

// ClearLoginAttempts resets the counter after a successful login.
func ClearLoginAttempts(email string) {
	ctx := context.Background()
	database.Redis.Del(ctx, "login_attempts:"+email, "login_cooldown:"+email)
}
