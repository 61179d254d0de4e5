package utils

import (
	"os"
	"time"

	"lumiskin_back_end/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

func GenerateJWT(account models.Account) (string, error) {
	secret := os.Getenv("JWT_SECRET")

	claims := jwt.MapClaims{
		"account_id": account.ID,
		"email":      account.Email,
		"role":       account.Role,
		"exp":        time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
