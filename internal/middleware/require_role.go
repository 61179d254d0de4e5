package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireAdmin only lets "admin" callers through.
func RequireAdmin(c *gin.Context) {
	role, exists := c.Get("role")
	if !exists || role != "admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access only"})
		c.Abort()
		return
	}
	c.Next()
}

// RequireManager lets "manager" and "admin" callers through.
func RequireManager(c *gin.Context) {
	role, exists := c.Get("role")
	if !exists || (role != "manager" && role != "admin") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Manager access only"})
		c.Abort()
		return
	}
	c.Next()
}

// IsAdmin reports whether the current caller has the admin role.
func IsAdmin(c *gin.Context) bool {
	role, _ := c.Get("role")
	return role == "admin"
}
