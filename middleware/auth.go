package middleware

import (
	"errors"
	"net/http"
	"os"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"

	"github.com/ghassen-kharrat/barbachli-sub001/httpx"
)

// ValidateToken parses the bearer token issued by the auth service and
// stashes the caller's identity and role in the request context. This
// service never issues tokens itself.
func ValidateToken(c *gin.Context) {
	tokenString := c.GetHeader("Authorization")
	if tokenString == "" {
		httpx.Abort(c, http.StatusUnauthorized, "Authorization header is missing")
		return
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		httpx.Abort(c, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		httpx.Abort(c, http.StatusUnauthorized, "Invalid token claims")
		return
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		httpx.Abort(c, http.StatusUnauthorized, "Invalid token claims")
		return
	}
	c.Set("user_id", userID)
	if role, ok := claims["role"].(string); ok {
		c.Set("role", role)
	}

	c.Next()
}

// RequireAdmin gates a route group on the admin role from the token.
func RequireAdmin(c *gin.Context) {
	if c.GetString("role") != "admin" {
		httpx.Abort(c, http.StatusForbidden, "Admin role required")
		return
	}
	c.Next()
}
