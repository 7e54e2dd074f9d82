package middleware

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/ghassen-kharrat/barbachli-sub001/httpx"
)

// ValidateAPIKey guards the internal order-event feed consumed by the
// admin dashboard.
func ValidateAPIKey(c *gin.Context) {
	apiKey := c.GetHeader("X-API-KEY")
	if apiKey == "" || apiKey != os.Getenv("WS_API_KEY") {
		httpx.Abort(c, http.StatusUnauthorized, "Invalid or missing API key")
		return
	}
	c.Next()
}
