package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry-point that wires up the user, admin and
// internal route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	// User routes (JWT-protected)
	SetupUserRoutes(r, db)

	// Admin routes (JWT + admin role)
	SetupAdminRoutes(r, db)

	// Internal order-event feed (API-key-protected)
	SetupOrderFeedRoutes(r)
}
