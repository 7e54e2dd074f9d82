package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/ghassen-kharrat/barbachli-sub001/controllers/order"
	"github.com/ghassen-kharrat/barbachli-sub001/middleware"
)

// SetupOrderFeedRoutes exposes the websocket feed of order events used by
// internal dashboards.
func SetupOrderFeedRoutes(r *gin.Engine) {
	orders := r.Group("/orders")
	orders.Use(middleware.ValidateAPIKey)
	{
		orders.GET("/ws", orderControllers.OrderWebSocketHandler)
	}
}
