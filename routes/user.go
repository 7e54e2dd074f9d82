package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/ghassen-kharrat/barbachli-sub001/controllers/cart"
	orderControllers "github.com/ghassen-kharrat/barbachli-sub001/controllers/order"
	"github.com/ghassen-kharrat/barbachli-sub001/middleware"
)

// SetupUserRoutes registers all "/user/*" endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken)
	{
		// ──────────────── Shopping Cart ────────────────
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("", cartControllers.GetUserCart(db))                      // GET /user/cart
			cartGroup.POST("/items", cartControllers.AddCartItem(db))               // POST /user/cart/items
			cartGroup.PUT("/items/:item_id", cartControllers.UpdateCartItem(db))    // PUT /user/cart/items/:item_id
			cartGroup.DELETE("/items/:item_id", cartControllers.DeleteCartItem(db)) // DELETE /user/cart/items/:item_id
			cartGroup.DELETE("", cartControllers.ClearUserCart(db))                 // DELETE /user/cart
		}

		// ──────────────── Orders ────────────────
		orderGroup := userGroup.Group("/orders")
		{
			orderGroup.POST("", orderControllers.PlaceOrderHandler(db))                  // POST /user/orders
			orderGroup.GET("", orderControllers.GetUserOrdersHandler(db))                // GET /user/orders
			orderGroup.GET("/:order_id", orderControllers.GetOrderByIDHandler(db))       // GET /user/orders/:order_id
			orderGroup.PUT("/:order_id/cancel", orderControllers.CancelOrderHandler(db)) // PUT /user/orders/:order_id/cancel
		}
	}
}
