package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/ghassen-kharrat/barbachli-sub001/controllers/order"
	"github.com/ghassen-kharrat/barbachli-sub001/middleware"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires a JWT with
// the admin role.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateToken, middleware.RequireAdmin)
	{
		orderAdmin := adminGroup.Group("/orders")
		{
			orderAdmin.GET("", orderControllers.GetAllOrdersHandler(db))
			orderAdmin.GET("/export-excel", orderControllers.ExportOrdersToExcel(db))
			orderAdmin.GET("/:order_id", orderControllers.GetOrderByIDHandler(db))
			orderAdmin.PUT("/:order_id/status", orderControllers.UpdateOrderStatusHandler(db))
			orderAdmin.PUT("/:order_id/cancel", orderControllers.CancelOrderHandler(db))
		}
	}
}
