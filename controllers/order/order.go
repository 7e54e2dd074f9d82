package orderControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ghassen-kharrat/barbachli-sub001/httpx"
	"github.com/ghassen-kharrat/barbachli-sub001/models"
	orderService "github.com/ghassen-kharrat/barbachli-sub001/services/order"
)

type PlaceOrderRequest struct {
	orderService.ShippingInfo
	IdempotencyKey string `json:"idempotency_key"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func actorFromContext(c *gin.Context) (orderService.Actor, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		httpx.Abort(c, http.StatusUnauthorized, "Unauthorized")
		return orderService.Actor{}, false
	}
	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		httpx.Abort(c, http.StatusUnauthorized, "Unauthorized")
		return orderService.Actor{}, false
	}
	return orderService.Actor{UserID: userID, IsAdmin: c.GetString("role") == "admin"}, true
}

func orderIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("order_id"), 10, 64)
	if err != nil {
		httpx.Abort(c, http.StatusBadRequest, "Invalid order id")
		return 0, false
	}
	return uint(id), true
}

func pagingParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	return page, limit
}

// POST /user/orders
func PlaceOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFromContext(c)
		if !ok {
			return
		}
		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Abort(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}
		key := c.GetHeader("Idempotency-Key")
		if key == "" {
			key = req.IdempotencyKey
		}
		order, err := orderService.CreateOrder(db, actor.UserID, req.ShippingInfo, key)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		broadcastOrderEvent(OrderEvent{Type: "order_created", Order: order})
		httpx.OK(c, http.StatusCreated, order)
	}
}

// GET /user/orders
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFromContext(c)
		if !ok {
			return
		}
		page, limit := pagingParams(c)
		result, err := orderService.ListUserOrders(db, actor.UserID, page, limit)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		httpx.OK(c, http.StatusOK, result)
	}
}

// GET /user/orders/:order_id and /admin/orders/:order_id
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFromContext(c)
		if !ok {
			return
		}
		orderID, ok := orderIDParam(c)
		if !ok {
			return
		}
		order, err := orderService.GetOrder(db, orderID, actor)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		httpx.OK(c, http.StatusOK, order)
	}
}

// PUT /user/orders/:order_id/cancel and /admin/orders/:order_id/cancel
func CancelOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFromContext(c)
		if !ok {
			return
		}
		orderID, ok := orderIDParam(c)
		if !ok {
			return
		}
		order, err := orderService.CancelOrder(db, orderID, actor)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		broadcastOrderEvent(OrderEvent{Type: "order_status_changed", Order: order})
		httpx.OK(c, http.StatusOK, order)
	}
}

// GET /admin/orders
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := pagingParams(c)
		result, err := orderService.ListAdminOrders(db, orderService.ListParams{
			Status: c.Query("status"),
			Search: c.Query("search"),
			Page:   page,
			Limit:  limit,
		})
		if err != nil {
			httpx.Error(c, err)
			return
		}
		httpx.OK(c, http.StatusOK, result)
	}
}

// PUT /admin/orders/:order_id/status
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFromContext(c)
		if !ok {
			return
		}
		orderID, ok := orderIDParam(c)
		if !ok {
			return
		}
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Abort(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}
		order, err := orderService.UpdateStatus(db, orderID, models.OrderStatus(req.Status), actor)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		broadcastOrderEvent(OrderEvent{Type: "order_status_changed", Order: order})
		httpx.OK(c, http.StatusOK, order)
	}
}
