package cartControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ghassen-kharrat/barbachli-sub001/httpx"
	cartService "github.com/ghassen-kharrat/barbachli-sub001/services/cart"
)

type AddItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type UpdateItemInput struct {
	Quantity int `json:"quantity" binding:"required"`
}

func userIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		httpx.Abort(c, http.StatusUnauthorized, "Unauthorized")
		return "", false
	}
	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		httpx.Abort(c, http.StatusUnauthorized, "Unauthorized")
		return "", false
	}
	return userID, true
}

func itemIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("item_id"), 10, 64)
	if err != nil {
		httpx.Abort(c, http.StatusBadRequest, "Invalid item id")
		return 0, false
	}
	return uint(id), true
}

// GET /user/cart
func GetUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromContext(c)
		if !ok {
			return
		}
		view, err := cartService.GetCart(db, userID)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		httpx.OK(c, http.StatusOK, view)
	}
}

// POST /user/cart/items
func AddCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromContext(c)
		if !ok {
			return
		}
		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			httpx.Abort(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}
		view, err := cartService.AddItem(db, userID, input.ProductID, input.Quantity)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		httpx.OK(c, http.StatusCreated, view)
	}
}

// PUT /user/cart/items/:item_id
func UpdateCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromContext(c)
		if !ok {
			return
		}
		itemID, ok := itemIDParam(c)
		if !ok {
			return
		}
		var input UpdateItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			httpx.Abort(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}
		view, err := cartService.UpdateQuantity(db, userID, itemID, input.Quantity)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		httpx.OK(c, http.StatusOK, view)
	}
}

// DELETE /user/cart/items/:item_id
func DeleteCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromContext(c)
		if !ok {
			return
		}
		itemID, ok := itemIDParam(c)
		if !ok {
			return
		}
		if err := cartService.RemoveItem(db, userID, itemID); err != nil {
			httpx.Error(c, err)
			return
		}
		httpx.Message(c, http.StatusOK, "Cart item removed")
	}
}

// DELETE /user/cart
func ClearUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromContext(c)
		if !ok {
			return
		}
		if err := cartService.Clear(db, userID); err != nil {
			httpx.Error(c, err)
			return
		}
		httpx.Message(c, http.StatusOK, "Cart cleared")
	}
}
