package orderService

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ghassen-kharrat/barbachli-sub001/apperrors"
	"github.com/ghassen-kharrat/barbachli-sub001/models"
	"github.com/ghassen-kharrat/barbachli-sub001/pricing"
)

// ShippingInfo is the checkout form.
type ShippingInfo struct {
	Address     string `json:"shipping_address" binding:"required"`
	City        string `json:"shipping_city" binding:"required"`
	ZipCode     string `json:"shipping_zip_code"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Notes       string `json:"notes"`
}

// CreateOrder converts the user's cart into a pending order. Stock
// decrement, price snapshot, order row and cart clear all happen in one
// transaction; a supplied idempotency key makes the whole call
// lookup-or-create so a double submit returns the first order.
func CreateOrder(db *gorm.DB, userID string, info ShippingInfo, idempotencyKey string) (models.Order, error) {
	if idempotencyKey != "" {
		var existing models.Order
		err := db.Preload("Items").
			Where("user_id = ? AND idempotency_key = ?", userID, idempotencyKey).
			First(&existing).Error
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, err
		}
	}

	var cart models.Cart
	if err := db.Preload("Items.Product").Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, apperrors.ErrEmptyCart
		}
		return models.Order{}, err
	}
	if len(cart.Items) == 0 {
		return models.Order{}, apperrors.ErrEmptyCart
	}

	// Up-front re-validation so the whole checkout fails before any write,
	// naming every offending product. The transactional decrement below
	// still guards against stock changing between here and commit.
	var short []string
	for _, item := range cart.Items {
		if item.Quantity > item.Product.Stock {
			short = append(short, fmt.Sprintf("%s (requested %d, in stock %d)",
				item.Product.Name, item.Quantity, item.Product.Stock))
		}
	}
	if len(short) > 0 {
		return models.Order{}, fmt.Errorf("%s: %w", strings.Join(short, ", "), apperrors.ErrInsufficientStock)
	}

	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		lines := make([]pricing.Line, 0, len(cart.Items))
		orderItems := make([]models.OrderItem, 0, len(cart.Items))

		for _, item := range cart.Items {
			// Atomic conditional decrement: never read-then-write, so
			// concurrent checkouts cannot oversell.
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%s: %w", item.Product.Name, apperrors.ErrInsufficientStock)
			}

			unit := item.Product.EffectivePrice()
			lines = append(lines, pricing.Line{UnitPrice: unit, Quantity: item.Quantity})
			orderItems = append(orderItems, models.OrderItem{
				ProductID:    item.ProductID,
				ProductName:  item.Product.Name,
				ProductImage: item.Product.Image,
				Price:        unit,
				Quantity:     item.Quantity,
			})
		}

		totals := pricing.ComputeTotals(lines)

		order = models.Order{
			Reference:       generateOrderRef(),
			UserID:          userID,
			Items:           orderItems,
			ShippingAddress: info.Address,
			ShippingCity:    info.City,
			ShippingZipCode: info.ZipCode,
			PhoneNumber:     info.PhoneNumber,
			Notes:           info.Notes,
			Status:          models.OrderStatusPending,
			ShippingFee:     totals.ShippingFee,
			TotalPrice:      totals.Total,
			PaymentMethod:   models.PaymentMethodCashOnDelivery,
		}
		if idempotencyKey != "" {
			key := idempotencyKey
			order.IdempotencyKey = &key
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		return tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		// A concurrent submit with the same key won the race: hand back the
		// order it created.
		if idempotencyKey != "" && errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing models.Order
			lookupErr := db.Preload("Items").
				Where("user_id = ? AND idempotency_key = ?", userID, idempotencyKey).
				First(&existing).Error
			if lookupErr == nil {
				return existing, nil
			}
			return models.Order{}, fmt.Errorf("idempotency key %q: %w", idempotencyKey, apperrors.ErrConflict)
		}
		return models.Order{}, err
	}

	order.PaymentStatus = order.DerivedPaymentStatus()
	return order, nil
}

// generateOrderRef builds the human-readable, immutable order reference.
func generateOrderRef() string {
	return "ORD-" + time.Now().Format("20060102150405") + "-" + strings.ToUpper(uuid.NewString()[:8])
}
