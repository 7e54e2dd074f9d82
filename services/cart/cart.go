package cartService

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ghassen-kharrat/barbachli-sub001/apperrors"
	"github.com/ghassen-kharrat/barbachli-sub001/models"
	"github.com/ghassen-kharrat/barbachli-sub001/pricing"
)

// CartView is the read model returned to the API: items joined to the live
// product rows plus totals from the pricing engine.
type CartView struct {
	CartID     uint           `json:"cart_id"`
	UserID     string         `json:"user_id"`
	Items      []CartItemView `json:"items"`
	TotalItems int            `json:"total_items"`
	pricing.Totals
}

type CartItemView struct {
	ID           uint            `json:"id"`
	ProductID    uint            `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductImage string          `json:"product_image"`
	ProductStock int             `json:"product_stock"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

func getOrCreateCart(tx *gorm.DB, userID string) (models.Cart, error) {
	var cart models.Cart
	err := tx.Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: userID}
		err = tx.Create(&cart).Error
	}
	return cart, err
}

// AddItem upserts a line into the user's cart. Adding to an existing line
// accumulates the quantity, clamped to the available stock. A request for
// more than the current stock is rejected outright.
func AddItem(db *gorm.DB, userID string, productID uint, quantity int) (CartView, error) {
	if quantity < 1 {
		return CartView{}, apperrors.ErrInvalidQuantity
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("product %d: %w", productID, apperrors.ErrNotFound)
			}
			return err
		}
		if quantity > product.Stock {
			return fmt.Errorf("product %q has %d in stock: %w", product.Name, product.Stock, apperrors.ErrInsufficientStock)
		}

		cart, err := getOrCreateCart(tx, userID)
		if err != nil {
			return err
		}

		var item models.CartItem
		err = tx.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&models.CartItem{
				CartID:    cart.CartID,
				ProductID: productID,
				Quantity:  quantity,
				AddedAt:   time.Now(),
			}).Error
		}
		if err != nil {
			return err
		}

		newQuantity := item.Quantity + quantity
		if newQuantity > product.Stock {
			newQuantity = product.Stock
		}
		// Guarded by the item's current quantity so concurrent upserts on
		// the same line cannot silently drop an update.
		res := tx.Model(&models.CartItem{}).
			Where("id = ? AND quantity = ?", item.ID, item.Quantity).
			Updates(map[string]interface{}{"quantity": newQuantity, "added_at": time.Now()})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrConflict
		}
		return nil
	})
	if err != nil {
		// Two concurrent adds of the same product can race the unique
		// (cart_id, product_id) index; the loser retries as a conflict.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return CartView{}, apperrors.ErrConflict
		}
		return CartView{}, err
	}
	return GetCart(db, userID)
}

// UpdateQuantity sets the quantity of one cart line. The cart is left
// unchanged on any failure.
func UpdateQuantity(db *gorm.DB, userID string, itemID uint, quantity int) (CartView, error) {
	if quantity < 1 {
		return CartView{}, apperrors.ErrInvalidQuantity
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		cart, err := getOrCreateCart(tx, userID)
		if err != nil {
			return err
		}

		var item models.CartItem
		if err := tx.Where("id = ? AND cart_id = ?", itemID, cart.CartID).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("cart item %d: %w", itemID, apperrors.ErrNotFound)
			}
			return err
		}

		var product models.Product
		if err := tx.First(&product, "id = ?", item.ProductID).Error; err != nil {
			// The catalog may have removed the product since it was added.
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("product %d: %w", item.ProductID, apperrors.ErrNotFound)
			}
			return err
		}
		if quantity > product.Stock {
			return fmt.Errorf("product %q has %d in stock: %w", product.Name, product.Stock, apperrors.ErrInsufficientStock)
		}

		return tx.Model(&models.CartItem{}).
			Where("id = ? AND cart_id = ?", item.ID, cart.CartID).
			Updates(map[string]interface{}{"quantity": quantity, "added_at": time.Now()}).Error
	})
	if err != nil {
		return CartView{}, err
	}
	return GetCart(db, userID)
}

// RemoveItem deletes one line. Removing a line that does not exist is a
// no-op, not an error.
func RemoveItem(db *gorm.DB, userID string, itemID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		cart, err := getOrCreateCart(tx, userID)
		if err != nil {
			return err
		}
		return tx.Where("id = ? AND cart_id = ?", itemID, cart.CartID).
			Delete(&models.CartItem{}).Error
	})
}

// Clear removes every line from the user's cart.
func Clear(db *gorm.DB, userID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		cart, err := getOrCreateCart(tx, userID)
		if err != nil {
			return err
		}
		return tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error
	})
}

// GetCart returns the user's cart joined to live product snapshots, with
// totals computed by the pricing engine. Read-only: never mutates stock.
func GetCart(db *gorm.DB, userID string) (CartView, error) {
	cart, err := getOrCreateCart(db, userID)
	if err != nil {
		return CartView{}, err
	}

	var items []models.CartItem
	if err := db.Preload("Product").
		Where("cart_id = ?", cart.CartID).
		Order("added_at asc").
		Find(&items).Error; err != nil {
		return CartView{}, err
	}

	view := CartView{CartID: cart.CartID, UserID: userID, Items: []CartItemView{}}
	lines := make([]pricing.Line, 0, len(items))
	for _, item := range items {
		unit := item.Product.EffectivePrice()
		lines = append(lines, pricing.Line{UnitPrice: unit, Quantity: item.Quantity})
		view.TotalItems += item.Quantity
		view.Items = append(view.Items, CartItemView{
			ID:           item.ID,
			ProductID:    item.ProductID,
			ProductName:  item.Product.Name,
			ProductImage: item.Product.Image,
			ProductStock: item.Product.Stock,
			UnitPrice:    unit,
			Quantity:     item.Quantity,
			LineTotal:    unit.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}
	view.Totals = pricing.ComputeTotals(lines)
	return view, nil
}
