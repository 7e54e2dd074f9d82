package orderService

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ghassen-kharrat/barbachli-sub001/apperrors"
	"github.com/ghassen-kharrat/barbachli-sub001/models"
)

// Actor identifies who is asking, as supplied by the auth layer.
type Actor struct {
	UserID  string
	IsAdmin bool
}

// transitions is the closed edge set of the order lifecycle. Every edge is
// admin-only except pending -> cancelled, which the owning user may also
// take. Anything not listed is rejected.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:    {models.OrderStatusDelivered, models.OrderStatusCancelled},
	models.OrderStatusDelivered:  {models.OrderStatusRefunded},
}

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is one of the known order statuses.
func ValidStatus(s models.OrderStatus) bool {
	switch s {
	case models.OrderStatusPending, models.OrderStatusProcessing,
		models.OrderStatusShipped, models.OrderStatusDelivered,
		models.OrderStatusCancelled, models.OrderStatusRefunded:
		return true
	}
	return false
}

// UpdateStatus applies one transition. Re-applying the current status is a
// no-op so replayed requests stay harmless. The write is guarded by the
// status the caller observed: a concurrent transition makes the guard miss
// and the loser gets ErrConflict instead of overwriting.
func UpdateStatus(db *gorm.DB, orderID uint, newStatus models.OrderStatus, actor Actor) (models.Order, error) {
	if !ValidStatus(newStatus) {
		return models.Order{}, fmt.Errorf("status %q: %w", newStatus, apperrors.ErrInvalidTransition)
	}

	var order models.Order
	if err := db.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, fmt.Errorf("order %d: %w", orderID, apperrors.ErrNotFound)
		}
		return models.Order{}, err
	}

	if !actor.IsAdmin {
		// The only user-initiated transition is cancelling your own order.
		if order.UserID != actor.UserID || newStatus != models.OrderStatusCancelled {
			return models.Order{}, apperrors.ErrForbidden
		}
	}

	if order.Status == newStatus {
		return order, nil
	}

	if !CanTransition(order.Status, newStatus) {
		return models.Order{}, fmt.Errorf("%s -> %s: %w", order.Status, newStatus, apperrors.ErrInvalidTransition)
	}
	if !actor.IsAdmin && order.Status != models.OrderStatusPending {
		// End users may only cancel while the order is still pending.
		return models.Order{}, fmt.Errorf("%s -> %s: %w", order.Status, newStatus, apperrors.ErrInvalidTransition)
	}

	now := time.Now()
	updates := map[string]interface{}{"status": newStatus, "updated_at": now}
	switch newStatus {
	case models.OrderStatusShipped:
		updates["shipped_at"] = now
	case models.OrderStatusDelivered:
		updates["delivered_at"] = now
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, order.Status).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("order %d: %w", order.ID, apperrors.ErrConflict)
		}

		if newStatus == models.OrderStatusCancelled {
			return releaseStock(tx, order.Items)
		}
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}

	if err := db.Preload("Items").First(&order, "id = ?", order.ID).Error; err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// CancelOrder is the user-facing cancel action; admins may cancel any
// non-terminal order through the same path.
func CancelOrder(db *gorm.DB, orderID uint, actor Actor) (models.Order, error) {
	return UpdateStatus(db, orderID, models.OrderStatusCancelled, actor)
}

// releaseStock puts the cancelled quantities back on the product rows with
// the same atomic increment primitive checkout uses to decrement.
func releaseStock(tx *gorm.DB, items []models.OrderItem) error {
	for _, item := range items {
		if err := tx.Model(&models.Product{}).
			Where("id = ?", item.ProductID).
			UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
			return err
		}
	}
	return nil
}
