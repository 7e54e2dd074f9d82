package orderService

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ghassen-kharrat/barbachli-sub001/apperrors"
	"github.com/ghassen-kharrat/barbachli-sub001/models"
	"github.com/ghassen-kharrat/barbachli-sub001/pricing"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// ListParams are the admin listing filters.
type ListParams struct {
	Status string
	Search string // matches order reference or user id
	Page   int
	Limit  int
}

// Page is one page of orders plus the count needed to paginate.
type Page struct {
	Orders     []models.Order `json:"orders"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int64          `json:"total_pages"`
}

func clampPaging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

// ListUserOrders returns the user's orders, newest first.
func ListUserOrders(db *gorm.DB, userID string, page, limit int) (Page, error) {
	page, limit = clampPaging(page, limit)
	query := db.Model(&models.Order{}).Where("user_id = ?", userID)
	return listOrders(query, page, limit)
}

// ListAdminOrders returns every order matching the filters, newest first.
func ListAdminOrders(db *gorm.DB, params ListParams) (Page, error) {
	page, limit := clampPaging(params.Page, params.Limit)
	query, err := adminOrdersQuery(db, params)
	if err != nil {
		return Page{}, err
	}
	return listOrders(query, page, limit)
}

// ListAdminOrdersForExport returns every matching order with no page cap,
// for report generation.
func ListAdminOrdersForExport(db *gorm.DB, params ListParams) ([]models.Order, error) {
	query, err := adminOrdersQuery(db, params)
	if err != nil {
		return nil, err
	}

	var orders []models.Order
	if err := query.
		Preload("Items").
		Preload("User").
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	for i := range orders {
		applyDerived(&orders[i])
	}
	return orders, nil
}

func adminOrdersQuery(db *gorm.DB, params ListParams) (*gorm.DB, error) {
	query := db.Model(&models.Order{})
	if params.Status != "" {
		if !ValidStatus(models.OrderStatus(params.Status)) {
			return nil, fmt.Errorf("status %q: %w", params.Status, apperrors.ErrInvalidTransition)
		}
		query = query.Where("status = ?", params.Status)
	}
	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("reference LIKE ? OR user_id LIKE ?", like, like)
	}
	return query, nil
}

func listOrders(query *gorm.DB, page, limit int) (Page, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Page{}, err
	}

	var orders []models.Order
	if err := query.
		Preload("Items").
		Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error; err != nil {
		return Page{}, err
	}

	for i := range orders {
		applyDerived(&orders[i])
	}

	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}
	return Page{Orders: orders, Total: total, Page: page, Limit: limit, TotalPages: totalPages}, nil
}

// GetOrder returns one order to its owner or to an admin.
func GetOrder(db *gorm.DB, orderID uint, actor Actor) (models.Order, error) {
	var order models.Order
	if err := db.Preload("Items").Preload("User").First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, fmt.Errorf("order %d: %w", orderID, apperrors.ErrNotFound)
		}
		return models.Order{}, err
	}
	if !actor.IsAdmin && order.UserID != actor.UserID {
		return models.Order{}, apperrors.ErrForbidden
	}
	applyDerived(&order)
	return order, nil
}

// applyDerived recomputes the presented total from the frozen item prices
// plus the frozen shipping fee, so a stale stored column can never drift
// from the pricing invariant.
func applyDerived(order *models.Order) {
	if len(order.Items) == 0 {
		order.PaymentStatus = order.DerivedPaymentStatus()
		return
	}
	lines := make([]pricing.Line, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, pricing.Line{UnitPrice: item.Price, Quantity: item.Quantity})
	}
	totals := pricing.ComputeTotals(lines)
	order.TotalPrice = totals.Subtotal.Add(order.ShippingFee)
	order.PaymentStatus = order.DerivedPaymentStatus()
}
