package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product rows are owned by the catalog service. This service only ever
// mutates the Stock column (checkout decrements, cancellation restores).
type Product struct {
	ID            uint                `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string              `gorm:"not null" json:"name"`
	Image         string              `json:"image"`
	Price         decimal.Decimal     `gorm:"type:decimal(12,3);not null" json:"price"`
	DiscountPrice decimal.NullDecimal `gorm:"type:decimal(12,3)" json:"discount_price"`
	Stock         int                 `gorm:"not null;default:0" json:"stock"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	DeletedAt     gorm.DeletedAt      `gorm:"index" json:"-"`
}

// EffectivePrice returns the discount price when it is set, positive and
// strictly below the list price, otherwise the list price.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice.Valid &&
		p.DiscountPrice.Decimal.IsPositive() &&
		p.DiscountPrice.Decimal.LessThan(p.Price) {
		return p.DiscountPrice.Decimal
	}
	return p.Price
}
