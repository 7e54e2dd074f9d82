package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string
type PaymentStatus string

const (
	OrderStatusPending    OrderStatus = "pending"    // Order placed, awaiting confirmation
	OrderStatusProcessing OrderStatus = "processing" // Confirmed, being prepared
	OrderStatusShipped    OrderStatus = "shipped"    // Out for delivery
	OrderStatusDelivered  OrderStatus = "delivered"  // Customer received the item
	OrderStatusCancelled  OrderStatus = "cancelled"  // Cancelled, stock released
	OrderStatusRefunded   OrderStatus = "refunded"   // Money returned after delivery

	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusPaid       PaymentStatus = "paid"
	PaymentStatusCancelled  PaymentStatus = "cancelled"
)

// PaymentMethodCashOnDelivery is the only supported payment method.
const PaymentMethodCashOnDelivery = "cash_on_delivery"

// Order is append-only after creation: only Status and its timestamps ever
// change. Items, prices and the shipping fee are frozen at checkout.
type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Reference       string          `gorm:"uniqueIndex;not null" json:"reference"`
	UserID          string          `gorm:"index;uniqueIndex:idx_orders_user_idem;not null" json:"user_id"`
	User            User            `gorm:"foreignKey:UserID" json:"user"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	ShippingAddress string          `gorm:"not null" json:"shipping_address"`
	ShippingCity    string          `gorm:"not null" json:"shipping_city"`
	ShippingZipCode string          `json:"shipping_zip_code"`
	PhoneNumber     string          `gorm:"not null" json:"phone_number"`
	Notes           string          `json:"notes,omitempty"`
	Status          OrderStatus     `gorm:"type:varchar(20);default:'pending'" json:"status"`
	ShippingFee     decimal.Decimal `gorm:"type:decimal(12,3)" json:"shipping_fee"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(12,3)" json:"total_price"`
	PaymentMethod   string          `gorm:"type:varchar(30);default:'cash_on_delivery'" json:"payment_method"`
	PaymentStatus   PaymentStatus   `gorm:"-" json:"payment_status"`
	IdempotencyKey  *string         `gorm:"uniqueIndex:idx_orders_user_idem" json:"-"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	ShippedAt       *time.Time      `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`
}

type OrderItem struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	OrderID      uint            `gorm:"index" json:"order_id"`
	ProductID    uint            `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductImage string          `json:"product_image"`
	Price        decimal.Decimal `gorm:"type:decimal(12,3)" json:"price"` // unit price frozen at order time
	Quantity     int             `gorm:"not null" json:"quantity"`
}

// DerivedPaymentStatus maps the order status onto the payment status shown
// to users. It is never stored.
func (o Order) DerivedPaymentStatus() PaymentStatus {
	switch o.Status {
	case OrderStatusDelivered:
		return PaymentStatusPaid
	case OrderStatusCancelled:
		return PaymentStatusCancelled
	case OrderStatusProcessing, OrderStatusShipped:
		return PaymentStatusProcessing
	default:
		return PaymentStatusPending
	}
}

// AfterFind keeps the serialized payment status in sync with the order
// status on every read.
func (o *Order) AfterFind(*gorm.DB) error {
	o.PaymentStatus = o.DerivedPaymentStatus()
	return nil
}

// IsTerminal reports whether the status ends the fulfillment lifecycle.
// Delivered is terminal for cancellation purposes even though the refund
// edge can still leave it.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return true
	default:
		return false
	}
}
