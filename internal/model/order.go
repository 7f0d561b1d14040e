package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCheckback  = "Checkback"
	OrderStatusCancelled  = "Cancelled"
)

// OrderStatuses lists the suggested statuses offered by the order forms.
// Status remains free text in storage.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCheckback,
	OrderStatusCancelled,
}

type Order struct {
	BaseModel
	OrderID         string          `db:"order_id" json:"order_id"`
	CustomerName    string          `db:"customer_name" json:"customer_name"`
	CustomerEmail   string          `db:"customer_email" json:"customer_email"`
	CustomerPhone   string          `db:"customer_phone" json:"customer_phone"`
	OrderDate       time.Time       `db:"order_date" json:"order_date"`
	Amount          decimal.Decimal `db:"amount" json:"amount"`
	Status          string          `db:"status" json:"status"`
	TrackingNumber  string          `db:"tracking_number" json:"tracking_number"`
	ShippingAddress string          `db:"shipping_address" json:"shipping_address"`
	Notes           string          `db:"notes" json:"notes"`
}

type OrderItem struct {
	ID        int64           `db:"id" json:"id"`
	OrderID   int64           `db:"order_id" json:"order_id"`
	ProductID int64           `db:"product_id" json:"product_id"`
	Quantity  int             `db:"quantity" json:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`
}

// Subtotal is quantity times the unit price captured at order time.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderItemDetail is an order item joined with the name of its product.
type OrderItemDetail struct {
	OrderItem
	ProductName string `db:"product_name" json:"product_name"`
}
