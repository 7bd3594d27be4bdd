package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del pedido.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Estados de pago.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// Order cabecera de un pedido. Los importes se calculan al crear el pedido y no se recalculan.
type Order struct {
	ID              string
	StoreID         string
	CustomerID      string          // vacío = invitado sin ficha
	Number          string
	Status          string
	PaymentStatus   string
	Subtotal        decimal.Decimal // suma de precios de lista
	DiscountTotal   decimal.Decimal
	ShippingFee     decimal.Decimal
	Total           decimal.Decimal
	ShippingOption  string
	CustomerName    string
	CustomerEmail   string
	ShippingAddress string
	Notes           string
	Items           []OrderItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem línea de pedido. Name y SKU se copian del catálogo al momento de la compra.
type OrderItem struct {
	ID              string
	OrderID         string
	ProductID       string
	VariantID       string
	Name            string
	SKU             string
	Quantity        int
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	LineTotal       decimal.Decimal
}
