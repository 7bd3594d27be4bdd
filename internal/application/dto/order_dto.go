package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest pedido desde el panel o desde el checkout público.
type CreateOrderRequest struct {
	CustomerID      string                   `json:"customer_id" validate:"omitempty,uuid"`
	CustomerName    string                   `json:"customer_name" validate:"omitempty,max=200"`
	CustomerEmail   string                   `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone   string                   `json:"customer_phone" validate:"omitempty,max=50"`
	ShippingAddress string                   `json:"shipping_address"`
	ShippingOption  string                   `json:"shipping_option"`
	Notes           string                   `json:"notes"`
	Items           []CreateOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// CreateOrderItemRequest línea solicitada; VariantID obligatorio si el producto tiene variantes.
type CreateOrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	VariantID string `json:"variant_id" validate:"omitempty,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// UpdateOrderStatusRequest cambio de estado del pedido.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed shipped delivered cancelled"`
}

// UpdatePaymentStatusRequest cambio de estado del pago (manual, sin pasarela).
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=pending paid failed refunded"`
}

type OrderListQuery struct {
	PageRequest
	Status        string `query:"status" validate:"omitempty,oneof=pending confirmed shipped delivered cancelled"`
	PaymentStatus string `query:"payment_status" validate:"omitempty,oneof=pending paid failed refunded"`
	CustomerID    string `query:"customer_id"`
	From          string `query:"from"` // YYYY-MM-DD
	To            string `query:"to"`   // YYYY-MM-DD, inclusive
}

type OrderItemResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	VariantID       string          `json:"variant_id,omitempty"`
	Name            string          `json:"name"`
	SKU             string          `json:"sku"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

type OrderResponse struct {
	ID              string              `json:"id"`
	StoreID         string              `json:"store_id"`
	CustomerID      string              `json:"customer_id,omitempty"`
	Number          string              `json:"number"`
	Status          string              `json:"status"`
	PaymentStatus   string              `json:"payment_status"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	DiscountTotal   decimal.Decimal     `json:"discount_total"`
	ShippingFee     decimal.Decimal     `json:"shipping_fee"`
	Total           decimal.Decimal     `json:"total"`
	ShippingOption  string              `json:"shipping_option"`
	CustomerName    string              `json:"customer_name"`
	CustomerEmail   string              `json:"customer_email"`
	ShippingAddress string              `json:"shipping_address"`
	Notes           string              `json:"notes"`
	Items           []OrderItemResponse `json:"items,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// OrderTokenResponse token de consulta del pedido para el cliente.
type OrderTokenResponse struct {
	Token string `json:"token"`
	URL   string `json:"url,omitempty"`
}

// CheckoutResponse respuesta del checkout público.
type CheckoutResponse struct {
	Order OrderResponse `json:"order"`
	Token string        `json:"token"`
}
