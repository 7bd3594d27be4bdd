package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StoreResponse salida de una tienda.
type StoreResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	LogoURL     string    `json:"logo_url"`
	BannerURL   string    `json:"banner_url"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PublicStoreResponse vitrina pública: tienda + datos de compra.
type PublicStoreResponse struct {
	Store           StoreResponse       `json:"store"`
	Currency        string              `json:"currency"`
	ContactEmail    string              `json:"contact_email"`
	ContactPhone    string              `json:"contact_phone"`
	ShippingOptions []ShippingOptionDTO `json:"shipping_options"`
}

// UpdateStoreRequest campos editables; nil = sin cambio.
type UpdateStoreRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=200"`
	Slug        *string `json:"slug" validate:"omitempty,min=3,max=60"`
	Description *string `json:"description"`
}

// StoreSettingsResponse configuración de la tienda.
type StoreSettingsResponse struct {
	Currency          string              `json:"currency"`
	ContactEmail      string              `json:"contact_email"`
	ContactPhone      string              `json:"contact_phone"`
	Address           string              `json:"address"`
	LowStockThreshold int                 `json:"low_stock_threshold"`
	ShippingOptions   []ShippingOptionDTO `json:"shipping_options"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// UpdateSettingsRequest; las opciones de envío se gestionan en /api/shipping-options.
type UpdateSettingsRequest struct {
	Currency          *string `json:"currency" validate:"omitempty,len=3"`
	ContactEmail      *string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone      *string `json:"contact_phone" validate:"omitempty,max=50"`
	Address           *string `json:"address"`
	LowStockThreshold *int    `json:"low_stock_threshold" validate:"omitempty,min=0"`
}

// ShippingOptionDTO opción de envío (nombre único por tienda).
type ShippingOptionDTO struct {
	Name          string          `json:"name" validate:"required,max=80"`
	Fee           decimal.Decimal `json:"fee"`
	EstimatedDays int             `json:"estimated_days" validate:"min=0"`
}

// UpdateShippingOptionRequest; nil = sin cambio.
type UpdateShippingOptionRequest struct {
	Name          *string          `json:"name" validate:"omitempty,max=80"`
	Fee           *decimal.Decimal `json:"fee"`
	EstimatedDays *int             `json:"estimated_days" validate:"omitempty,min=0"`
}
