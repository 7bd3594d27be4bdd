package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Variants no vacío = producto con variantes.
type CreateProductRequest struct {
	CategoryID      string                 `json:"category_id" validate:"omitempty,uuid"`
	Name            string                 `json:"name" validate:"required,min=1,max=200"`
	Slug            string                 `json:"slug" validate:"omitempty,max=60"`
	Description     string                 `json:"description"`
	SKU             string                 `json:"sku" validate:"required,min=1,max=100"`
	Price           decimal.Decimal        `json:"price"`
	DiscountPercent decimal.Decimal        `json:"discount_percent"`
	Status          string                 `json:"status" validate:"omitempty,oneof=draft active archived"`
	Images          []string               `json:"images" validate:"omitempty,dive,url"`
	InitialStock    int                    `json:"initial_stock" validate:"min=0"`
	Variants        []CreateVariantRequest `json:"variants" validate:"omitempty,dive"`
}

// UpdateProductRequest; nil = sin cambio. CategoryID "" quita la categoría.
type UpdateProductRequest struct {
	CategoryID      *string          `json:"category_id"`
	Name            *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Slug            *string          `json:"slug" validate:"omitempty,max=60"`
	Description     *string          `json:"description"`
	SKU             *string          `json:"sku" validate:"omitempty,min=1,max=100"`
	Price           *decimal.Decimal `json:"price"`
	DiscountPercent *decimal.Decimal `json:"discount_percent"`
	Status          *string          `json:"status" validate:"omitempty,oneof=draft active archived"`
	Images          []string         `json:"images" validate:"omitempty,dive,url"`
}

// CreateVariantRequest variante con precio y stock propios.
type CreateVariantRequest struct {
	SKU             string            `json:"sku" validate:"required,min=1,max=100"`
	Attributes      map[string]string `json:"attributes" validate:"required,min=1"`
	Price           decimal.Decimal   `json:"price"`
	DiscountPercent *decimal.Decimal  `json:"discount_percent"`
	InitialStock    int               `json:"initial_stock" validate:"min=0"`
}

// UpdateVariantRequest; ClearDiscount vuelve a heredar el descuento del producto.
type UpdateVariantRequest struct {
	SKU             *string           `json:"sku" validate:"omitempty,min=1,max=100"`
	Attributes      map[string]string `json:"attributes"`
	Price           *decimal.Decimal  `json:"price"`
	DiscountPercent *decimal.Decimal  `json:"discount_percent"`
	ClearDiscount   bool              `json:"clear_discount"`
}

// ProductListQuery filtros de listado (query string).
type ProductListQuery struct {
	PageRequest
	CategoryID  string `query:"category_id"`
	Status      string `query:"status" validate:"omitempty,oneof=draft active archived"`
	Search      string `query:"search"`
	StockStatus string `query:"stock_status" validate:"omitempty,oneof=out_of_stock low_stock in_stock"`
}

// ProductResponse salida de un producto. FinalPrice ya aplica el descuento.
type ProductResponse struct {
	ID              string            `json:"id"`
	StoreID         string            `json:"store_id"`
	CategoryID      string            `json:"category_id,omitempty"`
	Name            string            `json:"name"`
	Slug            string            `json:"slug"`
	Description     string            `json:"description"`
	SKU             string            `json:"sku"`
	Price           decimal.Decimal   `json:"price"`
	DiscountPercent decimal.Decimal   `json:"discount_percent"`
	FinalPrice      decimal.Decimal   `json:"final_price"`
	Status          string            `json:"status"`
	Images          []string          `json:"images"`
	HasVariants     bool              `json:"has_variants"`
	Stock           *StockResponse    `json:"stock,omitempty"`
	Variants        []VariantResponse `json:"variants,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// VariantResponse salida de una variante con su stock.
type VariantResponse struct {
	ID              string            `json:"id"`
	ProductID       string            `json:"product_id"`
	SKU             string            `json:"sku"`
	Attributes      map[string]string `json:"attributes"`
	Price           decimal.Decimal   `json:"price"`
	DiscountPercent decimal.Decimal   `json:"discount_percent"`
	FinalPrice      decimal.Decimal   `json:"final_price"`
	Stock           *StockResponse    `json:"stock,omitempty"`
}

// StockResponse resumen de stock embebido en producto/variante.
type StockResponse struct {
	InventoryID       string `json:"inventory_id"`
	QuantityAvailable int    `json:"quantity_available"`
	QuantityReserved  int    `json:"quantity_reserved"`
	LowStockThreshold int    `json:"low_stock_threshold"`
	Status            string `json:"status"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
