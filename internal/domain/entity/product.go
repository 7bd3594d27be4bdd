package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de publicación de un producto.
const (
	ProductStatusDraft    = "draft"
	ProductStatusActive   = "active"
	ProductStatusArchived = "archived"
)

// Product representa un ítem del catálogo de una tienda.
// Si HasVariants es true el precio y el stock efectivos viven en cada ProductVariant.
type Product struct {
	ID              string
	StoreID         string
	CategoryID      string // vacío = sin categoría
	Name            string
	Slug            string // único por tienda
	Description     string
	SKU             string
	Price           decimal.Decimal
	DiscountPercent decimal.Decimal // 0..100
	Status          string
	Images          []string
	HasVariants     bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ProductVariant combinación de atributos (talla, color, ...) con precio y stock propios.
type ProductVariant struct {
	ID              string
	ProductID       string
	SKU             string
	Attributes      map[string]string
	Price           decimal.Decimal
	DiscountPercent *decimal.Decimal // nil = hereda el descuento del producto
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
