package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una tienda.
const (
	StoreStatusActive    = "active"
	StoreStatusSuspended = "suspended"
)

// Store representa un comercio/tenant del storefront, identificado públicamente por su slug.
type Store struct {
	ID          string
	OwnerID     string
	Name        string
	Slug        string // único global, ver pkg/slug
	Description string
	LogoURL     string
	BannerURL   string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StoreSettings configuración operativa de la tienda (una fila por tienda).
// ShippingOptions se persiste como arreglo JSON en la columna shipping_options.
type StoreSettings struct {
	StoreID           string
	Currency          string // ISO 4217
	ContactEmail      string
	ContactPhone      string
	Address           string
	LowStockThreshold int // umbral por defecto para inventarios nuevos
	ShippingOptions   []ShippingOption
	UpdatedAt         time.Time
}

// ShippingOption tarifa de envío con nombre y días estimados.
type ShippingOption struct {
	Name          string          `json:"name"`
	Fee           decimal.Decimal `json:"fee"`
	EstimatedDays int             `json:"estimated_days"`
}
