package entity

import "time"

// Inventory contadores de stock de un producto (VariantID vacío) o de una variante.
// QuantityAvailable es lo vendible; QuantityReserved lo comprometido por pedidos abiertos.
type Inventory struct {
	ID                string
	StoreID           string
	ProductID         string
	VariantID         string
	QuantityAvailable int
	QuantityReserved  int
	LowStockThreshold int
	UpdatedAt         time.Time
}

// InventoryItem vista de inventario con los datos del producto para listados y exportación.
type InventoryItem struct {
	Inventory
	ProductName string
	SKU         string
	VariantName string
}
