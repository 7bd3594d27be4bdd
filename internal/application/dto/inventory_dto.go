package dto

import "time"

// AdjustStockRequest suma (o resta) unidades disponibles.
type AdjustStockRequest struct {
	Delta  int    `json:"delta" validate:"required"`
	Reason string `json:"reason" validate:"omitempty,max=200"`
}

// SetThresholdRequest umbral de stock bajo.
type SetThresholdRequest struct {
	LowStockThreshold int `json:"low_stock_threshold" validate:"min=0"`
}

// InventoryListQuery filtros de listado.
type InventoryListQuery struct {
	PageRequest
	Status    string `query:"status" validate:"omitempty,oneof=out_of_stock low_stock in_stock"`
	ProductID string `query:"product_id"`
}

type InventoryResponse struct {
	ID                string    `json:"id"`
	ProductID         string    `json:"product_id"`
	VariantID         string    `json:"variant_id,omitempty"`
	ProductName       string    `json:"product_name,omitempty"`
	VariantName       string    `json:"variant_name,omitempty"`
	SKU               string    `json:"sku,omitempty"`
	QuantityAvailable int       `json:"quantity_available"`
	QuantityReserved  int       `json:"quantity_reserved"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	Status            string    `json:"status"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type InventoryListResponse struct {
	Items []InventoryResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
