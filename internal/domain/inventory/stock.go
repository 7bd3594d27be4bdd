// Package inventory reglas de stock: clasificación por umbral y movimientos sobre los contadores.
package inventory

import (
	"fmt"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// Estados de stock.
const (
	StatusOutOfStock = "out_of_stock"
	StatusLowStock   = "low_stock"
	StatusInStock    = "in_stock"
)

// Classify etiqueta una cantidad disponible según el umbral de stock bajo.
// qty <= 0 -> agotado; qty <= umbral -> stock bajo; resto -> en stock.
func Classify(qty, threshold int) string {
	switch {
	case qty <= 0:
		return StatusOutOfStock
	case qty <= threshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// ValidStatus informa si s es un filtro de estado reconocido.
func ValidStatus(s string) bool {
	return s == StatusOutOfStock || s == StatusLowStock || s == StatusInStock
}

// Adjust suma delta (positivo o negativo) a lo disponible. No permite quedar en negativo.
func Adjust(inv *entity.Inventory, delta int) error {
	next := inv.QuantityAvailable + delta
	if next < 0 {
		return fmt.Errorf("%w: disponible %d, ajuste %d", domain.ErrInsufficientStock, inv.QuantityAvailable, delta)
	}
	inv.QuantityAvailable = next
	return nil
}

// Reserve mueve qty de disponible a reservado (pedido creado).
func Reserve(inv *entity.Inventory, qty int) error {
	if qty <= 0 {
		return domain.ErrInvalidInput
	}
	if inv.QuantityAvailable < qty {
		return fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, inv.QuantityAvailable, qty)
	}
	inv.QuantityAvailable -= qty
	inv.QuantityReserved += qty
	return nil
}

// Release devuelve qty reservado a disponible (pedido cancelado).
// Si lo reservado es menor (ajustes manuales intermedios) libera solo lo que hay.
func Release(inv *entity.Inventory, qty int) {
	if qty > inv.QuantityReserved {
		qty = inv.QuantityReserved
	}
	if qty <= 0 {
		return
	}
	inv.QuantityReserved -= qty
	inv.QuantityAvailable += qty
}

// Commit descuenta definitivamente qty de lo reservado (pedido despachado).
func Commit(inv *entity.Inventory, qty int) {
	if qty > inv.QuantityReserved {
		qty = inv.QuantityReserved
	}
	if qty <= 0 {
		return
	}
	inv.QuantityReserved -= qty
}
