package repository

import (
	"context"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// InventoryFilter filtros del listado de inventario.
type InventoryFilter struct {
	Status    string // out_of_stock | low_stock | in_stock
	ProductID string
	Limit     int
	Offset    int
}

// InventoryRepository define el puerto de persistencia de los contadores de stock.
type InventoryRepository interface {
	Create(ctx context.Context, inv *entity.Inventory) error
	GetByID(ctx context.Context, id string) (*entity.Inventory, error)
	// GetFor obtiene el inventario de un producto (variantID vacío) o de una variante.
	GetFor(ctx context.Context, productID, variantID string) (*entity.Inventory, error)
	// GetForUpdate igual que GetFor pero bloquea la fila (SELECT ... FOR UPDATE).
	GetForUpdate(ctx context.Context, productID, variantID string) (*entity.Inventory, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.Inventory, error)
	List(ctx context.Context, storeID string, f InventoryFilter) ([]*entity.InventoryItem, int, error)
	Update(ctx context.Context, inv *entity.Inventory) error
	Delete(ctx context.Context, id string) error
	DeleteByVariant(ctx context.Context, variantID string) error
}
