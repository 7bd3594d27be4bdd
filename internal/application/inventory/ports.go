package inventory

import (
	"context"

	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad entre catálogo y existencias.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		inventoryRepo repository.InventoryRepository,
		productRepo repository.ProductRepository,
	) error) error
}
