package order

import (
	"context"

	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

// TxRunner transacción con los repos que toca un pedido: cabecera/líneas, reservas de inventario y cliente.
type TxRunner interface {
	RunOrder(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		inventoryRepo repository.InventoryRepository,
		customerRepo repository.CustomerRepository,
	) error) error
}

// TokenConfig firma de los tokens de consulta de pedidos.
type TokenConfig struct {
	Secret   string
	ExpHours int
	ViewURL  string
}
