package repository

import (
	"context"
	"time"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// OrderFilter filtros del listado de pedidos. Fechas cero no filtran.
type OrderFilter struct {
	Status        string
	PaymentStatus string
	CustomerID    string
	From          time.Time
	To            time.Time
	Limit         int
	Offset        int
}

// OrderRepository define el puerto de persistencia para Order y OrderItem.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetForUpdate carga cabecera e ítems bloqueando la cabecera.
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	List(ctx context.Context, storeID string, f OrderFilter) ([]*entity.Order, int, error)
	UpdateStatus(ctx context.Context, id, status string) error
	UpdatePaymentStatus(ctx context.Context, id, paymentStatus string) error
}
