package repository

import (
	"context"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CustomerStats agregados de pedidos de un cliente (excluye cancelados).
type CustomerStats struct {
	OrdersCount int
	TotalSpent  decimal.Decimal
}

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	GetByEmail(ctx context.Context, storeID, email string) (*entity.Customer, error)
	List(ctx context.Context, storeID, search string, limit, offset int) ([]*entity.Customer, int, error)
	Stats(ctx context.Context, customerID string) (CustomerStats, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id string) error
}
