package repository

import (
	"context"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// ProductFilter filtros del listado de productos. Campos vacíos no filtran.
type ProductFilter struct {
	CategoryID  string
	Status      string
	Search      string // nombre o SKU, ILIKE
	StockStatus string // out_of_stock | low_stock | in_stock (sobre el inventario a nivel producto o la suma de variantes)
	Limit       int
	Offset      int
}

// ProductRepository define el puerto de persistencia para Product y ProductVariant (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate igual que GetByID pero bloquea la fila dentro de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	GetBySlug(ctx context.Context, storeID, slug string) (*entity.Product, error)
	List(ctx context.Context, storeID string, f ProductFilter) ([]*entity.Product, int, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error

	CreateVariant(ctx context.Context, variant *entity.ProductVariant) error
	GetVariant(ctx context.Context, id string) (*entity.ProductVariant, error)
	ListVariants(ctx context.Context, productID string) ([]*entity.ProductVariant, error)
	UpdateVariant(ctx context.Context, variant *entity.ProductVariant) error
	DeleteVariant(ctx context.Context, id string) error
}
