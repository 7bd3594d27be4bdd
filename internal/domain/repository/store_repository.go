package repository

import (
	"context"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// StoreRepository define el puerto de persistencia para Store y su configuración.
type StoreRepository interface {
	Create(ctx context.Context, store *entity.Store) error
	GetByID(ctx context.Context, id string) (*entity.Store, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Store, error)
	Update(ctx context.Context, store *entity.Store) error
	Delete(ctx context.Context, id string) error

	CreateSettings(ctx context.Context, settings *entity.StoreSettings) error
	GetSettings(ctx context.Context, storeID string) (*entity.StoreSettings, error)
	UpdateSettings(ctx context.Context, settings *entity.StoreSettings) error
	DeleteSettings(ctx context.Context, storeID string) error
}

// ShippingOptionsRepository lectura con bloqueo y escritura de la columna shipping_options.
// Solo tiene sentido dentro de una transacción (ver ShippingTxRunner).
type ShippingOptionsRepository interface {
	GetForUpdate(ctx context.Context, storeID string) ([]entity.ShippingOption, error)
	Save(ctx context.Context, storeID string, opts []entity.ShippingOption) error
}
