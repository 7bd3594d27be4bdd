package usecase

import (
	"context"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jhoicas/storefront-api/internal/domain/shipping"
)

// ShippingTxRunner transacción con bloqueo de la fila de configuración (SELECT ... FOR UPDATE).
type ShippingTxRunner interface {
	RunShipping(ctx context.Context, fn func(shippingRepo repository.ShippingOptionsRepository) error) error
}

// ShippingUseCase opciones de envío guardadas como arreglo JSON en la configuración de la tienda.
type ShippingUseCase struct {
	tx        ShippingTxRunner
	storeRepo repository.StoreRepository
}

// NewShippingUseCase construye el caso de uso.
func NewShippingUseCase(tx ShippingTxRunner, storeRepo repository.StoreRepository) *ShippingUseCase {
	return &ShippingUseCase{tx: tx, storeRepo: storeRepo}
}

// List opciones de envío de la tienda.
func (uc *ShippingUseCase) List(ctx context.Context, storeID string) ([]dto.ShippingOptionDTO, error) {
	settings, err := uc.storeRepo.GetSettings(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, domain.ErrNotFound
	}
	return toShippingOptionDTOs(settings.ShippingOptions), nil
}

// Add agrega una opción. Nombre repetido (sin distinguir mayúsculas) -> ErrDuplicate.
func (uc *ShippingUseCase) Add(ctx context.Context, storeID string, in dto.ShippingOptionDTO) ([]dto.ShippingOptionDTO, error) {
	return uc.modify(ctx, storeID, func(opts []entity.ShippingOption) ([]entity.ShippingOption, error) {
		return shipping.Add(opts, entity.ShippingOption{Name: in.Name, Fee: in.Fee, EstimatedDays: in.EstimatedDays})
	})
}

// Update modifica la opción name.
func (uc *ShippingUseCase) Update(ctx context.Context, storeID, name string, in dto.UpdateShippingOptionRequest) ([]dto.ShippingOptionDTO, error) {
	return uc.modify(ctx, storeID, func(opts []entity.ShippingOption) ([]entity.ShippingOption, error) {
		return shipping.Update(opts, name, shipping.Patch{Name: in.Name, Fee: in.Fee, EstimatedDays: in.EstimatedDays})
	})
}

// Remove elimina la opción name.
func (uc *ShippingUseCase) Remove(ctx context.Context, storeID, name string) ([]dto.ShippingOptionDTO, error) {
	return uc.modify(ctx, storeID, func(opts []entity.ShippingOption) ([]entity.ShippingOption, error) {
		return shipping.Remove(opts, name)
	})
}

// modify lee, transforma y guarda el arreglo dentro de una misma transacción.
func (uc *ShippingUseCase) modify(ctx context.Context, storeID string, change func([]entity.ShippingOption) ([]entity.ShippingOption, error)) ([]dto.ShippingOptionDTO, error) {
	var result []entity.ShippingOption
	err := uc.tx.RunShipping(ctx, func(repo repository.ShippingOptionsRepository) error {
		current, err := repo.GetForUpdate(ctx, storeID)
		if err != nil {
			return err
		}
		next, err := change(current)
		if err != nil {
			return err
		}
		if err := repo.Save(ctx, storeID, next); err != nil {
			return err
		}
		result = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toShippingOptionDTOs(result), nil
}
