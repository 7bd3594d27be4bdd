package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	stock "github.com/jhoicas/storefront-api/internal/domain/inventory"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

// UseCase ajustes manuales de stock, umbrales y consultas de inventario.
type UseCase struct {
	tx   TxRunner
	repo repository.InventoryRepository
	log  *logger.Logger
}

// NewUseCase construye el caso de uso. log nil = sin logs.
func NewUseCase(tx TxRunner, repo repository.InventoryRepository, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{tx: tx, repo: repo, log: log.Component("inventory")}
}

// Adjust suma delta a lo disponible con la fila bloqueada. Nunca deja el disponible en negativo.
func (uc *UseCase) Adjust(ctx context.Context, storeID, inventoryID string, in dto.AdjustStockRequest) (*dto.InventoryResponse, error) {
	if in.Delta == 0 {
		return nil, domain.ErrInvalidInput
	}
	current, err := uc.get(ctx, storeID, inventoryID)
	if err != nil {
		return nil, err
	}
	var result *entity.Inventory
	err = uc.tx.Run(ctx, func(invRepo repository.InventoryRepository, _ repository.ProductRepository) error {
		inv, err := invRepo.GetForUpdate(ctx, current.ProductID, current.VariantID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if err := stock.Adjust(inv, in.Delta); err != nil {
			return err
		}
		inv.UpdatedAt = time.Now()
		if err := invRepo.Update(ctx, inv); err != nil {
			return fmt.Errorf("ajustar inventario: %w", err)
		}
		result = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("store_id", storeID).
		Str("inventory_id", inventoryID).
		Int("delta", in.Delta).
		Str("reason", strings.TrimSpace(in.Reason)).
		Int("available", result.QuantityAvailable).
		Msg("ajuste de stock")
	return toInventoryResponse(&entity.InventoryItem{Inventory: *result}), nil
}

// SetThreshold cambia el umbral de stock bajo de una fila.
func (uc *UseCase) SetThreshold(ctx context.Context, storeID, inventoryID string, in dto.SetThresholdRequest) (*dto.InventoryResponse, error) {
	if in.LowStockThreshold < 0 {
		return nil, domain.ErrInvalidInput
	}
	inv, err := uc.get(ctx, storeID, inventoryID)
	if err != nil {
		return nil, err
	}
	inv.LowStockThreshold = in.LowStockThreshold
	inv.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return toInventoryResponse(&entity.InventoryItem{Inventory: *inv}), nil
}

// List inventario de la tienda, de menor a mayor disponible.
func (uc *UseCase) List(ctx context.Context, storeID string, q dto.InventoryListQuery) (*dto.InventoryListResponse, error) {
	if q.Status != "" && !stock.ValidStatus(q.Status) {
		return nil, domain.ErrInvalidInput
	}
	q.DefaultPage()
	items, total, err := uc.repo.List(ctx, storeID, repository.InventoryFilter{
		Status:    q.Status,
		ProductID: q.ProductID,
		Limit:     q.Limit,
		Offset:    q.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.InventoryResponse, 0, len(items))
	for _, it := range items {
		out = append(out, *toInventoryResponse(it))
	}
	return &dto.InventoryListResponse{
		Items: out,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// lowStockPage tamaño de página al recorrer las alertas; el repositorio no entrega más de 100 filas.
const lowStockPage = 100

// LowStock todas las filas en stock bajo o agotadas, para alertas. Agotadas primero.
func (uc *UseCase) LowStock(ctx context.Context, storeID string) ([]dto.InventoryResponse, error) {
	out := []dto.InventoryResponse{}
	for _, status := range []string{stock.StatusOutOfStock, stock.StatusLowStock} {
		for offset := 0; ; offset += lowStockPage {
			items, total, err := uc.repo.List(ctx, storeID, repository.InventoryFilter{
				Status: status,
				Limit:  lowStockPage,
				Offset: offset,
			})
			if err != nil {
				return nil, err
			}
			for _, it := range items {
				out = append(out, *toInventoryResponse(it))
			}
			if len(items) < lowStockPage || offset+lowStockPage >= total {
				break
			}
		}
	}
	return out, nil
}

func (uc *UseCase) get(ctx context.Context, storeID, id string) (*entity.Inventory, error) {
	inv, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil || inv.StoreID != storeID {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

func toInventoryResponse(it *entity.InventoryItem) *dto.InventoryResponse {
	return &dto.InventoryResponse{
		ID:                it.ID,
		ProductID:         it.ProductID,
		VariantID:         it.VariantID,
		ProductName:       it.ProductName,
		VariantName:       it.VariantName,
		SKU:               it.SKU,
		QuantityAvailable: it.QuantityAvailable,
		QuantityReserved:  it.QuantityReserved,
		LowStockThreshold: it.LowStockThreshold,
		Status:            stock.Classify(it.QuantityAvailable, it.LowStockThreshold),
		UpdatedAt:         it.UpdatedAt,
	}
}
