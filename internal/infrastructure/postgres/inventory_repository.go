package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo existencias por producto (variant_id NULL) o por variante.
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador de inventario. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

const inventoryColumns = `i.id, i.store_id, i.product_id, i.variant_id, i.quantity_available, i.quantity_reserved, i.low_stock_threshold, i.updated_at`

func scanInventory(row pgx.Row) (*entity.Inventory, error) {
	var inv entity.Inventory
	var variantID *string
	err := row.Scan(&inv.ID, &inv.StoreID, &inv.ProductID, &variantID,
		&inv.QuantityAvailable, &inv.QuantityReserved, &inv.LowStockThreshold, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	inv.VariantID = emptyIfNull(variantID)
	return &inv, nil
}

// Create inserta la fila de inventario. Ya existente para el producto/variante -> ErrDuplicate.
func (r *InventoryRepo) Create(ctx context.Context, inv *entity.Inventory) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory (id, store_id, product_id, variant_id, quantity_available, quantity_reserved, low_stock_threshold, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		inv.ID, inv.StoreID, inv.ProductID, nullIfEmpty(inv.VariantID),
		inv.QuantityAvailable, inv.QuantityReserved, inv.LowStockThreshold, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert inventory: %w", err)
	}
	return nil
}

func (r *InventoryRepo) GetByID(ctx context.Context, id string) (*entity.Inventory, error) {
	inv, err := scanInventory(r.q.QueryRow(ctx, `SELECT `+inventoryColumns+` FROM inventory i WHERE i.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return inv, nil
}

// GetFor obtiene la fila del producto (variantID vacío) o de la variante.
func (r *InventoryRepo) GetFor(ctx context.Context, productID, variantID string) (*entity.Inventory, error) {
	return r.getFor(ctx, productID, variantID, "")
}

// GetForUpdate igual que GetFor pero bloquea la fila (SELECT ... FOR UPDATE) dentro de la transacción.
func (r *InventoryRepo) GetForUpdate(ctx context.Context, productID, variantID string) (*entity.Inventory, error) {
	return r.getFor(ctx, productID, variantID, " FOR UPDATE")
}

func (r *InventoryRepo) getFor(ctx context.Context, productID, variantID, lock string) (*entity.Inventory, error) {
	var row pgx.Row
	if variantID == "" {
		row = r.q.QueryRow(ctx,
			`SELECT `+inventoryColumns+` FROM inventory i WHERE i.product_id = $1 AND i.variant_id IS NULL`+lock, productID)
	} else {
		row = r.q.QueryRow(ctx,
			`SELECT `+inventoryColumns+` FROM inventory i WHERE i.product_id = $1 AND i.variant_id = $2`+lock, productID, variantID)
	}
	inv, err := scanInventory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory for: %w", err)
	}
	return inv, nil
}

// ListByProduct devuelve todas las filas del producto (la propia y las de sus variantes).
func (r *InventoryRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.Inventory, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+inventoryColumns+` FROM inventory i WHERE i.product_id = $1 ORDER BY i.variant_id NULLS FIRST`, productID)
	if err != nil {
		return nil, fmt.Errorf("list inventory by product: %w", err)
	}
	defer rows.Close()
	var list []*entity.Inventory
	for rows.Next() {
		inv, err := scanInventory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// List lista el inventario de la tienda con nombre de producto y variante; filtra por estado de stock.
func (r *InventoryRepo) List(ctx context.Context, storeID string, f repository.InventoryFilter) ([]*entity.InventoryItem, int, error) {
	w := newFilter("i.store_id = $1", storeID)
	if f.ProductID != "" {
		w.add("i.product_id = ?", f.ProductID)
	}
	if f.Status != "" {
		w.add(stockStatusCase("i.quantity_available", "i.low_stock_threshold")+" = ?", f.Status)
	}
	from := `
		FROM inventory i
		JOIN products p ON p.id = i.product_id
		LEFT JOIN product_variants v ON v.id = i.variant_id` + w.where()

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)`+from, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count inventory: %w", err)
	}

	page, args := w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, `
		SELECT `+inventoryColumns+`, p.name, COALESCE(NULLIF(v.sku, ''), p.sku),
			COALESCE((SELECT string_agg(value, ' / ' ORDER BY key) FROM jsonb_each_text(v.attributes)), '')`+
		from+` ORDER BY i.quantity_available ASC, p.name, i.id`+page, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryItem
	for rows.Next() {
		var it entity.InventoryItem
		var variantID *string
		if err := rows.Scan(&it.ID, &it.StoreID, &it.ProductID, &variantID,
			&it.QuantityAvailable, &it.QuantityReserved, &it.LowStockThreshold, &it.UpdatedAt,
			&it.ProductName, &it.SKU, &it.VariantName); err != nil {
			return nil, 0, fmt.Errorf("scan inventory item: %w", err)
		}
		it.VariantID = emptyIfNull(variantID)
		list = append(list, &it)
	}
	return list, total, rows.Err()
}

// Update guarda cantidades y umbral.
func (r *InventoryRepo) Update(ctx context.Context, inv *entity.Inventory) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE inventory SET quantity_available = $2, quantity_reserved = $3, low_stock_threshold = $4, updated_at = $5
		WHERE id = $1`,
		inv.ID, inv.QuantityAvailable, inv.QuantityReserved, inv.LowStockThreshold, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update inventory: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InventoryRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM inventory WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete inventory: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InventoryRepo) DeleteByVariant(ctx context.Context, variantID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM inventory WHERE variant_id = $1`, variantID); err != nil {
		return fmt.Errorf("delete inventory by variant: %w", err)
	}
	return nil
}
