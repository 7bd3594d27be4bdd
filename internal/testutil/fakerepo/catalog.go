package fakerepo

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/inventory"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

var (
	_ repository.CategoryRepository  = (*CategoryRepo)(nil)
	_ repository.ProductRepository   = (*ProductRepo)(nil)
	_ repository.InventoryRepository = (*InventoryRepo)(nil)
)

type CategoryRepo struct{ db *DB }

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, other := range r.db.categories {
		if other.StoreID == c.StoreID && other.Slug == c.Slug {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.db.categories[c.ID] = &cp
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if c, ok := r.db.categories[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *CategoryRepo) GetBySlug(ctx context.Context, storeID, slug string) (*entity.Category, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, c := range r.db.categories {
		if c.StoreID == storeID && c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *CategoryRepo) ListByStore(ctx context.Context, storeID string) ([]*entity.Category, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*entity.Category{}
	for _, c := range r.db.categories {
		if c.StoreID == storeID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.categories[c.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, other := range r.db.categories {
		if id != c.ID && other.StoreID == c.StoreID && other.Slug == c.Slug {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.db.categories[c.ID] = &cp
	return nil
}

// Delete deja los productos sin categoría (ON DELETE SET NULL).
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.categories[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.db.categories, id)
	for _, p := range r.db.products {
		if p.CategoryID == id {
			p.CategoryID = ""
		}
	}
	return nil
}

type ProductRepo struct{ db *DB }

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("products.Create"); err != nil {
		return err
	}
	for _, other := range r.db.products {
		if other.StoreID == p.StoreID && (other.Slug == p.Slug || other.SKU == p.SKU) {
			return domain.ErrDuplicate
		}
	}
	cp := *p
	r.db.products[p.ID] = &cp
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if p, ok := r.db.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

// GetForUpdate sin bloqueo: TxRunner ya serializa las transacciones.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) GetBySlug(ctx context.Context, storeID, slug string) (*entity.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.db.products {
		if p.StoreID == storeID && p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

// List filtra como el repo PostgreSQL; el estado de stock usa la suma de las filas del producto.
func (r *ProductRepo) List(ctx context.Context, storeID string, f repository.ProductFilter) ([]*entity.Product, int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	search := strings.ToLower(f.Search)
	all := []*entity.Product{}
	for _, p := range r.db.products {
		if p.StoreID != storeID {
			continue
		}
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) && !strings.Contains(strings.ToLower(p.SKU), search) {
			continue
		}
		if f.StockStatus != "" {
			qty, threshold := 0, 0
			for _, inv := range r.db.inventory {
				if inv.ProductID == p.ID {
					qty += inv.QuantityAvailable
					if inv.LowStockThreshold > threshold {
						threshold = inv.LowStockThreshold
					}
				}
			}
			if inventory.Classify(qty, threshold) != f.StockStatus {
				continue
			}
		}
		cp := *p
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, f.Limit, f.Offset), len(all), nil
}

func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	r.db.products[p.ID] = &cp
	return nil
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.db.products, id)
	for vid, v := range r.db.variants {
		if v.ProductID == id {
			delete(r.db.variants, vid)
		}
	}
	for iid, inv := range r.db.inventory {
		if inv.ProductID == id {
			delete(r.db.inventory, iid)
		}
	}
	return nil
}

func (r *ProductRepo) CreateVariant(ctx context.Context, v *entity.ProductVariant) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("products.CreateVariant"); err != nil {
		return err
	}
	if _, ok := r.db.products[v.ProductID]; !ok {
		return domain.ErrNotFound
	}
	for _, other := range r.db.variants {
		if other.ProductID == v.ProductID && other.SKU == v.SKU {
			return domain.ErrDuplicate
		}
	}
	cp := *v
	r.db.variants[v.ID] = &cp
	return nil
}

func (r *ProductRepo) GetVariant(ctx context.Context, id string) (*entity.ProductVariant, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if v, ok := r.db.variants[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, nil
}

func (r *ProductRepo) ListVariants(ctx context.Context, productID string) ([]*entity.ProductVariant, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*entity.ProductVariant{}
	for _, v := range r.db.variants {
		if v.ProductID == productID {
			cp := *v
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

func (r *ProductRepo) UpdateVariant(ctx context.Context, v *entity.ProductVariant) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.variants[v.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *v
	r.db.variants[v.ID] = &cp
	return nil
}

func (r *ProductRepo) DeleteVariant(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.variants[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.db.variants, id)
	return nil
}

type InventoryRepo struct{ db *DB }

func (r *InventoryRepo) Create(ctx context.Context, inv *entity.Inventory) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("inventory.Create"); err != nil {
		return err
	}
	for _, other := range r.db.inventory {
		if other.ProductID == inv.ProductID && other.VariantID == inv.VariantID {
			return domain.ErrDuplicate
		}
	}
	cp := *inv
	r.db.inventory[inv.ID] = &cp
	return nil
}

func (r *InventoryRepo) GetByID(ctx context.Context, id string) (*entity.Inventory, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if inv, ok := r.db.inventory[id]; ok {
		cp := *inv
		return &cp, nil
	}
	return nil, nil
}

func (r *InventoryRepo) GetFor(ctx context.Context, productID, variantID string) (*entity.Inventory, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, inv := range r.db.inventory {
		if inv.ProductID == productID && inv.VariantID == variantID {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *InventoryRepo) GetForUpdate(ctx context.Context, productID, variantID string) (*entity.Inventory, error) {
	return r.GetFor(ctx, productID, variantID)
}

func (r *InventoryRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.Inventory, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*entity.Inventory{}
	for _, inv := range r.db.inventory {
		if inv.ProductID == productID {
			cp := *inv
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VariantID < out[j].VariantID })
	return out, nil
}

func (r *InventoryRepo) List(ctx context.Context, storeID string, f repository.InventoryFilter) ([]*entity.InventoryItem, int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	all := []*entity.InventoryItem{}
	for _, inv := range r.db.inventory {
		if inv.StoreID != storeID {
			continue
		}
		if f.ProductID != "" && inv.ProductID != f.ProductID {
			continue
		}
		if f.Status != "" && inventory.Classify(inv.QuantityAvailable, inv.LowStockThreshold) != f.Status {
			continue
		}
		item := &entity.InventoryItem{Inventory: *inv}
		if p, ok := r.db.products[inv.ProductID]; ok {
			item.ProductName = p.Name
			item.SKU = p.SKU
		}
		if v, ok := r.db.variants[inv.VariantID]; ok {
			item.SKU = v.SKU
			item.VariantName = variantName(v.Attributes)
		}
		all = append(all, item)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].QuantityAvailable != all[j].QuantityAvailable {
			return all[i].QuantityAvailable < all[j].QuantityAvailable
		}
		if all[i].ProductName != all[j].ProductName {
			return all[i].ProductName < all[j].ProductName
		}
		return all[i].ID < all[j].ID
	})
	return paginate(all, f.Limit, f.Offset), len(all), nil
}

func (r *InventoryRepo) Update(ctx context.Context, inv *entity.Inventory) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.inventory[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *inv
	r.db.inventory[inv.ID] = &cp
	return nil
}

func (r *InventoryRepo) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.inventory[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.db.inventory, id)
	return nil
}

func (r *InventoryRepo) DeleteByVariant(ctx context.Context, variantID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, inv := range r.db.inventory {
		if inv.VariantID == variantID {
			delete(r.db.inventory, id)
		}
	}
	return nil
}

func variantName(attrs map[string]string) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	vals := make([]string, 0, len(keys))
	for _, k := range keys {
		vals = append(vals, attrs[k])
	}
	return strings.Join(vals, " / ")
}

func paginate[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end]
}
