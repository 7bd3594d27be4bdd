package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/application/inventory"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	stock "github.com/jhoicas/storefront-api/internal/domain/inventory"
	"github.com/jhoicas/storefront-api/internal/domain/pricing"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jhoicas/storefront-api/pkg/slug"
)

// DefaultLowStockThreshold umbral cuando la tienda no tiene configuración.
const DefaultLowStockThreshold = 5

// ProductUseCase catálogo: productos, variantes y su fila de inventario.
type ProductUseCase struct {
	tx           inventory.TxRunner
	repo         repository.ProductRepository
	inventory    repository.InventoryRepository
	categoryRepo repository.CategoryRepository
	storeRepo    repository.StoreRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	tx inventory.TxRunner,
	repo repository.ProductRepository,
	inventoryRepo repository.InventoryRepository,
	categoryRepo repository.CategoryRepository,
	storeRepo repository.StoreRepository,
) *ProductUseCase {
	return &ProductUseCase{tx: tx, repo: repo, inventory: inventoryRepo, categoryRepo: categoryRepo, storeRepo: storeRepo}
}

// Create crea el producto y, en la misma transacción, sus variantes y filas de inventario.
// Sin variantes el stock vive en una fila a nivel producto.
func (uc *ProductUseCase) Create(ctx context.Context, storeID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	sku := strings.TrimSpace(in.SKU)
	if name == "" || sku == "" || in.InitialStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := validatePrice(in.Price, in.DiscountPercent); err != nil {
		return nil, err
	}
	if err := uc.checkCategory(ctx, storeID, in.CategoryID); err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = entity.ProductStatusDraft
	}
	if !validProductStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	s := slug.Make(in.Slug)
	if strings.TrimSpace(in.Slug) == "" {
		s = slug.Make(name)
	}
	if s == "" {
		return nil, domain.ErrInvalidInput
	}
	for _, v := range in.Variants {
		if err := validateVariant(v.SKU, v.Attributes, v.Price, v.DiscountPercent); err != nil {
			return nil, err
		}
		if v.InitialStock < 0 {
			return nil, domain.ErrInvalidInput
		}
	}
	threshold, err := uc.defaultThreshold(ctx, storeID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	product := &entity.Product{
		ID:              uuid.New().String(),
		StoreID:         storeID,
		CategoryID:      in.CategoryID,
		Name:            name,
		Slug:            s,
		Description:     strings.TrimSpace(in.Description),
		SKU:             sku,
		Price:           in.Price,
		DiscountPercent: in.DiscountPercent,
		Status:          status,
		Images:          nonNilImages(in.Images),
		HasVariants:     len(in.Variants) > 0,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	err = uc.tx.Run(ctx, func(invRepo repository.InventoryRepository, productRepo repository.ProductRepository) error {
		if err := productRepo.Create(ctx, product); err != nil {
			return err
		}
		if !product.HasVariants {
			return invRepo.Create(ctx, newInventory(product, "", in.InitialStock, threshold, now))
		}
		for _, v := range in.Variants {
			variant := &entity.ProductVariant{
				ID:              uuid.New().String(),
				ProductID:       product.ID,
				SKU:             strings.TrimSpace(v.SKU),
				Attributes:      v.Attributes,
				Price:           v.Price,
				DiscountPercent: v.DiscountPercent,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if err := productRepo.CreateVariant(ctx, variant); err != nil {
				return err
			}
			if err := invRepo.Create(ctx, newInventory(product, variant.ID, v.InitialStock, threshold, now)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.Get(ctx, storeID, product.ID)
}

// Get producto con variantes y stock.
func (uc *ProductUseCase) Get(ctx context.Context, storeID, id string) (*dto.ProductResponse, error) {
	p, err := uc.get(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	return uc.detail(ctx, p)
}

// List catálogo paginado con filtros de categoría, estado, búsqueda y estado de stock.
func (uc *ProductUseCase) List(ctx context.Context, storeID string, q dto.ProductListQuery) (*dto.ProductListResponse, error) {
	if q.StockStatus != "" && !stock.ValidStatus(q.StockStatus) {
		return nil, domain.ErrInvalidInput
	}
	if q.Status != "" && !validProductStatus(q.Status) {
		return nil, domain.ErrInvalidInput
	}
	q.DefaultPage()
	list, total, err := uc.repo.List(ctx, storeID, repository.ProductFilter{
		CategoryID:  q.CategoryID,
		Status:      q.Status,
		Search:      strings.TrimSpace(q.Search),
		StockStatus: q.StockStatus,
		Limit:       q.Limit,
		Offset:      q.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		resp, err := uc.detail(ctx, p)
		if err != nil {
			return nil, err
		}
		items = append(items, *resp)
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// ListPublic catálogo visible de la vitrina: solo productos activos.
func (uc *ProductUseCase) ListPublic(ctx context.Context, storeID string, q dto.ProductListQuery) (*dto.ProductListResponse, error) {
	q.Status = entity.ProductStatusActive
	return uc.List(ctx, storeID, q)
}

// Update aplica los campos presentes.
func (uc *ProductUseCase) Update(ctx context.Context, storeID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.get(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		p.Name = name
	}
	if in.Slug != nil {
		s := slug.Make(*in.Slug)
		if s == "" {
			return nil, domain.ErrInvalidInput
		}
		p.Slug = s
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.SKU != nil {
		sku := strings.TrimSpace(*in.SKU)
		if sku == "" {
			return nil, domain.ErrInvalidInput
		}
		p.SKU = sku
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.DiscountPercent != nil {
		p.DiscountPercent = *in.DiscountPercent
	}
	if err := validatePrice(p.Price, p.DiscountPercent); err != nil {
		return nil, err
	}
	if in.Status != nil {
		if !validProductStatus(*in.Status) {
			return nil, domain.ErrInvalidInput
		}
		p.Status = *in.Status
	}
	if in.CategoryID != nil {
		if err := uc.checkCategory(ctx, storeID, *in.CategoryID); err != nil {
			return nil, err
		}
		p.CategoryID = *in.CategoryID
	}
	if in.Images != nil {
		p.Images = nonNilImages(in.Images)
	}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return uc.detail(ctx, p)
}

// Delete elimina el producto; variantes e inventario caen en cascada.
func (uc *ProductUseCase) Delete(ctx context.Context, storeID, id string) error {
	if _, err := uc.get(ctx, storeID, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// AddVariant agrega una variante con su fila de inventario. El primer alta convierte
// el producto en producto con variantes y elimina el stock a nivel producto.
func (uc *ProductUseCase) AddVariant(ctx context.Context, storeID, productID string, in dto.CreateVariantRequest) (*dto.ProductResponse, error) {
	p, err := uc.get(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}
	if err := validateVariant(in.SKU, in.Attributes, in.Price, in.DiscountPercent); err != nil {
		return nil, err
	}
	if in.InitialStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	threshold, err := uc.defaultThreshold(ctx, storeID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	err = uc.tx.Run(ctx, func(invRepo repository.InventoryRepository, productRepo repository.ProductRepository) error {
		locked, err := lockProduct(ctx, productRepo, storeID, productID)
		if err != nil {
			return err
		}
		p = locked
		if !p.HasVariants {
			base, err := invRepo.GetForUpdate(ctx, p.ID, "")
			if err != nil {
				return err
			}
			if base != nil && (base.QuantityAvailable > 0 || base.QuantityReserved > 0) {
				return domain.ErrConflict
			}
			if base != nil {
				if err := invRepo.Delete(ctx, base.ID); err != nil {
					return err
				}
			}
			p.HasVariants = true
			p.UpdatedAt = now
			if err := productRepo.Update(ctx, p); err != nil {
				return err
			}
		}
		variant := &entity.ProductVariant{
			ID:              uuid.New().String(),
			ProductID:       p.ID,
			SKU:             strings.TrimSpace(in.SKU),
			Attributes:      in.Attributes,
			Price:           in.Price,
			DiscountPercent: in.DiscountPercent,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := productRepo.CreateVariant(ctx, variant); err != nil {
			return err
		}
		return invRepo.Create(ctx, newInventory(p, variant.ID, in.InitialStock, threshold, now))
	})
	if err != nil {
		return nil, err
	}
	return uc.detail(ctx, p)
}

// UpdateVariant aplica los campos presentes a una variante del producto.
func (uc *ProductUseCase) UpdateVariant(ctx context.Context, storeID, productID, variantID string, in dto.UpdateVariantRequest) (*dto.ProductResponse, error) {
	p, err := uc.get(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}
	v, err := uc.variant(ctx, p, variantID)
	if err != nil {
		return nil, err
	}
	if in.SKU != nil {
		v.SKU = strings.TrimSpace(*in.SKU)
	}
	if in.Attributes != nil {
		v.Attributes = in.Attributes
	}
	if in.Price != nil {
		v.Price = *in.Price
	}
	if in.DiscountPercent != nil {
		v.DiscountPercent = in.DiscountPercent
	}
	if in.ClearDiscount {
		v.DiscountPercent = nil
	}
	if err := validateVariant(v.SKU, v.Attributes, v.Price, v.DiscountPercent); err != nil {
		return nil, err
	}
	v.UpdatedAt = time.Now()
	if err := uc.repo.UpdateVariant(ctx, v); err != nil {
		return nil, err
	}
	return uc.detail(ctx, p)
}

// DeleteVariant elimina una variante y su inventario. Sin variantes restantes el producto
// vuelve a llevar stock propio (fila en cero).
func (uc *ProductUseCase) DeleteVariant(ctx context.Context, storeID, productID, variantID string) (*dto.ProductResponse, error) {
	p, err := uc.get(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.variant(ctx, p, variantID); err != nil {
		return nil, err
	}
	threshold, err := uc.defaultThreshold(ctx, storeID)
	if err != nil {
		return nil, err
	}
	err = uc.tx.Run(ctx, func(invRepo repository.InventoryRepository, productRepo repository.ProductRepository) error {
		locked, err := lockProduct(ctx, productRepo, storeID, productID)
		if err != nil {
			return err
		}
		p = locked
		inv, err := invRepo.GetForUpdate(ctx, p.ID, variantID)
		if err != nil {
			return err
		}
		if inv != nil && inv.QuantityReserved > 0 {
			return domain.ErrConflict
		}
		if err := invRepo.DeleteByVariant(ctx, variantID); err != nil {
			return err
		}
		if err := productRepo.DeleteVariant(ctx, variantID); err != nil {
			return err
		}
		rest, err := productRepo.ListVariants(ctx, p.ID)
		if err != nil {
			return err
		}
		if len(rest) > 0 {
			return nil
		}
		now := time.Now()
		p.HasVariants = false
		p.UpdatedAt = now
		if err := productRepo.Update(ctx, p); err != nil {
			return err
		}
		return invRepo.Create(ctx, newInventory(p, "", 0, threshold, now))
	})
	if err != nil {
		return nil, err
	}
	return uc.detail(ctx, p)
}

func (uc *ProductUseCase) get(ctx context.Context, storeID, id string) (*entity.Product, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.StoreID != storeID {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// lockProduct relee el producto bloqueado; HasVariants se decide sobre esta copia.
func lockProduct(ctx context.Context, repo repository.ProductRepository, storeID, id string) (*entity.Product, error) {
	p, err := repo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.StoreID != storeID {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (uc *ProductUseCase) variant(ctx context.Context, p *entity.Product, variantID string) (*entity.ProductVariant, error) {
	v, err := uc.repo.GetVariant(ctx, variantID)
	if err != nil {
		return nil, err
	}
	if v == nil || v.ProductID != p.ID {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func (uc *ProductUseCase) checkCategory(ctx context.Context, storeID, categoryID string) error {
	if categoryID == "" {
		return nil
	}
	c, err := uc.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if c == nil || c.StoreID != storeID {
		return domain.ErrInvalidInput
	}
	return nil
}

func (uc *ProductUseCase) defaultThreshold(ctx context.Context, storeID string) (int, error) {
	settings, err := uc.storeRepo.GetSettings(ctx, storeID)
	if err != nil {
		return 0, err
	}
	if settings == nil {
		return DefaultLowStockThreshold, nil
	}
	return settings.LowStockThreshold, nil
}

// detail arma la respuesta con variantes, precio final y stock.
func (uc *ProductUseCase) detail(ctx context.Context, p *entity.Product) (*dto.ProductResponse, error) {
	rows, err := uc.inventory.ListByProduct(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	byVariant := make(map[string]*entity.Inventory, len(rows))
	for _, inv := range rows {
		byVariant[inv.VariantID] = inv
	}
	resp := toProductResponse(p)
	if !p.HasVariants {
		resp.Stock = toStockResponse(byVariant[""])
		return resp, nil
	}
	variants, err := uc.repo.ListVariants(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	total := &entity.Inventory{}
	resp.Variants = make([]dto.VariantResponse, 0, len(variants))
	for _, v := range variants {
		inv := byVariant[v.ID]
		if inv != nil {
			total.QuantityAvailable += inv.QuantityAvailable
			total.QuantityReserved += inv.QuantityReserved
			if inv.LowStockThreshold > total.LowStockThreshold {
				total.LowStockThreshold = inv.LowStockThreshold
			}
		}
		discount := pricing.EffectiveDiscount(p.DiscountPercent, v.DiscountPercent)
		resp.Variants = append(resp.Variants, dto.VariantResponse{
			ID:              v.ID,
			ProductID:       v.ProductID,
			SKU:             v.SKU,
			Attributes:      v.Attributes,
			Price:           v.Price,
			DiscountPercent: discount,
			FinalPrice:      pricing.FinalPrice(v.Price, discount),
			Stock:           toStockResponse(inv),
		})
	}
	resp.Stock = toStockResponse(total)
	return resp, nil
}

func newInventory(p *entity.Product, variantID string, qty, threshold int, now time.Time) *entity.Inventory {
	return &entity.Inventory{
		ID:                uuid.New().String(),
		StoreID:           p.StoreID,
		ProductID:         p.ID,
		VariantID:         variantID,
		QuantityAvailable: qty,
		LowStockThreshold: threshold,
		UpdatedAt:         now,
	}
}

func validatePrice(price, discount decimal.Decimal) error {
	if err := pricing.ValidatePrice(price); err != nil {
		return err
	}
	return pricing.ValidateDiscount(discount)
}

func validateVariant(sku string, attrs map[string]string, price decimal.Decimal, discount *decimal.Decimal) error {
	if strings.TrimSpace(sku) == "" || len(attrs) == 0 {
		return domain.ErrInvalidInput
	}
	if err := pricing.ValidatePrice(price); err != nil {
		return err
	}
	if discount != nil {
		return pricing.ValidateDiscount(*discount)
	}
	return nil
}

func validProductStatus(s string) bool {
	return s == entity.ProductStatusDraft || s == entity.ProductStatusActive || s == entity.ProductStatusArchived
}

func nonNilImages(images []string) []string {
	if images == nil {
		return []string{}
	}
	return images
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:              p.ID,
		StoreID:         p.StoreID,
		CategoryID:      p.CategoryID,
		Name:            p.Name,
		Slug:            p.Slug,
		Description:     p.Description,
		SKU:             p.SKU,
		Price:           p.Price,
		DiscountPercent: p.DiscountPercent,
		FinalPrice:      pricing.FinalPrice(p.Price, p.DiscountPercent),
		Status:          p.Status,
		Images:          nonNilImages(p.Images),
		HasVariants:     p.HasVariants,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func toStockResponse(inv *entity.Inventory) *dto.StockResponse {
	if inv == nil {
		return nil
	}
	return &dto.StockResponse{
		InventoryID:       inv.ID,
		QuantityAvailable: inv.QuantityAvailable,
		QuantityReserved:  inv.QuantityReserved,
		LowStockThreshold: inv.LowStockThreshold,
		Status:            stock.Classify(inv.QuantityAvailable, inv.LowStockThreshold),
	}
}
