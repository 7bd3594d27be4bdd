package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/application/usecase"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jhoicas/storefront-api/internal/testutil/fakerepo"
)

func newProductUC(t *testing.T) (*usecase.ProductUseCase, *fakerepo.DB) {
	db := fakerepo.New()
	seedStores(t, db)
	return usecase.NewProductUseCase(db.TxRunner(), db.Products(), db.Inventory(), db.Categories(), db.Stores()), db
}

func camiseta() dto.CreateProductRequest {
	d := decimal.NewFromInt(50)
	return dto.CreateProductRequest{
		Name:            "Camiseta Básica",
		SKU:             "CAM-001",
		Price:           dec("40000"),
		DiscountPercent: dec("10"),
		Status:          "active",
		Variants: []dto.CreateVariantRequest{
			{SKU: "CAM-001-S", Attributes: map[string]string{"talla": "S"}, Price: dec("40000"), InitialStock: 4},
			{SKU: "CAM-001-M", Attributes: map[string]string{"talla": "M"}, Price: dec("42000"), DiscountPercent: &d, InitialStock: 0},
		},
	}
}

func TestProduct_CreateSinVariantes(t *testing.T) {
	uc, db := newProductUC(t)
	out, err := uc.Create(context.Background(), storeA, dto.CreateProductRequest{
		Name: "Taza Café", SKU: "TZ-1", Price: dec("19990"), DiscountPercent: dec("15"), InitialStock: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, "taza-cafe", out.Slug)
	assert.Equal(t, "draft", out.Status)
	assert.True(t, out.FinalPrice.Equal(dec("16991.5")), "19990 * 0.85 = 16991.50")
	require.NotNil(t, out.Stock)
	assert.Equal(t, 2, out.Stock.QuantityAvailable)
	assert.Equal(t, 3, out.Stock.LowStockThreshold, "umbral por defecto de la tienda")
	assert.Equal(t, "low_stock", out.Stock.Status)
	assert.Equal(t, 1, db.Counts()["inventory"])
}

func TestProduct_CreateConVariantes(t *testing.T) {
	uc, db := newProductUC(t)
	out, err := uc.Create(context.Background(), storeA, camiseta())
	require.NoError(t, err)

	assert.True(t, out.HasVariants)
	require.Len(t, out.Variants, 2)
	bySKU := map[string]dto.VariantResponse{}
	for _, v := range out.Variants {
		bySKU[v.SKU] = v
	}
	s, m := bySKU["CAM-001-S"], bySKU["CAM-001-M"]
	assert.True(t, s.DiscountPercent.Equal(dec("10")), "hereda el descuento del producto")
	assert.True(t, s.FinalPrice.Equal(dec("36000")))
	assert.True(t, m.FinalPrice.Equal(dec("21000")), "descuento propio de la variante")
	assert.Equal(t, "out_of_stock", m.Stock.Status)
	assert.Equal(t, 4, out.Stock.QuantityAvailable, "stock del producto = suma de variantes")
	assert.Equal(t, 2, db.Counts()["inventory"])
}

func TestProduct_CreateFallaVariante_Rollback(t *testing.T) {
	uc, db := newProductUC(t)
	db.FailOn("inventory.Create", errors.New("db caída"))

	_, err := uc.Create(context.Background(), storeA, camiseta())
	require.Error(t, err)
	counts := db.Counts()
	assert.Equal(t, 0, counts["products"])
	assert.Equal(t, 0, counts["variants"])
}

func TestProduct_Validaciones(t *testing.T) {
	uc, _ := newProductUC(t)
	ctx := context.Background()

	in := camiseta()
	in.DiscountPercent = dec("101")
	_, err := uc.Create(ctx, storeA, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = camiseta()
	in.Price = dec("-1")
	_, err = uc.Create(ctx, storeA, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = camiseta()
	in.CategoryID = "00000000-0000-0000-0000-0000000000ff"
	_, err = uc.Create(ctx, storeA, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = camiseta()
	in.Variants[0].Attributes = nil
	_, err = uc.Create(ctx, storeA, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProduct_AislamientoEntreTiendas(t *testing.T) {
	uc, _ := newProductUC(t)
	out, err := uc.Create(context.Background(), storeA, camiseta())
	require.NoError(t, err)

	_, err = uc.Get(context.Background(), storeB, out.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(context.Background(), storeB, out.ID), domain.ErrNotFound)
}

func TestProduct_ListFiltros(t *testing.T) {
	uc, _ := newProductUC(t)
	ctx := context.Background()
	_, err := uc.Create(ctx, storeA, camiseta())
	require.NoError(t, err)
	_, err = uc.Create(ctx, storeA, dto.CreateProductRequest{Name: "Gorra", SKU: "GO-1", Price: dec("1000"), InitialStock: 50})
	require.NoError(t, err)

	all, err := uc.List(ctx, storeA, dto.ProductListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Page.Total)
	assert.Equal(t, 20, all.Page.Limit)

	public, err := uc.ListPublic(ctx, storeA, dto.ProductListQuery{})
	require.NoError(t, err)
	require.Len(t, public.Items, 1, "la gorra sigue en borrador")
	assert.Equal(t, "CAM-001", public.Items[0].SKU)

	low, err := uc.List(ctx, storeA, dto.ProductListQuery{StockStatus: "in_stock"})
	require.NoError(t, err)
	require.Len(t, low.Items, 2)

	found, err := uc.List(ctx, storeA, dto.ProductListQuery{Search: "go-"})
	require.NoError(t, err)
	require.Len(t, found.Items, 1)

	_, err = uc.List(ctx, storeA, dto.ProductListQuery{StockStatus: "mucho"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProduct_VariantesAltaYBaja(t *testing.T) {
	uc, db := newProductUC(t)
	ctx := context.Background()
	p, err := uc.Create(ctx, storeA, dto.CreateProductRequest{Name: "Bolso", SKU: "BO-1", Price: dec("90000")})
	require.NoError(t, err)
	assert.False(t, p.HasVariants)

	p, err = uc.AddVariant(ctx, storeA, p.ID, dto.CreateVariantRequest{
		SKU: "BO-1-N", Attributes: map[string]string{"color": "negro"}, Price: dec("90000"), InitialStock: 7,
	})
	require.NoError(t, err)
	assert.True(t, p.HasVariants)
	require.Len(t, p.Variants, 1)
	assert.Equal(t, 1, db.Counts()["inventory"], "la fila a nivel producto se reemplaza")

	price := dec("95000")
	p, err = uc.UpdateVariant(ctx, storeA, p.ID, p.Variants[0].ID, dto.UpdateVariantRequest{Price: &price})
	require.NoError(t, err)
	assert.True(t, p.Variants[0].Price.Equal(price))

	p, err = uc.DeleteVariant(ctx, storeA, p.ID, p.Variants[0].ID)
	require.NoError(t, err)
	assert.False(t, p.HasVariants)
	require.NotNil(t, p.Stock)
	assert.Equal(t, 0, p.Stock.QuantityAvailable)
}

func TestProduct_AddVariant_ConStockPropio(t *testing.T) {
	uc, _ := newProductUC(t)
	ctx := context.Background()
	p, err := uc.Create(ctx, storeA, dto.CreateProductRequest{Name: "Bolso", SKU: "BO-1", Price: dec("1"), InitialStock: 3})
	require.NoError(t, err)

	_, err = uc.AddVariant(ctx, storeA, p.ID, dto.CreateVariantRequest{SKU: "X", Attributes: map[string]string{"c": "x"}, Price: dec("1")})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// editAfterRead simula una edición concurrente confirmada justo después de la primera lectura.
type editAfterRead struct {
	repository.ProductRepository
	edited bool
}

func (r *editAfterRead) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := r.ProductRepository.GetByID(ctx, id)
	if err != nil || p == nil || r.edited {
		return p, err
	}
	r.edited = true
	edited := *p
	edited.Name = "Bolso de cuero"
	if err := r.ProductRepository.Update(ctx, &edited); err != nil {
		return nil, err
	}
	return p, nil
}

func TestProduct_Variantes_NoPisanEdicionConcurrente(t *testing.T) {
	db := fakerepo.New()
	seedStores(t, db)
	ctx := context.Background()
	created, err := usecase.NewProductUseCase(db.TxRunner(), db.Products(), db.Inventory(), db.Categories(), db.Stores()).
		Create(ctx, storeA, dto.CreateProductRequest{Name: "Bolso", SKU: "BO-1", Price: dec("90000")})
	require.NoError(t, err)

	repo := &editAfterRead{ProductRepository: db.Products()}
	uc := usecase.NewProductUseCase(db.TxRunner(), repo, db.Inventory(), db.Categories(), db.Stores())
	out, err := uc.AddVariant(ctx, storeA, created.ID, dto.CreateVariantRequest{
		SKU: "BO-1-N", Attributes: map[string]string{"color": "negro"}, Price: dec("90000"),
	})
	require.NoError(t, err)
	assert.True(t, out.HasVariants)

	stored, err := db.Products().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bolso de cuero", stored.Name, "el nombre editado entre lectura y transacción se conserva")
	assert.True(t, stored.HasVariants)

	repo.edited = false
	_, err = uc.DeleteVariant(ctx, storeA, created.ID, out.Variants[0].ID)
	require.NoError(t, err)
	stored, err = db.Products().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bolso de cuero", stored.Name)
	assert.False(t, stored.HasVariants)
}

func TestProduct_Update(t *testing.T) {
	uc, _ := newProductUC(t)
	ctx := context.Background()
	p, err := uc.Create(ctx, storeA, dto.CreateProductRequest{Name: "Bolso", SKU: "BO-1", Price: dec("100")})
	require.NoError(t, err)

	status, discount := "active", dec("25")
	out, err := uc.Update(ctx, storeA, p.ID, dto.UpdateProductRequest{Status: &status, DiscountPercent: &discount})
	require.NoError(t, err)
	assert.Equal(t, "active", out.Status)
	assert.True(t, out.FinalPrice.Equal(dec("75")))

	bad := "vendido"
	_, err = uc.Update(ctx, storeA, p.ID, dto.UpdateProductRequest{Status: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
