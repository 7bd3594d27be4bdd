package export_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storefront-api/internal/application/export"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	infraexport "github.com/jhoicas/storefront-api/internal/infrastructure/export"
	"github.com/jhoicas/storefront-api/internal/testutil/fakerepo"
)

func newUseCase(t *testing.T) (*export.UseCase, *fakerepo.DB) {
	t.Helper()
	db := fakerepo.New()
	uc := export.NewUseCase(export.Repositories{
		Products:   db.Products(),
		Categories: db.Categories(),
		Inventory:  db.Inventory(),
		Orders:     db.Orders(),
		Customers:  db.Customers(),
		Expenses:   db.Expenses(),
	}, infraexport.CSVWriter{}, infraexport.XLSXWriter{})
	uc.WithClock(func() time.Time { return time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC) })
	return uc, db
}

func csvLines(t *testing.T, content []byte) []string {
	t.Helper()
	body := strings.TrimPrefix(string(content), "\ufeff")
	return strings.Split(strings.TrimSpace(body), "\n")
}

func TestExport_ProductosCSV(t *testing.T) {
	uc, db := newUseCase(t)
	ctx := context.Background()
	require.NoError(t, db.Categories().Create(ctx, &entity.Category{ID: "cat-1", StoreID: "store-a", Name: "Cocina", Slug: "cocina"}))
	require.NoError(t, db.Products().Create(ctx, &entity.Product{
		ID: "p1", StoreID: "store-a", CategoryID: "cat-1", Name: "Taza", Slug: "taza", SKU: "TZ",
		Price: decimal.NewFromInt(20000), DiscountPercent: decimal.NewFromInt(10), Status: entity.ProductStatusActive,
	}))
	require.NoError(t, db.Products().Create(ctx, &entity.Product{
		ID: "p2", StoreID: "store-b", Name: "Ajeno", Slug: "ajeno", SKU: "AJ", Price: decimal.NewFromInt(1), Status: entity.ProductStatusActive,
	}))

	file, err := uc.Export(ctx, "store-a", "products", "csv")
	require.NoError(t, err)
	assert.Equal(t, "products_20260305.csv", file.FileName)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)

	lines := csvLines(t, file.Content)
	require.Len(t, lines, 2, "solo los productos de la tienda")
	assert.Equal(t, "Taza,TZ,Cocina,20000.00,10,18000.00,active,no", lines[1])
}

func TestExport_PaginaTodo(t *testing.T) {
	uc, db := newUseCase(t)
	ctx := context.Background()
	for i := 0; i < 250; i++ {
		require.NoError(t, db.Customers().Create(ctx, &entity.Customer{
			ID:      fmt.Sprintf("c-%03d", i),
			StoreID: "store-a",
			Name:    "Cliente",
			Email:   fmt.Sprintf("c%03d@mail.com", i),
		}))
	}
	file, err := uc.Export(ctx, "store-a", "customers", "csv")
	require.NoError(t, err)
	assert.Len(t, csvLines(t, file.Content), 251)
}

func TestExport_GastosXLSX(t *testing.T) {
	uc, db := newUseCase(t)
	ctx := context.Background()
	require.NoError(t, db.Expenses().Create(ctx, &entity.Expense{
		ID: "e1", StoreID: "store-a", Description: "Arriendo", Amount: decimal.NewFromInt(900000),
		ExpenseDate: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
	}))
	file, err := uc.Export(ctx, "store-a", "expenses", "XLSX")
	require.NoError(t, err)
	assert.Equal(t, "expenses_20260305.xlsx", file.FileName)
	assert.NotEmpty(t, file.Content)
}

func TestExport_EntradasDesconocidas(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	_, err := uc.Export(ctx, "store-a", "users", "csv")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Export(ctx, "store-a", "orders", "pdf")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin escritor pdf registrado")
}
