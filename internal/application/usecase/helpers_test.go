package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/testutil/fakerepo"
)

const (
	storeA = "00000000-0000-0000-0000-00000000000a"
	storeB = "00000000-0000-0000-0000-00000000000b"
)

// seedStores crea dos tiendas con configuración (umbral 3, una opción de envío en A).
func seedStores(t *testing.T, db *fakerepo.DB) {
	t.Helper()
	ctx := context.Background()
	repo := db.Stores()
	for _, s := range []*entity.Store{
		{ID: storeA, Name: "Tienda A", Slug: "tienda-a", Status: entity.StoreStatusActive},
		{ID: storeB, Name: "Tienda B", Slug: "tienda-b", Status: entity.StoreStatusActive},
	} {
		require.NoError(t, repo.Create(ctx, s))
		require.NoError(t, repo.CreateSettings(ctx, &entity.StoreSettings{StoreID: s.ID, Currency: "COP", LowStockThreshold: 3}))
	}
	require.NoError(t, repo.Save(ctx, storeA, []entity.ShippingOption{{Name: "Estándar", Fee: decimal.NewFromInt(8000), EstimatedDays: 3}}))
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
