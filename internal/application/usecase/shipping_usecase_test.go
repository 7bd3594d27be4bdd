package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/application/usecase"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/testutil/fakerepo"
)

func newShippingUC(t *testing.T) (*usecase.ShippingUseCase, *fakerepo.DB) {
	db := fakerepo.New()
	seedStores(t, db)
	return usecase.NewShippingUseCase(db.TxRunner(), db.Stores()), db
}

func TestShipping_AddUpdateRemove(t *testing.T) {
	uc, _ := newShippingUC(t)
	ctx := context.Background()

	opts, err := uc.Add(ctx, storeA, dto.ShippingOptionDTO{Name: "Express", Fee: dec("15000"), EstimatedDays: 1})
	require.NoError(t, err)
	require.Len(t, opts, 2)

	days := 2
	opts, err = uc.Update(ctx, storeA, "express", dto.UpdateShippingOptionRequest{EstimatedDays: &days})
	require.NoError(t, err)
	assert.Equal(t, 2, opts[1].EstimatedDays)

	opts, err = uc.Remove(ctx, storeA, "ESTÁNDAR")
	require.NoError(t, err)
	require.Len(t, opts, 1)
	assert.Equal(t, "Express", opts[0].Name)

	listed, err := uc.List(ctx, storeA)
	require.NoError(t, err)
	assert.Equal(t, opts, listed)
}

func TestShipping_Errores(t *testing.T) {
	uc, _ := newShippingUC(t)
	ctx := context.Background()

	_, err := uc.Add(ctx, storeA, dto.ShippingOptionDTO{Name: "estándar", Fee: dec("1")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = uc.Add(ctx, storeA, dto.ShippingOptionDTO{Name: "Gratis", Fee: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Remove(ctx, storeA, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.List(ctx, "otra")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestShipping_FallaAlGuardar_NoCambiaNada(t *testing.T) {
	uc, db := newShippingUC(t)
	ctx := context.Background()
	db.FailOn("stores.Save", errors.New("db caída"))

	_, err := uc.Add(ctx, storeA, dto.ShippingOptionDTO{Name: "Express", Fee: dec("1")})
	require.Error(t, err)

	listed, err := uc.List(ctx, storeA)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}
