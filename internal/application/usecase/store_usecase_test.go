package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/application/usecase"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/infrastructure/cache"
	"github.com/jhoicas/storefront-api/internal/testutil/fakerepo"
)

func newStoreUC(t *testing.T) (*usecase.StoreUseCase, *fakerepo.DB, *cache.MemoryStoreCache, *fakerepo.Storage) {
	db := fakerepo.New()
	seedStores(t, db)
	c := cache.NewMemoryStoreCache()
	files := fakerepo.NewStorage()
	return usecase.NewStoreUseCase(db.Stores(), c, files, nil), db, c, files
}

func TestStore_GetPublic_UsaCache(t *testing.T) {
	uc, _, c, _ := newStoreUC(t)
	ctx := context.Background()

	out, err := uc.GetPublic(ctx, "tienda-a")
	require.NoError(t, err)
	assert.Equal(t, storeA, out.Store.ID)
	assert.Equal(t, "COP", out.Currency)
	require.Len(t, out.ShippingOptions, 1)
	assert.Equal(t, "Estándar", out.ShippingOptions[0].Name)

	cached, err := c.Get(ctx, "tienda-a")
	require.NoError(t, err)
	require.NotNil(t, cached, "la tienda queda en caché tras la primera lectura")
}

func TestStore_GetPublic_SlugDesconocido(t *testing.T) {
	uc, _, _, _ := newStoreUC(t)
	_, err := uc.GetPublic(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.GetPublic(context.Background(), "X")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Update_CambiaSlugEInvalidaCache(t *testing.T) {
	uc, _, c, _ := newStoreUC(t)
	ctx := context.Background()
	_, err := uc.GetPublic(ctx, "tienda-a")
	require.NoError(t, err)

	newSlug := "nueva-a"
	out, err := uc.Update(ctx, storeA, dto.UpdateStoreRequest{Slug: &newSlug})
	require.NoError(t, err)
	assert.Equal(t, "nueva-a", out.Slug)

	cached, _ := c.Get(ctx, "tienda-a")
	assert.Nil(t, cached)
	_, err = uc.GetPublic(ctx, "tienda-a")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Update_SlugTomadoOInvalido(t *testing.T) {
	uc, _, _, _ := newStoreUC(t)
	taken := "tienda-b"
	_, err := uc.Update(context.Background(), storeA, dto.UpdateStoreRequest{Slug: &taken})
	assert.ErrorIs(t, err, domain.ErrSlugTaken)

	bad := "--mal--"
	_, err = uc.Update(context.Background(), storeA, dto.UpdateStoreRequest{Slug: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_UpdateSettings(t *testing.T) {
	uc, _, _, _ := newStoreUC(t)
	cur, threshold := "usd", 10
	out, err := uc.UpdateSettings(context.Background(), storeA, dto.UpdateSettingsRequest{Currency: &cur, LowStockThreshold: &threshold})
	require.NoError(t, err)
	assert.Equal(t, "USD", out.Currency)
	assert.Equal(t, 10, out.LowStockThreshold)
	assert.Len(t, out.ShippingOptions, 1, "las opciones de envío no se tocan")

	neg := -1
	_, err = uc.UpdateSettings(context.Background(), storeA, dto.UpdateSettingsRequest{LowStockThreshold: &neg})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_UploadImage(t *testing.T) {
	uc, _, _, files := newStoreUC(t)
	out, err := uc.UploadImage(context.Background(), storeA, "banner", &dto.Upload{
		Filename: "b.jpg", ContentType: "image/jpeg", Body: strings.NewReader("jpg"), Size: 3,
	})
	require.NoError(t, err)
	assert.Contains(t, out.BannerURL, "stores/"+storeA+"/banner-")
	assert.Equal(t, 1, files.Len())

	_, err = uc.UploadImage(context.Background(), storeA, "favicon", &dto.Upload{ContentType: "image/png"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_UploadImage_ReemplazoBorraAnterior(t *testing.T) {
	uc, _, _, files := newStoreUC(t)
	ctx := context.Background()
	upload := func() *dto.StoreResponse {
		out, err := uc.UploadImage(ctx, storeA, "logo", &dto.Upload{
			Filename: "logo.png", ContentType: "image/png", Body: strings.NewReader("png"), Size: 3,
		})
		require.NoError(t, err)
		return out
	}

	first := upload()
	firstKey := first.LogoURL[strings.Index(first.LogoURL, "stores/"):]
	second := upload()

	assert.NotEqual(t, first.LogoURL, second.LogoURL)
	assert.Equal(t, 1, files.Len(), "solo queda el logo vigente")
	assert.Contains(t, files.Deleted, firstKey)
	assert.NotContains(t, files.Objects, firstKey)
}

func TestStore_UploadImage_FalloAlBorrarAnteriorNoFalla(t *testing.T) {
	uc, _, _, files := newStoreUC(t)
	ctx := context.Background()
	_, err := uc.UploadImage(ctx, storeA, "banner", &dto.Upload{
		Filename: "a.jpg", ContentType: "image/jpeg", Body: strings.NewReader("a"), Size: 1,
	})
	require.NoError(t, err)

	files.DeleteErr = errors.New("s3 caído")
	out, err := uc.UploadImage(ctx, storeA, "banner", &dto.Upload{
		Filename: "b.jpg", ContentType: "image/jpeg", Body: strings.NewReader("b"), Size: 1,
	})
	require.NoError(t, err)
	assert.Contains(t, out.BannerURL, "stores/"+storeA+"/banner-")
	assert.Equal(t, 2, files.Len())
}

func TestStore_SinTienda(t *testing.T) {
	uc, _, _, _ := newStoreUC(t)
	_, err := uc.Get(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
