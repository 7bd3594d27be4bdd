package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/storefront-api/internal/application/auth"
	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/application/ports"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jhoicas/storefront-api/pkg/logger"
	"github.com/jhoicas/storefront-api/pkg/slug"
)

// StoreUseCase datos de la tienda, su configuración y la vitrina pública por slug.
type StoreUseCase struct {
	repo    repository.StoreRepository
	cache   ports.StoreCache
	storage ports.ObjectStorage
	log     *logger.Logger
}

// NewStoreUseCase construye el caso de uso. log nil = sin logs.
func NewStoreUseCase(repo repository.StoreRepository, cache ports.StoreCache, storage ports.ObjectStorage, log *logger.Logger) *StoreUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &StoreUseCase{repo: repo, cache: cache, storage: storage, log: log.Component("store")}
}

// Get devuelve la tienda del usuario autenticado.
func (uc *StoreUseCase) Get(ctx context.Context, storeID string) (*dto.StoreResponse, error) {
	store, err := uc.load(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return toStoreResponse(store), nil
}

// GetPublic vitrina de la tienda por slug: datos visibles, moneda y opciones de envío.
func (uc *StoreUseCase) GetPublic(ctx context.Context, storeSlug string) (*dto.PublicStoreResponse, error) {
	store, err := uc.bySlug(ctx, storeSlug)
	if err != nil {
		return nil, err
	}
	settings, err := uc.repo.GetSettings(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	out := &dto.PublicStoreResponse{Store: *toStoreResponse(store), ShippingOptions: []dto.ShippingOptionDTO{}}
	if settings != nil {
		out.Currency = settings.Currency
		out.ContactEmail = settings.ContactEmail
		out.ContactPhone = settings.ContactPhone
		out.ShippingOptions = toShippingOptionDTOs(settings.ShippingOptions)
	}
	return out, nil
}

// ResolveSlug devuelve el id de una tienda activa a partir de su slug.
func (uc *StoreUseCase) ResolveSlug(ctx context.Context, storeSlug string) (string, error) {
	store, err := uc.bySlug(ctx, storeSlug)
	if err != nil {
		return "", err
	}
	return store.ID, nil
}

// bySlug consulta primero la caché; las tiendas suspendidas no son públicas.
func (uc *StoreUseCase) bySlug(ctx context.Context, storeSlug string) (*entity.Store, error) {
	storeSlug = strings.ToLower(strings.TrimSpace(storeSlug))
	if !slug.Valid(storeSlug) {
		return nil, domain.ErrNotFound
	}
	store, err := uc.cache.Get(ctx, storeSlug)
	if err != nil {
		store = nil
	}
	if store == nil {
		store, err = uc.repo.GetBySlug(ctx, storeSlug)
		if err != nil {
			return nil, err
		}
		if store == nil {
			return nil, domain.ErrNotFound
		}
		_ = uc.cache.Set(ctx, store)
	}
	if store.Status != entity.StoreStatusActive {
		return nil, domain.ErrNotFound
	}
	return store, nil
}

// Update cambia nombre, descripción o slug. Invalida la caché del slug anterior y del nuevo.
func (uc *StoreUseCase) Update(ctx context.Context, storeID string, in dto.UpdateStoreRequest) (*dto.StoreResponse, error) {
	store, err := uc.load(ctx, storeID)
	if err != nil {
		return nil, err
	}
	oldSlug := store.Slug
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		store.Name = name
	}
	if in.Description != nil {
		store.Description = strings.TrimSpace(*in.Description)
	}
	if in.Slug != nil && *in.Slug != store.Slug {
		newSlug := strings.TrimSpace(*in.Slug)
		if !slug.Valid(newSlug) {
			return nil, fmt.Errorf("%w: slug %q", domain.ErrInvalidInput, newSlug)
		}
		other, err := uc.repo.GetBySlug(ctx, newSlug)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != store.ID {
			return nil, domain.ErrSlugTaken
		}
		store.Slug = newSlug
	}
	store.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, store); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, oldSlug, store.Slug)
	return toStoreResponse(store), nil
}

// UploadImage sube el logo o el banner y actualiza la URL de la tienda.
// El archivo anterior se borra una vez guardada la nueva URL.
func (uc *StoreUseCase) UploadImage(ctx context.Context, storeID, kind string, f *dto.Upload) (*dto.StoreResponse, error) {
	if kind != "logo" && kind != "banner" {
		return nil, domain.ErrInvalidInput
	}
	if f == nil || !strings.HasPrefix(f.ContentType, "image/") {
		return nil, fmt.Errorf("%w: %s debe ser una imagen", domain.ErrInvalidInput, kind)
	}
	store, err := uc.load(ctx, storeID)
	if err != nil {
		return nil, err
	}
	key := auth.StoreFileKey(store.ID, kind, f.Filename)
	url, err := uc.storage.Upload(ctx, key, f.ContentType, f.Body, f.Size)
	if err != nil {
		return nil, fmt.Errorf("subir %s: %w", kind, err)
	}
	var previous string
	if kind == "logo" {
		previous, store.LogoURL = store.LogoURL, url
	} else {
		previous, store.BannerURL = store.BannerURL, url
	}
	store.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, store); err != nil {
		_ = uc.storage.Delete(context.WithoutCancel(ctx), key)
		return nil, err
	}
	uc.invalidate(ctx, store.Slug)
	if oldKey, ok := auth.KeyFromURL(store.ID, previous); ok && oldKey != key {
		if err := uc.storage.Delete(context.WithoutCancel(ctx), oldKey); err != nil {
			uc.log.Warn().Err(err).Str("store_id", store.ID).Str("key", oldKey).Msg("no se pudo borrar la imagen anterior")
		}
	}
	return toStoreResponse(store), nil
}

// GetSettings configuración de la tienda.
func (uc *StoreUseCase) GetSettings(ctx context.Context, storeID string) (*dto.StoreSettingsResponse, error) {
	settings, err := uc.repo.GetSettings(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, domain.ErrNotFound
	}
	return toSettingsResponse(settings), nil
}

// UpdateSettings aplica los campos presentes. Las opciones de envío no se tocan aquí.
func (uc *StoreUseCase) UpdateSettings(ctx context.Context, storeID string, in dto.UpdateSettingsRequest) (*dto.StoreSettingsResponse, error) {
	settings, err := uc.repo.GetSettings(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, domain.ErrNotFound
	}
	if in.Currency != nil {
		cur := strings.ToUpper(strings.TrimSpace(*in.Currency))
		if len(cur) != 3 {
			return nil, domain.ErrInvalidInput
		}
		settings.Currency = cur
	}
	if in.ContactEmail != nil {
		settings.ContactEmail = strings.TrimSpace(*in.ContactEmail)
	}
	if in.ContactPhone != nil {
		settings.ContactPhone = strings.TrimSpace(*in.ContactPhone)
	}
	if in.Address != nil {
		settings.Address = strings.TrimSpace(*in.Address)
	}
	if in.LowStockThreshold != nil {
		if *in.LowStockThreshold < 0 {
			return nil, domain.ErrInvalidInput
		}
		settings.LowStockThreshold = *in.LowStockThreshold
	}
	settings.UpdatedAt = time.Now()
	if err := uc.repo.UpdateSettings(ctx, settings); err != nil {
		return nil, err
	}
	return toSettingsResponse(settings), nil
}

func (uc *StoreUseCase) load(ctx context.Context, storeID string) (*entity.Store, error) {
	if storeID == "" {
		return nil, domain.ErrForbidden
	}
	store, err := uc.repo.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}
	return store, nil
}

func (uc *StoreUseCase) invalidate(ctx context.Context, slugs ...string) {
	for _, s := range slugs {
		_ = uc.cache.Invalidate(ctx, s)
	}
}

func toStoreResponse(s *entity.Store) *dto.StoreResponse {
	return &dto.StoreResponse{
		ID:          s.ID,
		Name:        s.Name,
		Slug:        s.Slug,
		Description: s.Description,
		LogoURL:     s.LogoURL,
		BannerURL:   s.BannerURL,
		Status:      s.Status,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func toSettingsResponse(s *entity.StoreSettings) *dto.StoreSettingsResponse {
	return &dto.StoreSettingsResponse{
		Currency:          s.Currency,
		ContactEmail:      s.ContactEmail,
		ContactPhone:      s.ContactPhone,
		Address:           s.Address,
		LowStockThreshold: s.LowStockThreshold,
		ShippingOptions:   toShippingOptionDTOs(s.ShippingOptions),
		UpdatedAt:         s.UpdatedAt,
	}
}

func toShippingOptionDTOs(opts []entity.ShippingOption) []dto.ShippingOptionDTO {
	out := make([]dto.ShippingOptionDTO, 0, len(opts))
	for _, o := range opts {
		out = append(out, dto.ShippingOptionDTO{Name: o.Name, Fee: o.Fee, EstimatedDays: o.EstimatedDays})
	}
	return out
}
