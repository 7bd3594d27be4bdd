package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jhoicas/storefront-api/pkg/slug"
)

// CategoryUseCase CRUD de categorías de productos. Slug único por tienda.
type CategoryUseCase struct {
	repo repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo}
}

// Create crea una categoría; sin slug se deriva del nombre.
func (uc *CategoryUseCase) Create(ctx context.Context, storeID string, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	s, err := categorySlug(in.Slug, name)
	if err != nil {
		return nil, err
	}
	if in.ParentID != "" {
		if _, err := uc.get(ctx, storeID, in.ParentID); err != nil {
			return nil, domain.ErrInvalidInput
		}
	}
	now := time.Now()
	c := &entity.Category{
		ID:          uuid.New().String(),
		StoreID:     storeID,
		ParentID:    in.ParentID,
		Name:        name,
		Slug:        s,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// List categorías de la tienda ordenadas por nombre.
func (uc *CategoryUseCase) List(ctx context.Context, storeID string) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCategoryResponse(c))
	}
	return out, nil
}

func (uc *CategoryUseCase) Get(ctx context.Context, storeID, id string) (*dto.CategoryResponse, error) {
	c, err := uc.get(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// Update aplica los campos presentes. Una categoría no puede ser su propio padre.
func (uc *CategoryUseCase) Update(ctx context.Context, storeID, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	c, err := uc.get(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		c.Name = name
	}
	if in.Slug != nil {
		s, err := categorySlug(*in.Slug, c.Name)
		if err != nil {
			return nil, err
		}
		c.Slug = s
	}
	if in.Description != nil {
		c.Description = strings.TrimSpace(*in.Description)
	}
	if in.ParentID != nil {
		parent := *in.ParentID
		if parent == c.ID {
			return nil, domain.ErrInvalidInput
		}
		if parent != "" {
			if _, err := uc.get(ctx, storeID, parent); err != nil {
				return nil, domain.ErrInvalidInput
			}
		}
		c.ParentID = parent
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// Delete elimina la categoría; sus productos quedan sin categoría.
func (uc *CategoryUseCase) Delete(ctx context.Context, storeID, id string) error {
	if _, err := uc.get(ctx, storeID, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *CategoryUseCase) get(ctx context.Context, storeID, id string) (*entity.Category, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil || c.StoreID != storeID {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

// categorySlug normaliza el slug recibido o lo deriva del nombre.
func categorySlug(raw, name string) (string, error) {
	s := slug.Make(raw)
	if strings.TrimSpace(raw) == "" {
		s = slug.Make(name)
	}
	if s == "" {
		return "", domain.ErrInvalidInput
	}
	return s, nil
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:          c.ID,
		ParentID:    c.ParentID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
