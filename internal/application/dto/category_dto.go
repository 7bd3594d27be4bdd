package dto

import "time"

// CreateCategoryRequest; Slug vacío = se deriva del nombre.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=120"`
	Slug        string `json:"slug" validate:"omitempty,max=60"`
	Description string `json:"description"`
	ParentID    string `json:"parent_id" validate:"omitempty,uuid"`
}

// UpdateCategoryRequest; nil = sin cambio. ParentID "" quita el padre.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=120"`
	Slug        *string `json:"slug" validate:"omitempty,max=60"`
	Description *string `json:"description"`
	ParentID    *string `json:"parent_id" validate:"omitempty"`
}

type CategoryResponse struct {
	ID          string    `json:"id"`
	ParentID    string    `json:"parent_id,omitempty"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
