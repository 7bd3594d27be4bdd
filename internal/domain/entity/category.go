package entity

import "time"

// Category representa una categoría de productos de una tienda (jerárquica opcional).
type Category struct {
	ID          string
	StoreID     string
	ParentID    string // vacío si es raíz
	Name        string
	Slug        string // único por tienda
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
