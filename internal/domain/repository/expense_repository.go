package repository

import (
	"context"
	"time"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ExpenseFilter filtros del listado de gastos.
type ExpenseFilter struct {
	CategoryID string
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}

// ExpenseCategoryTotal total gastado por categoría (CategoryID vacío = sin categoría).
type ExpenseCategoryTotal struct {
	CategoryID   string
	CategoryName string
	Count        int
	Total        decimal.Decimal
}

// ExpenseRepository define el puerto de persistencia para gastos y sus categorías.
type ExpenseRepository interface {
	CreateCategory(ctx context.Context, c *entity.ExpenseCategory) error
	GetCategory(ctx context.Context, id string) (*entity.ExpenseCategory, error)
	GetCategoryByName(ctx context.Context, storeID, name string) (*entity.ExpenseCategory, error)
	ListCategories(ctx context.Context, storeID string) ([]*entity.ExpenseCategory, error)
	UpdateCategory(ctx context.Context, c *entity.ExpenseCategory) error
	DeleteCategory(ctx context.Context, id string) error

	Create(ctx context.Context, e *entity.Expense) error
	GetByID(ctx context.Context, id string) (*entity.Expense, error)
	List(ctx context.Context, storeID string, f ExpenseFilter) ([]*entity.Expense, int, error)
	Update(ctx context.Context, e *entity.Expense) error
	Delete(ctx context.Context, id string) error
	SummaryByCategory(ctx context.Context, storeID string, from, to time.Time) ([]ExpenseCategoryTotal, error)
}
