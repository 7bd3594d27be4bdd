package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateExpenseCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=120"`
	Description string `json:"description"`
}

type UpdateExpenseCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=120"`
	Description *string `json:"description"`
}

type ExpenseCategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateExpenseRequest gasto; ExpenseDate en formato YYYY-MM-DD (vacío = hoy).
type CreateExpenseRequest struct {
	CategoryID    string          `json:"category_id" validate:"omitempty,uuid"`
	Description   string          `json:"description" validate:"required,min=1,max=300"`
	Amount        decimal.Decimal `json:"amount"`
	ExpenseDate   string          `json:"expense_date" validate:"omitempty,datetime=2006-01-02"`
	PaymentMethod string          `json:"payment_method" validate:"omitempty,max=50"`
	Notes         string          `json:"notes"`
}

// UpdateExpenseRequest; nil = sin cambio. CategoryID "" quita la categoría.
type UpdateExpenseRequest struct {
	CategoryID    *string          `json:"category_id"`
	Description   *string          `json:"description" validate:"omitempty,min=1,max=300"`
	Amount        *decimal.Decimal `json:"amount"`
	ExpenseDate   *string          `json:"expense_date" validate:"omitempty,datetime=2006-01-02"`
	PaymentMethod *string          `json:"payment_method" validate:"omitempty,max=50"`
	Notes         *string          `json:"notes"`
}

type ExpenseListQuery struct {
	PageRequest
	CategoryID string `query:"category_id"`
	From       string `query:"from"`
	To         string `query:"to"`
}

type ExpenseResponse struct {
	ID            string          `json:"id"`
	CategoryID    string          `json:"category_id,omitempty"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	ExpenseDate   string          `json:"expense_date"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type ExpenseListResponse struct {
	Items []ExpenseResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ExpenseSummaryResponse totales por categoría y total general del rango.
type ExpenseSummaryResponse struct {
	From       string                 `json:"from,omitempty"`
	To         string                 `json:"to,omitempty"`
	Categories []ExpenseCategoryTotal `json:"categories"`
	Total      decimal.Decimal        `json:"total"`
}

type ExpenseCategoryTotal struct {
	CategoryID   string          `json:"category_id,omitempty"`
	CategoryName string          `json:"category_name"`
	Count        int             `json:"count"`
	Total        decimal.Decimal `json:"total"`
}
