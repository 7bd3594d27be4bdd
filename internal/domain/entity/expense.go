package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseCategory clasificación contable de gastos de la tienda.
type ExpenseCategory struct {
	ID          string
	StoreID     string
	Name        string // único por tienda
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Expense gasto registrado por la tienda.
type Expense struct {
	ID            string
	StoreID       string
	CategoryID    string // vacío = sin categoría
	Description   string
	Amount        decimal.Decimal
	ExpenseDate   time.Time
	PaymentMethod string
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
