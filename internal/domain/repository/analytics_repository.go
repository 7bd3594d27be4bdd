package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TopProductResult producto más vendido en un período.
type TopProductResult struct {
	ProductID   string
	ProductName string
	UnitsSold   int
	Revenue     decimal.Decimal
}

// StockCounts conteo de filas de inventario por estado.
type StockCounts struct {
	LowStock   int
	OutOfStock int
}

// AnalyticsRepository define las consultas de lectura del dashboard.
// Las implementaciones son read-only (no modifican datos).
type AnalyticsRepository interface {
	// GetSales devuelve total vendido y número de pedidos no cancelados en el rango.
	GetSales(ctx context.Context, storeID string, from, to time.Time) (total decimal.Decimal, orders int, err error)

	// GetOrdersByStatus cuenta pedidos por estado (todos los tiempos).
	GetOrdersByStatus(ctx context.Context, storeID string) (map[string]int, error)

	// GetExpensesTotal suma los gastos con fecha dentro del rango.
	GetExpensesTotal(ctx context.Context, storeID string, from, to time.Time) (decimal.Decimal, error)

	// GetStockCounts cuenta inventarios en stock bajo y agotados.
	GetStockCounts(ctx context.Context, storeID string) (StockCounts, error)

	// GetTopProducts devuelve los `limit` productos con más unidades vendidas en el período.
	GetTopProducts(ctx context.Context, storeID string, from, to time.Time, limit int) ([]TopProductResult, error)
}
