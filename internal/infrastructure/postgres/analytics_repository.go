package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el tablero de la tienda.
// Los pedidos cancelados no cuentan como venta.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// GetSales total vendido y número de pedidos en [from, to).
func (r *AnalyticsRepo) GetSales(ctx context.Context, storeID string, from, to time.Time) (decimal.Decimal, int, error) {
	const query = `
	SELECT
	    COALESCE(SUM(o.total), 0) AS total_sales,
	    COUNT(*)                  AS orders_count
	FROM orders o
	WHERE o.store_id = $1
	  AND o.created_at >= $2 AND o.created_at < $3
	  AND o.status <> 'cancelled'`

	var total decimal.Decimal
	var count int
	if err := r.q.QueryRow(ctx, query, storeID, from, to).Scan(&total, &count); err != nil {
		return decimal.Zero, 0, fmt.Errorf("analytics.GetSales: %w", err)
	}
	return total, count, nil
}

// GetOrdersByStatus conteo de pedidos por estado (todos los tiempos).
func (r *AnalyticsRepo) GetOrdersByStatus(ctx context.Context, storeID string) (map[string]int, error) {
	rows, err := r.q.Query(ctx, `SELECT status, COUNT(*) FROM orders WHERE store_id = $1 GROUP BY status`, storeID)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetOrdersByStatus: %w", err)
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("analytics.GetOrdersByStatus scan: %w", err)
		}
		out[status] = n
	}
	return out, rows.Err()
}

// GetExpensesTotal suma de gastos con fecha en [from, to).
func (r *AnalyticsRepo) GetExpensesTotal(ctx context.Context, storeID string, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM expenses
		WHERE store_id = $1 AND expense_date >= $2 AND expense_date < $3`, storeID, from, to,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("analytics.GetExpensesTotal: %w", err)
	}
	return total, nil
}

// GetStockCounts filas de inventario en stock bajo y agotadas.
func (r *AnalyticsRepo) GetStockCounts(ctx context.Context, storeID string) (repository.StockCounts, error) {
	const query = `
	SELECT
	    COUNT(*) FILTER (WHERE quantity_available > 0 AND quantity_available <= low_stock_threshold) AS low_stock,
	    COUNT(*) FILTER (WHERE quantity_available <= 0)                                           AS out_of_stock
	FROM inventory
	WHERE store_id = $1`

	var c repository.StockCounts
	if err := r.q.QueryRow(ctx, query, storeID).Scan(&c.LowStock, &c.OutOfStock); err != nil {
		return c, fmt.Errorf("analytics.GetStockCounts: %w", err)
	}
	return c, nil
}

// GetTopProducts productos más vendidos por unidades en [from, to).
func (r *AnalyticsRepo) GetTopProducts(ctx context.Context, storeID string, from, to time.Time, limit int) ([]repository.TopProductResult, error) {
	if limit <= 0 {
		limit = 5
	}
	const query = `
	SELECT
	    COALESCE(d.product_id::TEXT, '') AS product_id,
	    MAX(d.name)                      AS product_name,
	    SUM(d.quantity)                  AS units_sold,
	    SUM(d.line_total)                AS revenue
	FROM orders o
	JOIN order_items d ON d.order_id = o.id
	WHERE o.store_id = $1
	  AND o.created_at >= $2 AND o.created_at < $3
	  AND o.status <> 'cancelled'
	GROUP BY d.product_id
	ORDER BY units_sold DESC, revenue DESC
	LIMIT $4`

	rows, err := r.q.Query(ctx, query, storeID, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetTopProducts: %w", err)
	}
	defer rows.Close()

	var results []repository.TopProductResult
	for rows.Next() {
		var row repository.TopProductResult
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.UnitsSold, &row.Revenue); err != nil {
			return nil, fmt.Errorf("analytics.GetTopProducts scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
