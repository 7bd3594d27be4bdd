package fakerepo

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
	stock "github.com/jhoicas/storefront-api/internal/domain/inventory"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas del dashboard calculadas sobre las tablas en memoria.
type AnalyticsRepo struct{ db *DB }

func NewAnalytics(db *DB) *AnalyticsRepo { return &AnalyticsRepo{db} }

func (r *AnalyticsRepo) GetSales(ctx context.Context, storeID string, from, to time.Time) (decimal.Decimal, int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	total, n := decimal.Zero, 0
	for _, o := range r.db.orders {
		if o.StoreID != storeID || o.Status == entity.OrderStatusCancelled || !inRange(o.CreatedAt, from, to) {
			continue
		}
		total = total.Add(o.Total)
		n++
	}
	return total, n, nil
}

func (r *AnalyticsRepo) GetOrdersByStatus(ctx context.Context, storeID string) (map[string]int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := map[string]int{}
	for _, o := range r.db.orders {
		if o.StoreID == storeID {
			out[o.Status]++
		}
	}
	return out, nil
}

func (r *AnalyticsRepo) GetExpensesTotal(ctx context.Context, storeID string, from, to time.Time) (decimal.Decimal, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	total := decimal.Zero
	for _, e := range r.db.expenses {
		if e.StoreID == storeID && inRange(e.ExpenseDate, from, to) {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

func (r *AnalyticsRepo) GetStockCounts(ctx context.Context, storeID string) (repository.StockCounts, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var c repository.StockCounts
	for _, inv := range r.db.inventory {
		if inv.StoreID != storeID {
			continue
		}
		switch stock.Classify(inv.QuantityAvailable, inv.LowStockThreshold) {
		case stock.StatusLowStock:
			c.LowStock++
		case stock.StatusOutOfStock:
			c.OutOfStock++
		}
	}
	return c, nil
}

func (r *AnalyticsRepo) GetTopProducts(ctx context.Context, storeID string, from, to time.Time, limit int) ([]repository.TopProductResult, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if limit <= 0 {
		limit = 5
	}
	byProduct := map[string]*repository.TopProductResult{}
	for _, o := range r.db.orders {
		if o.StoreID != storeID || o.Status == entity.OrderStatusCancelled || !inRange(o.CreatedAt, from, to) {
			continue
		}
		for _, it := range o.Items {
			row, ok := byProduct[it.ProductID]
			if !ok {
				row = &repository.TopProductResult{ProductID: it.ProductID, ProductName: it.Name, Revenue: decimal.Zero}
				byProduct[it.ProductID] = row
			}
			row.UnitsSold += it.Quantity
			row.Revenue = row.Revenue.Add(it.LineTotal)
		}
	}
	out := make([]repository.TopProductResult, 0, len(byProduct))
	for _, row := range byProduct {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UnitsSold != out[j].UnitsSold {
			return out[i].UnitsSold > out[j].UnitsSold
		}
		return out[i].Revenue.GreaterThan(out[j].Revenue)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
