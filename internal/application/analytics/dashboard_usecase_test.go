package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storefront-api/internal/application/analytics"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

type fakeAnalytics struct {
	sales    map[time.Time]decimal.Decimal // por inicio de rango
	orders   map[time.Time]int
	expenses decimal.Decimal
	stockErr error
}

func (f *fakeAnalytics) GetSales(_ context.Context, _ string, from, _ time.Time) (decimal.Decimal, int, error) {
	return f.sales[from], f.orders[from], nil
}

func (f *fakeAnalytics) GetOrdersByStatus(context.Context, string) (map[string]int, error) {
	return map[string]int{"pending": 2, "delivered": 5}, nil
}

func (f *fakeAnalytics) GetExpensesTotal(context.Context, string, time.Time, time.Time) (decimal.Decimal, error) {
	return f.expenses, nil
}

func (f *fakeAnalytics) GetStockCounts(context.Context, string) (repository.StockCounts, error) {
	if f.stockErr != nil {
		return repository.StockCounts{}, f.stockErr
	}
	return repository.StockCounts{LowStock: 3, OutOfStock: 1}, nil
}

func (f *fakeAnalytics) GetTopProducts(_ context.Context, _ string, _, _ time.Time, limit int) ([]repository.TopProductResult, error) {
	out := []repository.TopProductResult{
		{ProductID: "p1", ProductName: "Taza", UnitsSold: 12, Revenue: decimal.RequireFromString("240000.004")},
	}
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func TestGetSummary_ArmaKPIs(t *testing.T) {
	now := time.Date(2026, time.February, 17, 15, 30, 0, 0, time.UTC)
	today := time.Date(2026, time.February, 17, 0, 0, 0, 0, time.UTC)
	month := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	repo := &fakeAnalytics{
		sales:    map[time.Time]decimal.Decimal{today: decimal.NewFromInt(50000), month: decimal.NewFromInt(900000)},
		orders:   map[time.Time]int{today: 2, month: 30},
		expenses: decimal.NewFromInt(350000),
	}
	uc := analytics.NewDashboardUseCase(repo).WithClock(func() time.Time { return now })

	out, err := uc.GetSummary(context.Background(), "store-a")
	require.NoError(t, err)

	assert.True(t, out.TodaySales.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, 2, out.TodayOrders)
	assert.True(t, out.MonthlySales.Equal(decimal.NewFromInt(900000)))
	assert.Equal(t, 30, out.MonthlyOrders)
	assert.True(t, out.MonthlyExpenses.Equal(decimal.NewFromInt(350000)))
	assert.True(t, out.MonthlyNet.Equal(decimal.NewFromInt(550000)))
	assert.Equal(t, 5, out.OrdersByStatus["delivered"])
	assert.Equal(t, 3, out.LowStock)
	assert.Equal(t, 1, out.OutOfStock)
	require.Len(t, out.TopProducts, 1)
	assert.Equal(t, "240000", out.TopProducts[0].Revenue.String())
	assert.Equal(t, "Febrero 2026", out.DateLabel)
}

func TestGetSummary_PropagaError(t *testing.T) {
	repo := &fakeAnalytics{stockErr: errors.New("timeout")}
	_, err := analytics.NewDashboardUseCase(repo).GetSummary(context.Background(), "store-a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stock")
}
