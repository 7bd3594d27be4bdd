// Package analytics contiene los casos de uso de reportes del negocio y el
// dashboard del panel de la tienda.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

const dashboardTopProducts = 5 // número de productos en el widget del dashboard

// DashboardUseCase genera el resumen del día y del mes en curso.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, now: time.Now}
}

// WithClock fija el reloj (tests).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetSummary construye el DashboardSummaryDTO de la tienda.
//
// Seis consultas en paralelo:
//  1. GetSales(hoy)          → TodaySales + TodayOrders
//  2. GetSales(mes)          → MonthlySales + MonthlyOrders
//  3. GetExpensesTotal(mes)  → MonthlyExpenses
//  4. GetOrdersByStatus      → OrdersByStatus
//  5. GetStockCounts         → LowStock + OutOfStock
//  6. GetTopProducts(mes, 5) → TopProducts
func (uc *DashboardUseCase) GetSummary(ctx context.Context, storeID string) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()

	// Rangos semiabiertos [inicio, fin).
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := todayEnd

	type salesResult struct {
		total  decimal.Decimal
		orders int
		err    error
	}
	type expensesResult struct {
		total decimal.Decimal
		err   error
	}
	type statusResult struct {
		counts map[string]int
		err    error
	}
	type stockResult struct {
		counts repository.StockCounts
		err    error
	}
	type topResult struct {
		products []repository.TopProductResult
		err      error
	}

	todayCh := make(chan salesResult, 1)
	monthCh := make(chan salesResult, 1)
	expensesCh := make(chan expensesResult, 1)
	statusCh := make(chan statusResult, 1)
	stockCh := make(chan stockResult, 1)
	topCh := make(chan topResult, 1)

	go func() {
		total, n, err := uc.analyticsRepo.GetSales(ctx, storeID, todayStart, todayEnd)
		todayCh <- salesResult{total, n, err}
	}()
	go func() {
		total, n, err := uc.analyticsRepo.GetSales(ctx, storeID, monthStart, monthEnd)
		monthCh <- salesResult{total, n, err}
	}()
	go func() {
		total, err := uc.analyticsRepo.GetExpensesTotal(ctx, storeID, monthStart, monthEnd)
		expensesCh <- expensesResult{total, err}
	}()
	go func() {
		counts, err := uc.analyticsRepo.GetOrdersByStatus(ctx, storeID)
		statusCh <- statusResult{counts, err}
	}()
	go func() {
		counts, err := uc.analyticsRepo.GetStockCounts(ctx, storeID)
		stockCh <- stockResult{counts, err}
	}()
	go func() {
		products, err := uc.analyticsRepo.GetTopProducts(ctx, storeID, monthStart, monthEnd, dashboardTopProducts)
		topCh <- topResult{products, err}
	}()

	today := <-todayCh
	month := <-monthCh
	expenses := <-expensesCh
	byStatus := <-statusCh
	stock := <-stockCh
	top := <-topCh

	switch {
	case today.err != nil:
		return nil, fmt.Errorf("dashboard: ventas de hoy: %w", today.err)
	case month.err != nil:
		return nil, fmt.Errorf("dashboard: ventas del mes: %w", month.err)
	case expenses.err != nil:
		return nil, fmt.Errorf("dashboard: gastos del mes: %w", expenses.err)
	case byStatus.err != nil:
		return nil, fmt.Errorf("dashboard: pedidos por estado: %w", byStatus.err)
	case stock.err != nil:
		return nil, fmt.Errorf("dashboard: stock: %w", stock.err)
	case top.err != nil:
		return nil, fmt.Errorf("dashboard: top productos: %w", top.err)
	}

	counts := byStatus.counts
	if counts == nil {
		counts = map[string]int{}
	}
	topProducts := make([]dto.TopProductDTO, 0, len(top.products))
	for _, p := range top.products {
		topProducts = append(topProducts, dto.TopProductDTO{
			ProductID:   p.ProductID,
			ProductName: p.ProductName,
			UnitsSold:   p.UnitsSold,
			Revenue:     p.Revenue.Round(2),
		})
	}

	return &dto.DashboardSummaryDTO{
		TodaySales:      today.total.Round(2),
		TodayOrders:     today.orders,
		MonthlySales:    month.total.Round(2),
		MonthlyOrders:   month.orders,
		MonthlyExpenses: expenses.total.Round(2),
		MonthlyNet:      month.total.Sub(expenses.total).Round(2),
		OrdersByStatus:  counts,
		LowStock:        stock.counts.LowStock,
		OutOfStock:      stock.counts.OutOfStock,
		TopProducts:     topProducts,
		DateLabel:       monthLabel(now),
	}, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
