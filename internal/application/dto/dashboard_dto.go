package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard.
// KPIs del día y del mes en curso, más el Top-5 de productos del mes.
type DashboardSummaryDTO struct {
	// Día actual (00:00 – 23:59)
	TodaySales  decimal.Decimal `json:"today_sales"`
	TodayOrders int             `json:"today_orders"`

	// Mes en curso (día 1 – hoy)
	MonthlySales    decimal.Decimal `json:"monthly_sales"`
	MonthlyOrders   int             `json:"monthly_orders"`
	MonthlyExpenses decimal.Decimal `json:"monthly_expenses"`
	MonthlyNet      decimal.Decimal `json:"monthly_net"` // ventas - gastos

	OrdersByStatus map[string]int `json:"orders_by_status"`
	LowStock       int            `json:"low_stock"`
	OutOfStock     int            `json:"out_of_stock"`

	// Top 5 productos por unidades vendidas en el mes
	TopProducts []TopProductDTO `json:"top_products"`

	DateLabel string `json:"date_label"` // ej: "Febrero 2026"
}

// TopProductDTO resumen de un producto para el widget del dashboard.
type TopProductDTO struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitsSold   int             `json:"units_sold"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// ExportFile archivo generado para descarga.
type ExportFile struct {
	FileName    string
	ContentType string
	Content     []byte
}
