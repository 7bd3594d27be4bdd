package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storefront-api/internal/application/billing"
	"github.com/jhoicas/storefront-api/internal/application/export"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":       "0",
		"999":     "999",
		"25000":   "25.000",
		"1000000": "1.000.000",
		"1234.5":  "1.234,50",
		"-45000":  "45.000",
		"12.345":  "12,35",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestGenerateInvoicePDF(t *testing.T) {
	g := NewMarotoPDFGenerator()
	order := &entity.Order{
		Number: "ORD-20260301-ABC234", CustomerName: "Ana", CustomerEmail: "ana@correo.co",
		Subtotal: decimal.NewFromInt(100000), DiscountTotal: decimal.NewFromInt(10000),
		ShippingFee: decimal.NewFromInt(8000), Total: decimal.NewFromInt(98000),
		Items: []entity.OrderItem{{
			Name: "Camiseta", SKU: "CAM-M", Quantity: 2, UnitPrice: decimal.NewFromInt(50000),
			DiscountPercent: decimal.NewFromInt(10), LineTotal: decimal.NewFromInt(90000),
		}},
		CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	out, err := g.GenerateInvoicePDF(context.Background(), billing.InvoiceData{
		Order:    order,
		Store:    &entity.Store{Name: "Tienda Uno"},
		OrderURL: "https://tienda.co/pedido/abc",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateInvoicePDF_SinPedido(t *testing.T) {
	_, err := NewMarotoPDFGenerator().GenerateInvoicePDF(context.Background(), billing.InvoiceData{})
	assert.Error(t, err)
}

func TestTableWriter(t *testing.T) {
	w := NewTableWriter()
	assert.Equal(t, "pdf", w.Extension())

	out, err := w.Write(context.Background(), export.Table{
		Title:   "Productos",
		Headers: []string{"Nombre", "SKU", "Precio"},
		Rows:    [][]string{{"Camiseta", "CAM-1", "50000"}, {"Gorra"}},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = w.Write(context.Background(), export.Table{Title: "vacía"})
	assert.Error(t, err)
}
