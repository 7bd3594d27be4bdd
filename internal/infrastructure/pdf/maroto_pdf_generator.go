// Package pdf genera los documentos PDF de la tienda con Maroto v2:
// la factura imprimible de un pedido y la exportación tabular de datasets.
//
// Layout de la factura (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre tienda + contacto  │  N° Pedido + Fecha      │
//	│  CLIENTE: Nombre + email + dirección de envío                │
//	│  TABLA: Cant | Producto | P.Unit | Desc% | Total             │
//	│  TOTALES: Subtotal / Descuentos / Envío / TOTAL              │
//	│  FOOTER: QR al estado del pedido + leyenda                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/storefront-api/internal/application/billing"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 33, Green: 37, Blue: 41}
	colorAccent  = &props.Color{Red: 13, Green: 110, Blue: 253}
	colorGray    = &props.Color{Red: 108, Green: 117, Blue: 125}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var _ billing.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF genera la factura del pedido y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, data billing.InvoiceData) ([]byte, error) {
	if data.Order == nil || data.Store == nil {
		return nil, fmt.Errorf("pdf: pedido y tienda son obligatorios")
	}
	order, store := data.Order, data.Store

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura "+order.Number, true).
		WithAuthor(store.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(order, store, data.Settings))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(order.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(order))

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRows(order, data.OrderURL)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: tienda y contacto (izq), número de pedido y fecha (der).
func headerRow(order *entity.Order, store *entity.Store, settings *entity.StoreSettings) core.Row {
	contact := "-"
	if settings != nil {
		contact = fmt.Sprintf("%s   |   %s",
			nonEmpty(settings.ContactEmail, "-"),
			nonEmpty(settings.ContactPhone, "-"),
		)
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(store.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(contact, props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("FACTURA DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorAccent, Top: 1,
			}),
			text.New(order.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+order.CreatedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// customerRow: datos del comprador copiados en el pedido.
func customerRow(order *entity.Order) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorAccent, Top: 1,
			}),
			text.New(nonEmpty(order.CustomerName, "Consumidor final"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 5,
			}),
			text.New(fmt.Sprintf("Email: %s   |   Envío: %s   |   %s",
				nonEmpty(order.CustomerEmail, "-"),
				nonEmpty(order.ShippingOption, "-"),
				nonEmpty(order.ShippingAddress, "-"),
			), props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Desc.", 1, align.Center),
		h("Total", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// itemRows: una fila por línea del pedido; el SKU va debajo del nombre.
func itemRows(items []entity.OrderItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		name := it.Name
		if it.SKU != "" {
			name += "  (" + it.SKU + ")"
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", it.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				name,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				"$"+formatMoney(it.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				it.DiscountPercent.String()+"%",
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(3).Add(text.New(
				"$"+formatMoney(it.LineTotal),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(order *entity.Order) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(28).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:"),
			text.New("Descuentos:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 6}),
			text.New("Envío:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 12}),
			text.New("TOTAL:", props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right, Right: 2, Top: 19, Color: colorAccent}),
		),
		col.New(3).Add(
			value("$"+formatMoney(order.Subtotal), 0),
			value("-$"+formatMoney(order.DiscountTotal), 6),
			value("$"+formatMoney(order.ShippingFee), 12),
			text.New("$"+formatMoney(order.Total), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Right: 1, Top: 19, Color: colorAccent,
			}),
		),
	)
}

// footerRows: QR hacia la vista pública del pedido (si hay URL) y leyenda.
func footerRows(order *entity.Order, orderURL string) []core.Row {
	rows := []core.Row{
		line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}),
	}
	if orderURL != "" {
		rows = append(rows, row.New(45).Add(
			col.New(4).Add(code.NewQr(orderURL, props.Rect{
				Percent: 90,
				Center:  true,
			})),
			col.New(8).Add(
				text.New("Escanea el código para consultar\nel estado de tu pedido.", props.Text{
					Size: 8, Top: 6, Left: 3, Color: colorGray,
				}),
				text.New("Pedido "+order.Number, props.Text{
					Style: fontstyle.Bold, Size: 10, Top: 20, Left: 3, Color: colorPrimary,
				}),
			),
		))
	}
	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New("Gracias por tu compra. Conserva este documento como soporte de tu pedido.", props.Text{
			Size: 7, Color: colorGray, Top: 2, Align: align.Center,
		}),
	)))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney separa miles con punto y decimales con coma; omite los decimales si el valor es entero.
// Ej: 25000 → "25.000", 1234.5 → "1.234,50"
func formatMoney(d decimal.Decimal) string {
	d = d.Abs()
	places := int32(2)
	if d.Equal(d.Truncate(0)) {
		places = 0
	}
	s := d.StringFixed(places)
	intPart, frac := s, ""
	if places > 0 {
		intPart, frac = s[:len(s)-3], ","+s[len(s)-2:]
	}
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf) + frac
}
