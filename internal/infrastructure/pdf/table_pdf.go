package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/storefront-api/internal/application/export"
)

var _ export.Writer = (*TableWriter)(nil)

// TableWriter exporta un dataset como tabla PDF horizontal; una columna de grilla por encabezado.
type TableWriter struct {
	now func() time.Time
}

func NewTableWriter() *TableWriter { return &TableWriter{now: time.Now} }

func (w *TableWriter) ContentType() string { return "application/pdf" }
func (w *TableWriter) Extension() string   { return "pdf" }

func (w *TableWriter) Write(_ context.Context, t export.Table) ([]byte, error) {
	if len(t.Headers) == 0 {
		return nil, fmt.Errorf("pdf: la tabla no tiene columnas")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithMaxGridSize(len(t.Headers)).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 7}).
		WithTitle(t.Title, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(row.New(12).Add(col.New(len(t.Headers)).Add(
		text.New(t.Title, props.Text{Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 2}),
		text.New("Generado: "+w.now().Format("02/01/2006 15:04"), props.Text{Size: 7, Color: colorGray, Top: 8}),
	)))

	header := make([]core.Col, 0, len(t.Headers))
	for _, h := range t.Headers {
		header = append(header, col.New(1).Add(text.New(h, props.Text{
			Style: fontstyle.Bold, Size: 7, Color: colorWhite, Top: 1.5, Left: 1,
		})))
	}
	m.AddRows(row.New(7).Add(header...).WithStyle(&props.Cell{BackgroundColor: colorPrimary}))

	for i, r := range t.Rows {
		cols := make([]core.Col, 0, len(t.Headers))
		for j := range t.Headers {
			v := ""
			if j < len(r) {
				v = r[j]
			}
			cols = append(cols, col.New(1).Add(text.New(v, props.Text{Size: 7, Top: 1, Left: 1})))
		}
		rr := row.New(6).Add(cols...)
		if i%2 == 1 {
			rr = rr.WithStyle(&props.Cell{BackgroundColor: &props.Color{Red: 241, Green: 243, Blue: 245}})
		}
		m.AddRows(rr)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar tabla: %w", err)
	}
	return doc.GetBytes(), nil
}
