package export

import (
	"context"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	appexport "github.com/jhoicas/storefront-api/internal/application/export"
)

var _ appexport.Writer = XLSXWriter{}

const maxSheetName = 31

// XLSXWriter una hoja con encabezado en negrita, fila congelada y autofiltro.
// Las celdas que parecen números se escriben como número para que Excel pueda sumarlas.
type XLSXWriter struct{}

func (XLSXWriter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
func (XLSXWriter) Extension() string { return "xlsx" }

func (XLSXWriter) Write(_ context.Context, t appexport.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := sheetName(t.Title)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("xlsx: nombre de hoja: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"212529"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	for j, h := range t.Headers {
		cell, _ := excelize.CoordinatesToCellName(j+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("xlsx: encabezado: %w", err)
		}
		width := float64(utf8.RuneCountInString(h) + 4)
		if width < 12 {
			width = 12
		}
		colName, _ := excelize.ColumnNumberToName(j + 1)
		_ = f.SetColWidth(sheet, colName, colName, width)
	}
	if len(t.Headers) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(t.Headers), 1)
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return nil, fmt.Errorf("xlsx: estilo encabezado: %w", err)
		}
		lastRow, _ := excelize.CoordinatesToCellName(len(t.Headers), len(t.Rows)+1)
		if err := f.AutoFilter(sheet, "A1:"+lastRow, nil); err != nil {
			return nil, fmt.Errorf("xlsx: autofiltro: %w", err)
		}
		if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
			return nil, fmt.Errorf("xlsx: congelar encabezado: %w", err)
		}
	}

	for i, r := range t.Rows {
		for j, v := range r {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellValue(sheet, cell, cellValue(v)); err != nil {
				return nil, fmt.Errorf("xlsx: fila %d: %w", i+1, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

// cellValue convierte a float64 los valores numéricos simples (sin ceros a la izquierda, que suelen ser códigos).
func cellValue(v string) any {
	if v == "" || (len(v) > 1 && v[0] == '0' && v[1] != '.') {
		return v
	}
	if n, err := strconv.ParseFloat(v, 64); err == nil {
		return n
	}
	return v
}

// sheetName Excel limita los nombres de hoja a 31 caracteres.
func sheetName(title string) string {
	if title == "" {
		return "Datos"
	}
	r := []rune(title)
	if len(r) > maxSheetName {
		r = r[:maxSheetName]
	}
	return string(r)
}
