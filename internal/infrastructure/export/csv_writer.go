// Package export escritores de tablas para la descarga de datasets (CSV y XLSX).
// El PDF tabular vive en infrastructure/pdf junto al resto de documentos Maroto.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	appexport "github.com/jhoicas/storefront-api/internal/application/export"
)

var _ appexport.Writer = CSVWriter{}

// utf8BOM hace que Excel abra el CSV con tildes y eñes correctas.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter CSV con encabezado, separado por comas y con BOM UTF-8.
type CSVWriter struct{}

func (CSVWriter) ContentType() string { return "text/csv; charset=utf-8" }
func (CSVWriter) Extension() string   { return "csv" }

func (CSVWriter) Write(_ context.Context, t appexport.Table) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Headers); err != nil {
		return nil, fmt.Errorf("csv: encabezado: %w", err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return nil, fmt.Errorf("csv: filas: %w", err)
	}
	return buf.Bytes(), nil
}
