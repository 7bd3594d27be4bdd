package export

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	appexport "github.com/jhoicas/storefront-api/internal/application/export"
)

var sample = appexport.Table{
	Title:   "Productos",
	Headers: []string{"Nombre", "SKU", "Precio"},
	Rows: [][]string{
		{"Camiseta, algodón", "CAM-1", "50000.00"},
		{"Gorra \"pro\"", "0042", "15000"},
	},
}

func TestCSVWriter(t *testing.T) {
	out, err := CSVWriter{}.Write(context.Background(), sample)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, utf8BOM))
	body := string(out[len(utf8BOM):])
	assert.Equal(t, "Nombre,SKU,Precio\n\"Camiseta, algodón\",CAM-1,50000.00\n\"Gorra \"\"pro\"\"\",0042,15000\n", body)
	assert.Equal(t, "csv", CSVWriter{}.Extension())
}

func TestXLSXWriter(t *testing.T) {
	out, err := XLSXWriter{}.Write(context.Background(), sample)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Productos")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Nombre", "SKU", "Precio"}, rows[0])
	assert.Equal(t, "0042", rows[2][1], "los códigos con cero a la izquierda quedan como texto")

	typ, err := f.GetCellType("Productos", "C2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, typ)
}

func TestCellValue(t *testing.T) {
	assert.Equal(t, 12.5, cellValue("12.5"))
	assert.Equal(t, 0.5, cellValue("0.5"))
	assert.Equal(t, "007", cellValue("007"))
	assert.Equal(t, "abc", cellValue("abc"))
	assert.Equal(t, "", cellValue(""))
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Datos", sheetName(""))
	assert.Len(t, []rune(sheetName("Un título de hoja demasiado largo para Excel")), 31)
}
