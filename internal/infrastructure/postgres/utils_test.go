package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs_NumeraPlaceholders(t *testing.T) {
	w := newFilter("store_id = $1", "s1")
	w.add("status = ?", "active")
	w.add("(name ILIKE ? OR sku ILIKE ?)", "%cam%")

	assert.Equal(t, " WHERE store_id = $1 AND status = $2 AND (name ILIKE $3 OR sku ILIKE $3)", w.where())
	assert.Equal(t, []any{"s1", "active", "%cam%"}, w.args)

	page, args := w.page(0, -5)
	assert.Equal(t, " LIMIT $4 OFFSET $5", page)
	assert.Equal(t, []any{"s1", "active", "%cam%", 20, 0}, args)
	assert.Len(t, w.args, 3, "page no modifica los argumentos del filtro")
}

func TestLikeContains_EscapaComodines(t *testing.T) {
	assert.Equal(t, "%camisa%", likeContains("camisa"))
	assert.Equal(t, `%50\%%`, likeContains("50%"))
	assert.Equal(t, `%CAM\_01%`, likeContains("CAM_01"))
	assert.Equal(t, `%a\\b%`, likeContains(`a\b`))
}

func TestPageLimit_Tope(t *testing.T) {
	limit, offset := pageLimit(500, 40)
	assert.Equal(t, 100, limit)
	assert.Equal(t, 40, offset)
}

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/x?sslmode=disable", migrateURL("postgres://u:p@db:5432/x?sslmode=disable"))
	assert.Equal(t, "pgx5://u@db/x", migrateURL("postgresql://u@db/x"))
	assert.Equal(t, "pgx5://ya/listo", migrateURL("pgx5://ya/listo"))
}

func TestRedactDSN_OcultaPassword(t *testing.T) {
	out := redactDSN("postgres://app:secreto@db:5432/storefront")
	assert.NotContains(t, out, "secreto")
	assert.Contains(t, out, "app:")
}

func TestStockStatusCase(t *testing.T) {
	sql := stockStatusCase("i.quantity_available", "i.low_stock_threshold")
	assert.Contains(t, sql, "COALESCE(i.quantity_available, 0) <= 0 THEN 'out_of_stock'")
	assert.Contains(t, sql, "<= COALESCE(i.low_stock_threshold, 0) THEN 'low_stock'")
}
