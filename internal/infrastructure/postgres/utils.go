package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier lo implementan *pgxpool.Pool y pgx.Tx: los repositorios funcionan igual dentro o fuera de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == "23505"
}

// isForeignKeyViolation verifica si un error es una violación de llave foránea (23503).
func isForeignKeyViolation(err error) bool {
	return pgCode(err) == "23503"
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// nullIfEmpty convierte "" en NULL para columnas uuid opcionales.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// emptyIfNull lee columnas opcionales escaneadas como *string.
func emptyIfNull(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// likeContains arma el patrón "%texto%" escapando los comodines de LIKE; usar con ESCAPE '\'.
func likeContains(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// pageLimit normaliza limit/offset como lo hacen los handlers (20 por defecto, máx. 100).
func pageLimit(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// filterArgs arma cláusulas WHERE con placeholders numerados ($1, $2...) a medida que se agregan filtros.
type filterArgs struct {
	conds []string
	args  []any
}

func newFilter(base string, args ...any) *filterArgs {
	return &filterArgs{conds: []string{base}, args: args}
}

// add agrega una condición; cada "?" se reemplaza por el placeholder del nuevo argumento.
func (f *filterArgs) add(cond string, arg any) {
	f.args = append(f.args, arg)
	f.conds = append(f.conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(f.args))))
}

func (f *filterArgs) where() string {
	return " WHERE " + strings.Join(f.conds, " AND ")
}

// page devuelve "LIMIT $n OFFSET $m" con los argumentos agregados al final.
func (f *filterArgs) page(limit, offset int) (string, []any) {
	limit, offset = pageLimit(limit, offset)
	n := len(f.args)
	args := append(append([]any{}, f.args...), limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2), args
}
