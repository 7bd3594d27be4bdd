package export

import "context"

// Table dataset tabular listo para escribir en cualquier formato.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Writer renderiza una tabla en un formato concreto (csv, xlsx, pdf).
type Writer interface {
	Write(ctx context.Context, t Table) ([]byte, error)
	ContentType() string
	Extension() string
}
