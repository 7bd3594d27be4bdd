package ports

import (
	"context"
	"io"
)

// ObjectStorage puerto de salida para archivos públicos de la tienda (logo, banner).
// Cualquier adaptador (S3, MinIO, R2, fake de tests) debe implementar esta interfaz.
type ObjectStorage interface {
	// Upload guarda el objeto bajo key y devuelve su URL pública.
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	// Delete elimina el objeto. Borrar una key inexistente no es error.
	Delete(ctx context.Context, key string) error
}
