package ports

import (
	"context"
	"time"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// SessionStore registro de sesiones revocadas (logout). Las claves viven hasta que el JWT expira.
type SessionStore interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// StoreCache caché de tiendas por slug para el catálogo público.
// Get devuelve (nil, nil) si no hay entrada.
type StoreCache interface {
	Get(ctx context.Context, slug string) (*entity.Store, error)
	Set(ctx context.Context, store *entity.Store) error
	Invalidate(ctx context.Context, slug string) error
}
