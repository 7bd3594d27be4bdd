package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestMemorySessionStore_RevocaHastaVencer(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	s := NewMemorySessionStore()
	s.now = clock.now

	require.NoError(t, s.Revoke(ctx, "sess-1", time.Hour))
	revoked, err := s.IsRevoked(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, _ = s.IsRevoked(ctx, "otra")
	assert.False(t, revoked)

	clock.t = clock.t.Add(time.Hour)
	revoked, _ = s.IsRevoked(ctx, "sess-1")
	assert.False(t, revoked, "al vencer el token la marca deja de importar")
}

func TestMemorySessionStore_TTLNoPositivo(t *testing.T) {
	s := NewMemorySessionStore()
	require.NoError(t, s.Revoke(context.Background(), "sess-1", 0))
	assert.Empty(t, s.revoked)
}

func TestMemoryStoreCache_GetSetInvalidate(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	c := NewMemoryStoreCache()
	c.now = clock.now

	got, err := c.Get(ctx, "tienda-uno")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, &entity.Store{ID: "s1", Slug: "tienda-uno", Name: "Tienda Uno"}))
	got, _ = c.Get(ctx, "tienda-uno")
	require.NotNil(t, got)
	assert.Equal(t, "Tienda Uno", got.Name)

	got.Name = "mutada"
	again, _ := c.Get(ctx, "tienda-uno")
	assert.Equal(t, "Tienda Uno", again.Name, "Get devuelve una copia")

	require.NoError(t, c.Invalidate(ctx, "tienda-uno"))
	got, _ = c.Get(ctx, "tienda-uno")
	assert.Nil(t, got)
}

func TestMemoryStoreCache_Expira(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	c := NewMemoryStoreCache()
	c.now = clock.now

	require.NoError(t, c.Set(ctx, &entity.Store{ID: "s1", Slug: "tienda-uno"}))
	clock.t = clock.t.Add(StoreTTL + time.Second)
	got, _ := c.Get(ctx, "tienda-uno")
	assert.Nil(t, got)
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "session:revoked:abc", sessionKey("abc"))
}
