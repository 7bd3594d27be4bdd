package auth_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/storefront-api/internal/application/auth"
	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/infrastructure/cache"
	"github.com/jhoicas/storefront-api/internal/infrastructure/storage"
	"github.com/jhoicas/storefront-api/internal/testutil/fakerepo"
	"github.com/jhoicas/storefront-api/pkg/jwt"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

var testJWT = auth.JWTConfig{Secret: "test-secret", ExpMinutes: 60, Issuer: "storefront-test"}

type fixture struct {
	db       *fakerepo.DB
	files    *fakerepo.Storage
	logs     *bytes.Buffer
	onboard  *auth.OnboardingUseCase
	sessions *cache.MemorySessionStore
	auth     *auth.AuthUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		db:       fakerepo.New(),
		files:    fakerepo.NewStorage(),
		logs:     &bytes.Buffer{},
		sessions: cache.NewMemorySessionStore(),
	}
	f.onboard = auth.NewOnboardingUseCase(f.db.Users(), f.db.Stores(), f.files, testJWT,
		auth.StoreDefaults{Currency: "COP", LowStockThreshold: 5}, logger.FromWriter(f.logs))
	f.auth = auth.NewAuthUseCase(f.db.Users(), f.db.Stores(), f.sessions, testJWT)
	return f
}

func signup(withStore bool) dto.SignupRequest {
	in := dto.SignupRequest{Email: "Ana@Tienda.co", Password: "supersecreta", Name: "Ana"}
	if withStore {
		in.Store = &dto.SignupStoreRequest{Name: "Café Ñandú"}
	}
	return in
}

func logo() *dto.Upload {
	body := []byte("\x89PNG fake")
	return &dto.Upload{Filename: "Logo.PNG", ContentType: "image/png", Size: int64(len(body)), Body: bytes.NewReader(body)}
}

func TestOnboarding_CreaUsuarioTiendaYConfiguracion(t *testing.T) {
	f := newFixture(t)
	in := signup(true)
	in.Logo = logo()

	out, err := f.onboard.CreateUser(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "ana@tienda.co", out.User.Email)
	assert.Equal(t, entity.RoleOwner, out.User.Role)
	require.NotNil(t, out.Store)
	assert.Equal(t, "cafe-nandu", out.Store.Slug)
	assert.Equal(t, out.Store.ID, out.User.StoreID)
	assert.True(t, strings.HasPrefix(out.Store.LogoURL, "https://cdn.test/stores/"+out.Store.ID+"/logo-"))
	assert.True(t, strings.HasSuffix(out.Store.LogoURL, ".png"))
	assert.Empty(t, out.Store.BannerURL)

	counts := f.db.Counts()
	assert.Equal(t, 1, counts["users"])
	assert.Equal(t, 1, counts["stores"])
	assert.Equal(t, 1, counts["settings"])
	assert.Equal(t, 1, f.files.Len())

	settings, err := f.db.Stores().GetSettings(context.Background(), out.Store.ID)
	require.NoError(t, err)
	assert.Equal(t, "COP", settings.Currency)
	assert.Equal(t, 5, settings.LowStockThreshold)
	assert.Empty(t, settings.ShippingOptions)

	claims, err := jwt.Parse(testJWT.Secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, claims.UserID)
	assert.Equal(t, out.Store.ID, claims.StoreID)
	assert.NotEmpty(t, claims.SessionID())
}

func TestOnboarding_SinTienda(t *testing.T) {
	f := newFixture(t)
	out, err := f.onboard.CreateUser(context.Background(), signup(false))
	require.NoError(t, err)
	assert.Nil(t, out.Store)
	assert.Empty(t, out.User.StoreID)
	assert.Equal(t, 0, f.db.Counts()["stores"])
}

func TestOnboarding_EntradaInvalida(t *testing.T) {
	f := newFixture(t)
	in := signup(false)
	in.Password = "corta"
	_, err := f.onboard.CreateUser(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = signup(true)
	in.Store.Slug = "Mal Slug!"
	_, err = f.onboard.CreateUser(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, f.db.Counts()["users"], "el usuario creado se compensa")
}

func TestOnboarding_EmailDuplicado(t *testing.T) {
	f := newFixture(t)
	_, err := f.onboard.CreateUser(context.Background(), signup(false))
	require.NoError(t, err)

	in := signup(false)
	in.Email = "ANA@tienda.co"
	_, err = f.onboard.CreateUser(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	assert.Equal(t, 1, f.db.Counts()["users"])
}

func TestOnboarding_SlugTomado_CompensaUsuario(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Stores().Create(context.Background(), &entity.Store{ID: "s-0", Slug: "cafe-nandu"}))

	_, err := f.onboard.CreateUser(context.Background(), signup(true))
	assert.ErrorIs(t, err, domain.ErrSlugTaken)

	counts := f.db.Counts()
	assert.Equal(t, 0, counts["users"])
	assert.Equal(t, 1, counts["stores"])
	assert.Contains(t, f.logs.String(), "paso revertido")
}

func TestOnboarding_FallaConfiguracion_CompensaTiendaYUsuario(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("boom")
	f.db.FailOn("stores.CreateSettings", boom)

	_, err := f.onboard.CreateUser(context.Background(), signup(true))
	assert.ErrorIs(t, err, boom, "se devuelve el error original")

	counts := f.db.Counts()
	assert.Equal(t, 0, counts["users"])
	assert.Equal(t, 0, counts["stores"])
	assert.Equal(t, 0, counts["settings"])
}

func TestOnboarding_FallaTrasSubida_BorraArchivos(t *testing.T) {
	f := newFixture(t)
	f.db.FailOn("stores.Update", errors.New("db caída"))
	in := signup(true)
	in.Logo = logo()
	in.Banner = logo()

	_, err := f.onboard.CreateUser(context.Background(), in)
	require.Error(t, err)

	assert.Equal(t, 0, f.files.Len())
	require.Len(t, f.files.Deleted, 2)
	assert.Contains(t, f.files.Deleted[0], "/banner-", "los archivos se borran en orden inverso")
	assert.Contains(t, f.files.Deleted[1], "/logo-")
	counts := f.db.Counts()
	assert.Equal(t, 0, counts["settings"])
	assert.Equal(t, 0, counts["stores"])
	assert.Equal(t, 0, counts["users"])
}

func TestOnboarding_ArchivoNoImagen(t *testing.T) {
	f := newFixture(t)
	in := signup(true)
	in.Logo = &dto.Upload{Filename: "x.exe", ContentType: "application/octet-stream", Body: strings.NewReader("MZ")}

	_, err := f.onboard.CreateUser(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, f.db.Counts()["stores"])
}

func TestOnboarding_AlmacenamientoDeshabilitado(t *testing.T) {
	db := fakerepo.New()
	uc := auth.NewOnboardingUseCase(db.Users(), db.Stores(), storage.Disabled{}, testJWT, auth.StoreDefaults{Currency: "COP"}, nil)
	in := signup(true)
	in.Logo = logo()

	_, err := uc.CreateUser(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrStorageDisabled)
	assert.Equal(t, 0, db.Counts()["users"])
}

func TestLogin_CredencialesCorrectas(t *testing.T) {
	f := newFixture(t)
	_, err := f.onboard.CreateUser(context.Background(), signup(true))
	require.NoError(t, err)

	out, err := f.auth.Login(context.Background(), dto.LoginRequest{Email: "ana@tienda.co", Password: "supersecreta"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.NotEmpty(t, out.User.StoreID)
	assert.True(t, out.ExpiresAt.After(time.Now()))
}

func TestLogin_PasswordIncorrectoOEmailDesconocido(t *testing.T) {
	f := newFixture(t)
	_, err := f.onboard.CreateUser(context.Background(), signup(false))
	require.NoError(t, err)

	_, err = f.auth.Login(context.Background(), dto.LoginRequest{Email: "ana@tienda.co", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = f.auth.Login(context.Background(), dto.LoginRequest{Email: "nadie@tienda.co", Password: "supersecreta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	f := newFixture(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("supersecreta"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, f.db.Users().Create(context.Background(), &entity.User{
		ID: "u-1", Email: "baja@tienda.co", PasswordHash: string(hash), Role: entity.RoleStaff, Status: entity.UserStatusInactive,
	}))

	_, err = f.auth.Login(context.Background(), dto.LoginRequest{Email: "baja@tienda.co", Password: "supersecreta"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestLogoutYSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	out, err := f.onboard.CreateUser(ctx, signup(true))
	require.NoError(t, err)
	claims, err := jwt.Parse(testJWT.Secret, out.Token)
	require.NoError(t, err)

	sess, err := f.auth.Session(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, sess.User.ID)
	require.NotNil(t, sess.Store)
	assert.Equal(t, "cafe-nandu", sess.Store.Slug)

	require.NoError(t, f.auth.Logout(ctx, claims.SessionID(), claims.ExpiresAtTime()))
	_, err = f.auth.Session(ctx, claims)
	assert.ErrorIs(t, err, domain.ErrSessionRevoked)
}

func TestLogout_TokenVencidoNoRegistra(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.auth.Logout(context.Background(), "sid", time.Now().Add(-time.Minute)))
	revoked, err := f.sessions.IsRevoked(context.Background(), "sid")
	require.NoError(t, err)
	assert.False(t, revoked)

	assert.ErrorIs(t, f.auth.Logout(context.Background(), "", time.Now().Add(time.Hour)), domain.ErrUnauthorized)
}

func TestKeyFromURL(t *testing.T) {
	const id = "00000000-0000-0000-0000-00000000000a"
	key := auth.StoreFileKey(id, "logo", "Logo.PNG")

	got, ok := auth.KeyFromURL(id, "https://cdn.test/"+key)
	require.True(t, ok)
	assert.Equal(t, key, got)

	got, ok = auth.KeyFromURL(id, "https://bucket.s3.amazonaws.com/"+key+"?v=2")
	require.True(t, ok)
	assert.Equal(t, key, got)

	_, ok = auth.KeyFromURL(id, "https://cdn.test/stores/otra-tienda/logo-x.png")
	assert.False(t, ok)
	_, ok = auth.KeyFromURL(id, "")
	assert.False(t, ok)
}
