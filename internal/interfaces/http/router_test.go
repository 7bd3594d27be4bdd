package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storefront-api/internal/application/analytics"
	"github.com/jhoicas/storefront-api/internal/application/auth"
	"github.com/jhoicas/storefront-api/internal/application/billing"
	"github.com/jhoicas/storefront-api/internal/application/dto"
	appexport "github.com/jhoicas/storefront-api/internal/application/export"
	"github.com/jhoicas/storefront-api/internal/application/inventory"
	"github.com/jhoicas/storefront-api/internal/application/order"
	"github.com/jhoicas/storefront-api/internal/application/usecase"
	"github.com/jhoicas/storefront-api/internal/infrastructure/cache"
	infraexport "github.com/jhoicas/storefront-api/internal/infrastructure/export"
	"github.com/jhoicas/storefront-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/storefront-api/internal/interfaces/http"
	"github.com/jhoicas/storefront-api/internal/testutil/fakerepo"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

type testServer struct {
	app  *fiber.App
	db   *fakerepo.DB
	logs *bytes.Buffer
}

// newTestServer arma la API completa sobre repositorios en memoria.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := fakerepo.New()
	logs := &bytes.Buffer{}
	log := logger.FromWriter(logs)
	sessions := cache.NewMemorySessionStore()
	jwtCfg := auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}

	orderUC := order.NewUseCase(db.TxRunner(), db.Orders(), db.Products(), db.Customers(), db.Stores(),
		order.TokenConfig{Secret: "order-secret", ExpHours: 24, ViewURL: "https://tienda.test/pedido/"}, log)
	deps := apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(db.Users(), db.Stores(), sessions, jwtCfg),
		OnboardingUC: auth.NewOnboardingUseCase(db.Users(), db.Stores(), fakerepo.NewStorage(), jwtCfg,
			auth.StoreDefaults{Currency: "COP", LowStockThreshold: 5}, log),
		StoreUC:     usecase.NewStoreUseCase(db.Stores(), cache.NewMemoryStoreCache(), fakerepo.NewStorage(), log),
		ShippingUC:  usecase.NewShippingUseCase(db.TxRunner(), db.Stores()),
		CategoryUC:  usecase.NewCategoryUseCase(db.Categories()),
		ProductUC:   usecase.NewProductUseCase(db.TxRunner(), db.Products(), db.Inventory(), db.Categories(), db.Stores()),
		CustomerUC:  usecase.NewCustomerUseCase(db.Customers()),
		ExpenseUC:   usecase.NewExpenseUseCase(db.Expenses()),
		InventoryUC: inventory.NewUseCase(db.TxRunner(), db.Inventory(), log),
		OrderUC:     orderUC,
		InvoicePDF:  billing.NewPDFUseCase(db.Orders(), db.Stores(), orderUC, pdf.NewMarotoPDFGenerator()),
		ExportUC: appexport.NewUseCase(appexport.Repositories{
			Products:   db.Products(),
			Categories: db.Categories(),
			Inventory:  db.Inventory(),
			Orders:     db.Orders(),
			Customers:  db.Customers(),
			Expenses:   db.Expenses(),
		}, infraexport.CSVWriter{}, infraexport.XLSXWriter{}, pdf.NewTableWriter()),
		DashboardUC: analytics.NewDashboardUseCase(fakerepo.NewAnalytics(db)),
		JWTSecret:   testJWTSecret,
		Sessions:    sessions,
	}

	app := apphttp.NewApp("storefront-test", log)
	apphttp.Router(app, deps)
	return &testServer{app: app, db: db, logs: logs}
}

// call hace la petición y devuelve el estado y el cuerpo. body nil = sin cuerpo.
func (s *testServer) call(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

// signupOwner registra dueña con tienda "Café Ñandú" y devuelve la respuesta.
func (s *testServer) signupOwner(t *testing.T) dto.SignupResponse {
	t.Helper()
	resp, raw := s.call(t, http.MethodPost, "/api/auth/signup", "", fiber.Map{
		"email":    "ana@tienda.co",
		"password": "supersecreta",
		"name":     "Ana",
		"store":    fiber.Map{"name": "Café Ñandú"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	out := decode[dto.SignupResponse](t, raw)
	require.NotNil(t, out.Store)
	return out
}

func TestFlujo_SignupCatalogoCheckoutYConsulta(t *testing.T) {
	s := newTestServer(t)
	owner := s.signupOwner(t)
	assert.Equal(t, "cafe-nandu", owner.Store.Slug)

	resp, raw := s.call(t, http.MethodPost, "/api/shipping-options", owner.Token, fiber.Map{"name": "Envío express", "fee": 5000, "estimated_days": 1})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	resp, raw = s.call(t, http.MethodPost, "/api/products", owner.Token, fiber.Map{
		"name": "Taza", "sku": "TZ", "price": 20000, "status": "active", "initial_stock": 5,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	product := decode[dto.ProductResponse](t, raw)

	resp, raw = s.call(t, http.MethodGet, "/api/public/stores/cafe-nandu/products", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	catalog := decode[dto.ProductListResponse](t, raw)
	require.Len(t, catalog.Items, 1)

	resp, raw = s.call(t, http.MethodPost, "/api/public/stores/cafe-nandu/orders", "", fiber.Map{
		"customer_name":   "Marta",
		"customer_email":  "marta@mail.com",
		"shipping_option": "envío EXPRESS",
		"items":           []fiber.Map{{"product_id": product.ID, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	checkout := decode[dto.CheckoutResponse](t, raw)
	assert.True(t, checkout.Order.Total.Equal(decimal.NewFromInt(45000)), checkout.Order.Total.String())
	assert.Equal(t, "Envío express", checkout.Order.ShippingOption)
	require.NotEmpty(t, checkout.Token)

	resp, raw = s.call(t, http.MethodGet, "/api/public/orders/"+checkout.Token, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, checkout.Order.ID, decode[dto.OrderResponse](t, raw).ID)

	resp, raw = s.call(t, http.MethodGet, "/api/inventory/low-stock", owner.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	low := decode[[]dto.InventoryResponse](t, raw)
	require.Len(t, low, 1, "quedan 3 disponibles, umbral 5")

	resp, raw = s.call(t, http.MethodGet, "/api/orders/"+checkout.Order.ID+"/invoice", owner.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "factura_")
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	resp, raw = s.call(t, http.MethodPut, "/api/orders/"+checkout.Order.ID+"/status", owner.Token, fiber.Map{"status": "delivered"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "pending -> delivered no es válido")
	assert.Equal(t, "INVALID_TRANSITION", decode[dto.ErrorResponse](t, raw).Code)
}

func TestCheckout_SinStockResponde409(t *testing.T) {
	s := newTestServer(t)
	owner := s.signupOwner(t)
	_, raw := s.call(t, http.MethodPost, "/api/products", owner.Token, fiber.Map{
		"name": "Vaso", "sku": "VS", "price": 1000, "status": "active", "initial_stock": 1,
	})
	product := decode[dto.ProductResponse](t, raw)

	resp, raw := s.call(t, http.MethodPost, "/api/public/stores/cafe-nandu/orders", "", fiber.Map{
		"customer_name":  "Marta",
		"customer_email": "marta@mail.com",
		"items":          []fiber.Map{{"product_id": product.ID, "quantity": 2}},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", decode[dto.ErrorResponse](t, raw).Code)
}

func TestValidacion_DetallePorCampo(t *testing.T) {
	s := newTestServer(t)
	owner := s.signupOwner(t)

	resp, raw := s.call(t, http.MethodPost, "/api/orders", owner.Token, fiber.Map{
		"customer_email": "no-es-email",
		"items":          []fiber.Map{{"product_id": "x", "quantity": 0}},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	out := decode[dto.ErrorResponse](t, raw)
	assert.Equal(t, "VALIDATION_ERROR", out.Code)

	fields := map[string]string{}
	for _, d := range out.Details {
		fields[d.Field] = d.Message
	}
	assert.Equal(t, "debe ser un email válido", fields["customer_email"])
	assert.Equal(t, "debe ser un UUID", fields["items[0].product_id"])
	assert.Equal(t, "es obligatorio", fields["items[0].quantity"])
}

func TestValidacion_CuerpoMalFormado(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSignup_EmailDuplicado(t *testing.T) {
	s := newTestServer(t)
	s.signupOwner(t)
	resp, raw := s.call(t, http.MethodPost, "/api/auth/signup", "", fiber.Map{"email": "ANA@tienda.co", "password": "otraclave123"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "EMAIL_EXISTS", decode[dto.ErrorResponse](t, raw).Code)
}

func TestLogin_YLogoutRevocaLaSesion(t *testing.T) {
	s := newTestServer(t)
	s.signupOwner(t)

	resp, raw := s.call(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "ana@tienda.co", "password": "mala-clave"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, string(raw))

	resp, raw = s.call(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "ana@tienda.co", "password": "supersecreta"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	login := decode[dto.LoginResponse](t, raw)

	resp, raw = s.call(t, http.MethodGet, "/api/auth/session", login.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	session := decode[dto.SessionResponse](t, raw)
	require.NotNil(t, session.Store)
	assert.Equal(t, "cafe-nandu", session.Store.Slug)

	resp, _ = s.call(t, http.MethodPost, "/api/auth/logout", login.Token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, raw = s.call(t, http.MethodGet, "/api/auth/session", login.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "SESSION_REVOKED", decode[dto.ErrorResponse](t, raw).Code)
}

func TestUsuarioSinTienda_SoloSesion(t *testing.T) {
	s := newTestServer(t)
	resp, raw := s.call(t, http.MethodPost, "/api/auth/signup", "", fiber.Map{"email": "luis@mail.co", "password": "supersecreta"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	out := decode[dto.SignupResponse](t, raw)
	assert.Nil(t, out.Store)

	resp, _ = s.call(t, http.MethodGet, "/api/auth/session", out.Token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw = s.call(t, http.MethodGet, "/api/products", out.Token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "NO_STORE", decode[dto.ErrorResponse](t, raw).Code)
}

func TestStaff_NoModificaConfiguracion(t *testing.T) {
	s := newTestServer(t)
	owner := s.signupOwner(t)
	staff := strings.TrimPrefix(signToken(t, owner.Store.ID, "staff"), "Bearer ")

	resp, raw := s.call(t, http.MethodGet, "/api/store/settings", staff, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	resp, raw = s.call(t, http.MethodPut, "/api/store/settings", staff, fiber.Map{"currency": "USD"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decode[dto.ErrorResponse](t, raw).Code)

	resp, _ = s.call(t, http.MethodPost, "/api/expenses", staff, fiber.Map{"description": "Arriendo", "amount": 100})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestShipping_NombreCodificadoEnLaRuta(t *testing.T) {
	s := newTestServer(t)
	owner := s.signupOwner(t)
	resp, _ := s.call(t, http.MethodPost, "/api/shipping-options", owner.Token, fiber.Map{"name": "Envío express", "fee": 5000})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, raw := s.call(t, http.MethodPut, "/api/shipping-options/Env%C3%ADo%20express", owner.Token, fiber.Map{"fee": 7000})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	opts := decode[[]dto.ShippingOptionDTO](t, raw)
	require.Len(t, opts, 1)
	assert.True(t, opts[0].Fee.Equal(decimal.NewFromInt(7000)))

	resp, raw = s.call(t, http.MethodDelete, "/api/shipping-options/Env%C3%ADo%20express", owner.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Empty(t, decode[[]dto.ShippingOptionDTO](t, raw))

	resp, _ = s.call(t, http.MethodDelete, "/api/shipping-options/Inexistente", owner.Token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExport_CSVConCabecerasDeDescarga(t *testing.T) {
	s := newTestServer(t)
	owner := s.signupOwner(t)
	_, _ = s.call(t, http.MethodPost, "/api/products", owner.Token, fiber.Map{"name": "Taza", "sku": "TZ", "price": 20000, "initial_stock": 3})

	resp, raw := s.call(t, http.MethodGet, "/api/exports/products", owner.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), `attachment; filename="products_`)
	assert.Contains(t, string(raw), "Taza,TZ")

	resp, raw = s.call(t, http.MethodGet, "/api/exports/planetas?format=csv", owner.Token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(raw))
}

func TestPublic_TiendaInexistente(t *testing.T) {
	s := newTestServer(t)
	resp, raw := s.call(t, http.MethodGet, "/api/public/stores/no-existe", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, raw).Code)

	resp, _ = s.call(t, http.MethodGet, "/api/public/orders/token-falso", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRutaInexistente_RespondeJSON(t *testing.T) {
	s := newTestServer(t)
	resp, raw := s.call(t, http.MethodGet, "/nada", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, raw).Code)
	assert.Contains(t, s.logs.String(), `"path":"/nada"`)
}

func TestDashboard_ResumenDeLaTienda(t *testing.T) {
	s := newTestServer(t)
	owner := s.signupOwner(t)

	resp, raw := s.call(t, http.MethodGet, "/api/dashboard", owner.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	out := decode[dto.DashboardSummaryDTO](t, raw)
	assert.True(t, out.TodaySales.IsZero())
}
