package order_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/application/order"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/testutil/fakerepo"
)

const (
	storeID = "00000000-0000-0000-0000-00000000000a"
	otherID = "00000000-0000-0000-0000-00000000000b"
	mugID   = "00000000-0000-0000-0000-000000000101"
	shirtID = "00000000-0000-0000-0000-000000000102"
	draftID = "00000000-0000-0000-0000-000000000103"
	shirtM  = "00000000-0000-0000-0000-000000000201"
)

var tokenCfg = order.TokenConfig{Secret: "order-secret", ExpHours: 24, ViewURL: "https://tienda.test/pedido/"}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// seed: taza (10 u, 20% dto), camiseta con variante M (3 u, 50% propio), borrador; envío Estándar 8000.
func seed(t *testing.T) (*order.UseCase, *fakerepo.DB) {
	t.Helper()
	ctx := context.Background()
	db := fakerepo.New()
	require.NoError(t, db.Stores().Create(ctx, &entity.Store{ID: storeID, Slug: "tienda-a", Status: entity.StoreStatusActive}))
	require.NoError(t, db.Stores().CreateSettings(ctx, &entity.StoreSettings{
		StoreID:         storeID,
		Currency:        "COP",
		ShippingOptions: []entity.ShippingOption{{Name: "Estándar", Fee: dec("8000"), EstimatedDays: 3}},
	}))
	half := dec("50")
	products := db.Products()
	require.NoError(t, products.Create(ctx, &entity.Product{ID: mugID, StoreID: storeID, Name: "Taza", Slug: "taza", SKU: "TZ", Price: dec("20000"), DiscountPercent: dec("20"), Status: entity.ProductStatusActive}))
	require.NoError(t, products.Create(ctx, &entity.Product{ID: shirtID, StoreID: storeID, Name: "Camiseta", Slug: "camiseta", SKU: "CM", Price: dec("40000"), Status: entity.ProductStatusActive, HasVariants: true}))
	require.NoError(t, products.Create(ctx, &entity.Product{ID: draftID, StoreID: storeID, Name: "Borrador", Slug: "borrador", SKU: "BR", Price: dec("1"), Status: entity.ProductStatusDraft}))
	require.NoError(t, products.CreateVariant(ctx, &entity.ProductVariant{ID: shirtM, ProductID: shirtID, SKU: "CM-M", Attributes: map[string]string{"talla": "M"}, Price: dec("42000"), DiscountPercent: &half}))
	inv := db.Inventory()
	require.NoError(t, inv.Create(ctx, &entity.Inventory{ID: "inv-mug", StoreID: storeID, ProductID: mugID, QuantityAvailable: 10, LowStockThreshold: 2}))
	require.NoError(t, inv.Create(ctx, &entity.Inventory{ID: "inv-m", StoreID: storeID, ProductID: shirtID, VariantID: shirtM, QuantityAvailable: 3}))
	require.NoError(t, inv.Create(ctx, &entity.Inventory{ID: "inv-draft", StoreID: storeID, ProductID: draftID, QuantityAvailable: 3}))

	uc := order.NewUseCase(db.TxRunner(), db.Orders(), db.Products(), db.Customers(), db.Stores(), tokenCfg, nil)
	return uc, db
}

func stockOf(t *testing.T, db *fakerepo.DB, id string) *entity.Inventory {
	t.Helper()
	inv, err := db.Inventory().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, inv)
	return inv
}

func basicOrder() dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		CustomerName:   "Marta",
		CustomerEmail:  "Marta@Mail.com",
		ShippingOption: "estándar",
		Items: []dto.CreateOrderItemRequest{
			{ProductID: mugID, Quantity: 2},
			{ProductID: shirtID, VariantID: shirtM, Quantity: 1},
		},
	}
}

func TestCreate_CalculaTotalesYReserva(t *testing.T) {
	uc, db := seed(t)
	out, err := uc.Create(context.Background(), storeID, basicOrder())
	require.NoError(t, err)

	// Taza: 2 x 20000 = 40000, -20% = 32000. Camiseta M: 42000, -50% = 21000.
	assert.True(t, out.Subtotal.Equal(dec("82000")))
	assert.True(t, out.DiscountTotal.Equal(dec("29000")))
	assert.True(t, out.ShippingFee.Equal(dec("8000")))
	assert.True(t, out.Total.Equal(dec("61000")))
	assert.Equal(t, "Estándar", out.ShippingOption)
	assert.Equal(t, entity.OrderStatusPending, out.Status)
	assert.Equal(t, entity.PaymentStatusPending, out.PaymentStatus)
	assert.True(t, strings.HasPrefix(out.Number, "ORD-"))
	require.Len(t, out.Items, 2)
	assert.Equal(t, "Camiseta (M)", out.Items[1].Name)
	assert.Equal(t, "CM-M", out.Items[1].SKU)

	mug := stockOf(t, db, "inv-mug")
	assert.Equal(t, 8, mug.QuantityAvailable)
	assert.Equal(t, 2, mug.QuantityReserved)
	assert.Equal(t, 2, stockOf(t, db, "inv-m").QuantityAvailable)

	require.NotEmpty(t, out.CustomerID, "se crea el cliente por email")
	c, err := db.Customers().GetByEmail(context.Background(), storeID, "marta@mail.com")
	require.NoError(t, err)
	assert.Equal(t, out.CustomerID, c.ID)
}

func TestCreate_ReusaClienteExistente(t *testing.T) {
	uc, db := seed(t)
	ctx := context.Background()
	first, err := uc.Create(ctx, storeID, basicOrder())
	require.NoError(t, err)
	second, err := uc.Create(ctx, storeID, basicOrder())
	require.NoError(t, err)
	assert.Equal(t, first.CustomerID, second.CustomerID)
	assert.Equal(t, 1, db.Counts()["customers"])
}

func TestCreate_StockInsuficiente_NoReservaNada(t *testing.T) {
	uc, db := seed(t)
	in := basicOrder()
	in.Items[1].Quantity = 4

	_, err := uc.Create(context.Background(), storeID, in)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, 10, stockOf(t, db, "inv-mug").QuantityAvailable, "la reserva de la taza se deshace")
	assert.Equal(t, 0, stockOf(t, db, "inv-mug").QuantityReserved)
	counts := db.Counts()
	assert.Equal(t, 0, counts["orders"])
	assert.Equal(t, 0, counts["customers"])
}

func TestCreate_FallaInsercion_Rollback(t *testing.T) {
	uc, db := seed(t)
	db.FailOn("orders.Create", errors.New("db caída"))

	_, err := uc.Create(context.Background(), storeID, basicOrder())
	require.Error(t, err)
	assert.Equal(t, 10, stockOf(t, db, "inv-mug").QuantityAvailable)
}

func TestCreate_EntradasInvalidas(t *testing.T) {
	uc, _ := seed(t)
	ctx := context.Background()
	cases := map[string]func(*dto.CreateOrderRequest){
		"sin líneas":           func(in *dto.CreateOrderRequest) { in.Items = nil },
		"cantidad cero":        func(in *dto.CreateOrderRequest) { in.Items[0].Quantity = 0 },
		"envío desconocido":    func(in *dto.CreateOrderRequest) { in.ShippingOption = "Dron" },
		"sin variante":         func(in *dto.CreateOrderRequest) { in.Items[1].VariantID = "" },
		"variante sobrante":    func(in *dto.CreateOrderRequest) { in.Items[0].VariantID = shirtM },
		"producto desconocido": func(in *dto.CreateOrderRequest) { in.Items[0].ProductID = otherID },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := basicOrder()
			mutate(&in)
			_, err := uc.Create(ctx, storeID, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCheckout_SoloProductosActivos(t *testing.T) {
	uc, _ := seed(t)
	ctx := context.Background()
	in := basicOrder()
	in.Items = append(in.Items, dto.CreateOrderItemRequest{ProductID: draftID, Quantity: 1})

	_, err := uc.Checkout(ctx, storeID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, storeID, in)
	assert.NoError(t, err, "el panel sí puede vender borradores")
}

func TestCheckout_TokenYConsulta(t *testing.T) {
	uc, _ := seed(t)
	ctx := context.Background()
	out, err := uc.Checkout(ctx, storeID, basicOrder())
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)

	got, err := uc.GetByToken(ctx, out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.Order.ID, got.ID)

	_, err = uc.GetByToken(ctx, out.Token+"x")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	in := basicOrder()
	in.CustomerEmail = ""
	_, err = uc.Checkout(ctx, storeID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGenerateToken(t *testing.T) {
	uc, _ := seed(t)
	ctx := context.Background()
	o, err := uc.Create(ctx, storeID, basicOrder())
	require.NoError(t, err)

	tok, err := uc.GenerateToken(ctx, storeID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://tienda.test/pedido/"+tok.Token, tok.URL)

	_, err = uc.GenerateToken(ctx, otherID, o.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateStatus_CancelarLiberaReservas(t *testing.T) {
	uc, db := seed(t)
	ctx := context.Background()
	o, err := uc.Create(ctx, storeID, basicOrder())
	require.NoError(t, err)

	out, err := uc.UpdateStatus(ctx, storeID, o.ID, dto.UpdateOrderStatusRequest{Status: "cancelled"})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", out.Status)

	mug := stockOf(t, db, "inv-mug")
	assert.Equal(t, 10, mug.QuantityAvailable)
	assert.Equal(t, 0, mug.QuantityReserved)

	_, err = uc.UpdateStatus(ctx, storeID, o.ID, dto.UpdateOrderStatusRequest{Status: "confirmed"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestUpdateStatus_DespacharConsumeReservas(t *testing.T) {
	uc, db := seed(t)
	ctx := context.Background()
	o, err := uc.Create(ctx, storeID, basicOrder())
	require.NoError(t, err)

	_, err = uc.UpdateStatus(ctx, storeID, o.ID, dto.UpdateOrderStatusRequest{Status: "shipped"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "pending no pasa directo a shipped")

	for _, s := range []string{"confirmed", "shipped", "delivered"} {
		_, err = uc.UpdateStatus(ctx, storeID, o.ID, dto.UpdateOrderStatusRequest{Status: s})
		require.NoError(t, err, s)
	}
	mug := stockOf(t, db, "inv-mug")
	assert.Equal(t, 8, mug.QuantityAvailable)
	assert.Equal(t, 0, mug.QuantityReserved)
}

func TestUpdateStatus_OtraTienda(t *testing.T) {
	uc, _ := seed(t)
	o, err := uc.Create(context.Background(), storeID, basicOrder())
	require.NoError(t, err)
	_, err = uc.UpdateStatus(context.Background(), otherID, o.ID, dto.UpdateOrderStatusRequest{Status: "confirmed"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdatePaymentStatus(t *testing.T) {
	uc, _ := seed(t)
	ctx := context.Background()
	o, err := uc.Create(ctx, storeID, basicOrder())
	require.NoError(t, err)

	_, err = uc.UpdatePaymentStatus(ctx, storeID, o.ID, dto.UpdatePaymentStatusRequest{PaymentStatus: "refunded"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	out, err := uc.UpdatePaymentStatus(ctx, storeID, o.ID, dto.UpdatePaymentStatusRequest{PaymentStatus: "paid"})
	require.NoError(t, err)
	assert.Equal(t, "paid", out.PaymentStatus)
}

func TestList_Filtros(t *testing.T) {
	uc, _ := seed(t)
	ctx := context.Background()
	a, err := uc.Create(ctx, storeID, basicOrder())
	require.NoError(t, err)
	_, err = uc.Create(ctx, storeID, basicOrder())
	require.NoError(t, err)
	_, err = uc.UpdateStatus(ctx, storeID, a.ID, dto.UpdateOrderStatusRequest{Status: "confirmed"})
	require.NoError(t, err)

	list, err := uc.List(ctx, storeID, dto.OrderListQuery{Status: "confirmed"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, a.ID, list.Items[0].ID)

	_, err = uc.List(ctx, storeID, dto.OrderListQuery{From: "ayer"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
