package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/application/order"
	"github.com/jhoicas/storefront-api/internal/application/usecase"
)

// PublicHandler vitrina pública: tienda por slug, catálogo activo, checkout y consulta de pedido.
type PublicHandler struct {
	stores   *usecase.StoreUseCase
	products *usecase.ProductUseCase
	orders   *order.UseCase
}

// NewPublicHandler construye el handler.
func NewPublicHandler(stores *usecase.StoreUseCase, products *usecase.ProductUseCase, orders *order.UseCase) *PublicHandler {
	return &PublicHandler{stores: stores, products: products, orders: orders}
}

// GetStore godoc
// @Summary      Tienda pública por slug
// @Tags         public
// @Produce      json
// @Param        slug  path  string  true  "Slug de la tienda"
// @Success      200   {object}  dto.PublicStoreResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/public/stores/{slug} [get]
func (h *PublicHandler) GetStore(c *fiber.Ctx) error {
	out, err := h.stores.GetPublic(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListProducts godoc
// @Summary      Catálogo público (solo productos activos)
// @Tags         public
// @Produce      json
// @Param        slug         path   string  true   "Slug de la tienda"
// @Param        category_id  query  string  false  "Categoría"
// @Param        search       query  string  false  "Nombre o SKU"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200          {object}  dto.ProductListResponse
// @Failure      404          {object}  dto.ErrorResponse
// @Router       /api/public/stores/{slug}/products [get]
func (h *PublicHandler) ListProducts(c *fiber.Ctx) error {
	var q dto.ProductListQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	storeID, err := h.stores.ResolveSlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.products.ListPublic(c.UserContext(), storeID, q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Checkout godoc
// @Summary      Crear pedido desde la vitrina
// @Description  Reserva el stock de todas las líneas en una sola transacción. Devuelve el token de consulta del pedido.
// @Tags         public
// @Accept       json
// @Produce      json
// @Param        slug  path  string                  true  "Slug de la tienda"
// @Param        body  body  dto.CreateOrderRequest  true  "Cliente, envío y líneas"
// @Success      201   {object}  dto.CheckoutResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/public/stores/{slug}/orders [post]
func (h *PublicHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	storeID, err := h.stores.ResolveSlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.orders.Checkout(c.UserContext(), storeID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetOrder godoc
// @Summary      Consultar pedido con su token
// @Tags         public
// @Produce      json
// @Param        token  path  string  true  "Token del pedido"
// @Success      200    {object}  dto.OrderResponse
// @Failure      401    {object}  dto.ErrorResponse
// @Router       /api/public/orders/{token} [get]
func (h *PublicHandler) GetOrder(c *fiber.Ctx) error {
	out, err := h.orders.GetByToken(c.UserContext(), c.Params("token"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
