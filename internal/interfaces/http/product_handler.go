package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/application/usecase"
)

// ProductHandler maneja las peticiones HTTP de productos y variantes (protegido).
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create godoc
// @Summary      Crear producto
// @Description  Con variantes cada una recibe su fila de inventario; sin variantes el stock inicial queda a nivel producto.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetStoreID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto con variantes e inventario
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetStoreID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        category_id   query  string  false  "Categoría"
// @Param        status        query  string  false  "draft | active | archived"
// @Param        search        query  string  false  "Nombre o SKU"
// @Param        stock_status  query  string  false  "out_of_stock | low_stock | in_stock"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200           {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var q dto.ProductListQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	out, err := h.uc.List(c.UserContext(), GetStoreID(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetStoreID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producto
// @Tags         products
// @Security     Bearer
// @Param        id   path  string  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetStoreID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddVariant godoc
// @Summary      Agregar variante
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del producto"
// @Param        body  body  dto.CreateVariantRequest  true  "SKU, atributos, precio"
// @Success      201   {object}  dto.ProductResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/variants [post]
func (h *ProductHandler) AddVariant(c *fiber.Ctx) error {
	var in dto.CreateVariantRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.AddVariant(c.UserContext(), GetStoreID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateVariant godoc
// @Summary      Actualizar variante
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id         path  string                    true  "ID del producto"
// @Param        variantId  path  string                    true  "ID de la variante"
// @Param        body       body  dto.UpdateVariantRequest  true  "Campos a cambiar"
// @Success      200        {object}  dto.ProductResponse
// @Router       /api/products/{id}/variants/{variantId} [put]
func (h *ProductHandler) UpdateVariant(c *fiber.Ctx) error {
	var in dto.UpdateVariantRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateVariant(c.UserContext(), GetStoreID(c), c.Params("id"), c.Params("variantId"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteVariant godoc
// @Summary      Eliminar variante
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id         path  string  true  "ID del producto"
// @Param        variantId  path  string  true  "ID de la variante"
// @Success      200        {object}  dto.ProductResponse
// @Failure      409        {object}  dto.ErrorResponse
// @Router       /api/products/{id}/variants/{variantId} [delete]
func (h *ProductHandler) DeleteVariant(c *fiber.Ctx) error {
	out, err := h.uc.DeleteVariant(c.UserContext(), GetStoreID(c), c.Params("id"), c.Params("variantId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
