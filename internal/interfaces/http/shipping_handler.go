package http

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/application/usecase"
)

// ShippingHandler opciones de envío de la tienda. Cada operación devuelve la lista completa.
type ShippingHandler struct {
	uc *usecase.ShippingUseCase
}

// NewShippingHandler construye el handler.
func NewShippingHandler(uc *usecase.ShippingUseCase) *ShippingHandler {
	return &ShippingHandler{uc: uc}
}

// List godoc
// @Summary      Listar opciones de envío
// @Tags         shipping
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ShippingOptionDTO
// @Router       /api/shipping-options [get]
func (h *ShippingHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetStoreID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Add godoc
// @Summary      Agregar opción de envío
// @Tags         shipping
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ShippingOptionDTO  true  "Nombre y tarifa"
// @Success      201   {array}   dto.ShippingOptionDTO
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shipping-options [post]
func (h *ShippingHandler) Add(c *fiber.Ctx) error {
	var in dto.ShippingOptionDTO
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Add(c.UserContext(), GetStoreID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Modificar opción de envío
// @Tags         shipping
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        name  path  string                           true  "Nombre actual"
// @Param        body  body  dto.UpdateShippingOptionRequest  true  "Campos a cambiar"
// @Success      200   {array}  dto.ShippingOptionDTO
// @Router       /api/shipping-options/{name} [put]
func (h *ShippingHandler) Update(c *fiber.Ctx) error {
	name, ok, err := shippingName(c)
	if !ok {
		return err
	}
	var in dto.UpdateShippingOptionRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetStoreID(c), name, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Remove godoc
// @Summary      Eliminar opción de envío
// @Tags         shipping
// @Security     Bearer
// @Produce      json
// @Param        name  path  string  true  "Nombre"
// @Success      200   {array}  dto.ShippingOptionDTO
// @Router       /api/shipping-options/{name} [delete]
func (h *ShippingHandler) Remove(c *fiber.Ctx) error {
	name, ok, err := shippingName(c)
	if !ok {
		return err
	}
	out, err := h.uc.Remove(c.UserContext(), GetStoreID(c), name)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// shippingName decodifica el nombre del path ("Envío%20express" -> "Envío express").
func shippingName(c *fiber.Ctx) (string, bool, error) {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return "", false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_PARAM", Message: "nombre de envío mal codificado",
		})
	}
	return name, true, nil
}
