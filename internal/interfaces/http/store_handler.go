package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/application/usecase"
)

// StoreHandler tienda de la sesión: datos, configuración e imágenes.
type StoreHandler struct {
	uc *usecase.StoreUseCase
}

// NewStoreHandler construye el handler.
func NewStoreHandler(uc *usecase.StoreUseCase) *StoreHandler {
	return &StoreHandler{uc: uc}
}

// Get godoc
// @Summary      Tienda del usuario
// @Tags         store
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StoreResponse
// @Router       /api/store [get]
func (h *StoreHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetStoreID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar nombre, slug o descripción
// @Tags         store
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateStoreRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.StoreResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/store [put]
func (h *StoreHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateStoreRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetStoreID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UploadImage godoc
// @Summary      Subir logo o banner
// @Tags         store
// @Security     Bearer
// @Accept       mpfd
// @Produce      json
// @Param        kind  path      string  true  "logo | banner"
// @Param        file  formData  file    true  "Imagen"
// @Success      200   {object}  dto.StoreResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/store/images/{kind} [post]
func (h *StoreHandler) UploadImage(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "archivo requerido en el campo file"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "no se pudo leer el archivo"})
	}
	defer f.Close()

	out, err := h.uc.UploadImage(c.UserContext(), GetStoreID(c), c.Params("kind"), &dto.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetSettings godoc
// @Summary      Configuración de la tienda
// @Tags         store
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StoreSettingsResponse
// @Router       /api/store/settings [get]
func (h *StoreHandler) GetSettings(c *fiber.Ctx) error {
	out, err := h.uc.GetSettings(c.UserContext(), GetStoreID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateSettings godoc
// @Summary      Actualizar configuración (owner/admin)
// @Tags         store
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateSettingsRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.StoreSettingsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/store/settings [put]
func (h *StoreHandler) UpdateSettings(c *fiber.Ctx) error {
	var in dto.UpdateSettingsRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateSettings(c.UserContext(), GetStoreID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
