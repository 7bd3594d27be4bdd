package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/storefront-api/internal/application/export"
)

// ExportHandler descarga de datasets de la tienda en CSV, XLSX o PDF.
type ExportHandler struct {
	uc *export.UseCase
}

// NewExportHandler construye el handler.
func NewExportHandler(uc *export.UseCase) *ExportHandler {
	return &ExportHandler{uc: uc}
}

// Export godoc
// @Summary      Exportar dataset
// @Tags         export
// @Security     Bearer
// @Produce      octet-stream
// @Param        dataset  path   string  true   "products | inventory | orders | customers | expenses"
// @Param        format   query  string  false  "csv | xlsx | pdf"  default(csv)
// @Success      200      {file}    binary
// @Failure      400      {object}  dto.ErrorResponse
// @Router       /api/exports/{dataset} [get]
func (h *ExportHandler) Export(c *fiber.Ctx) error {
	file, err := h.uc.Export(c.UserContext(), GetStoreID(c), c.Params("dataset"), c.Query("format", "csv"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+file.FileName+`"`)
	return c.Send(file.Content)
}
