package billing

import (
	"context"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// InvoiceData todo lo que necesita la representación impresa de un pedido.
type InvoiceData struct {
	Order    *entity.Order
	Store    *entity.Store
	Settings *entity.StoreSettings // puede ser nil
	OrderURL string                // vacío = sin código QR
}

// InvoicePDFGenerator puerto de salida para renderizar la factura de un pedido.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, data InvoiceData) ([]byte, error)
}

// OrderLinker firma el enlace público del pedido que se imprime como QR.
type OrderLinker interface {
	GenerateToken(ctx context.Context, storeID, orderID string) (*dto.OrderTokenResponse, error)
}
