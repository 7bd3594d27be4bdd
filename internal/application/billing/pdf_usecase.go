package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

// PDFUseCase genera la representación impresa (PDF) de un pedido.
type PDFUseCase struct {
	orderRepo repository.OrderRepository
	storeRepo repository.StoreRepository
	linker    OrderLinker
	generator InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias. linker nil = sin QR.
func NewPDFUseCase(
	orderRepo repository.OrderRepository,
	storeRepo repository.StoreRepository,
	linker OrderLinker,
	generator InvoicePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		orderRepo: orderRepo,
		storeRepo: storeRepo,
		linker:    linker,
		generator: generator,
	}
}

// OrderInvoicePDF recupera pedido, tienda y configuración y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si el pedido no existe.
//   - domain.ErrForbidden        si el pedido no pertenece a la tienda del token.
func (uc *PDFUseCase) OrderInvoicePDF(ctx context.Context, storeID, orderID string) (pdfBytes []byte, filename string, err error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener pedido: %w", err)
	}
	if order == nil {
		return nil, "", domain.ErrNotFound
	}
	if order.StoreID != storeID {
		return nil, "", domain.ErrForbidden
	}

	store, err := uc.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener tienda: %w", err)
	}
	if store == nil {
		return nil, "", domain.ErrNotFound
	}
	settings, err := uc.storeRepo.GetSettings(ctx, storeID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener configuración: %w", err)
	}

	var orderURL string
	if uc.linker != nil {
		link, err := uc.linker.GenerateToken(ctx, storeID, orderID)
		if err != nil {
			return nil, "", fmt.Errorf("pdf: enlace del pedido: %w", err)
		}
		orderURL = link.URL
	}

	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, InvoiceData{
		Order:    order,
		Store:    store,
		Settings: settings,
		OrderURL: orderURL,
	})
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("factura_%s.pdf", order.Number), nil
}
