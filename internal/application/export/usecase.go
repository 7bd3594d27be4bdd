package export

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	stock "github.com/jhoicas/storefront-api/internal/domain/inventory"
	"github.com/jhoicas/storefront-api/internal/domain/pricing"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

// Datasets exportables.
const (
	DatasetProducts  = "products"
	DatasetInventory = "inventory"
	DatasetOrders    = "orders"
	DatasetCustomers = "customers"
	DatasetExpenses  = "expenses"
)

// pageSize tope de filas por consulta que aceptan los repositorios.
const pageSize = 100

// Repositories fuentes de datos de la exportación.
type Repositories struct {
	Products   repository.ProductRepository
	Categories repository.CategoryRepository
	Inventory  repository.InventoryRepository
	Orders     repository.OrderRepository
	Customers  repository.CustomerRepository
	Expenses   repository.ExpenseRepository
}

// UseCase arma la tabla del dataset pedido y la escribe en el formato elegido.
type UseCase struct {
	repos   Repositories
	writers map[string]Writer
	now     func() time.Time
}

// NewUseCase registra los escritores por extensión (csv, xlsx, pdf).
func NewUseCase(repos Repositories, writers ...Writer) *UseCase {
	byExt := make(map[string]Writer, len(writers))
	for _, w := range writers {
		byExt[w.Extension()] = w
	}
	return &UseCase{repos: repos, writers: byExt, now: time.Now}
}

// Export devuelve el archivo <dataset>_<yyyymmdd>.<ext>. Dataset o formato desconocido -> ErrInvalidInput.
func (uc *UseCase) Export(ctx context.Context, storeID, dataset, format string) (*dto.ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	w, ok := uc.writers[format]
	if !ok {
		return nil, fmt.Errorf("%w: formato %q", domain.ErrInvalidInput, format)
	}
	var (
		table Table
		err   error
	)
	switch dataset {
	case DatasetProducts:
		table, err = uc.products(ctx, storeID)
	case DatasetInventory:
		table, err = uc.inventory(ctx, storeID)
	case DatasetOrders:
		table, err = uc.orders(ctx, storeID)
	case DatasetCustomers:
		table, err = uc.customers(ctx, storeID)
	case DatasetExpenses:
		table, err = uc.expenses(ctx, storeID)
	default:
		return nil, fmt.Errorf("%w: dataset %q", domain.ErrInvalidInput, dataset)
	}
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", dataset, err)
	}
	content, err := w.Write(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", dataset, err)
	}
	return &dto.ExportFile{
		FileName:    fmt.Sprintf("%s_%s.%s", dataset, uc.now().Format("20060102"), w.Extension()),
		ContentType: w.ContentType(),
		Content:     content,
	}, nil
}

// WithClock fija el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

func (uc *UseCase) products(ctx context.Context, storeID string) (Table, error) {
	categories, err := uc.repos.Categories.ListByStore(ctx, storeID)
	if err != nil {
		return Table{}, err
	}
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	list, err := collect(func(limit, offset int) ([]*entity.Product, int, error) {
		return uc.repos.Products.List(ctx, storeID, repository.ProductFilter{Limit: limit, Offset: offset})
	})
	if err != nil {
		return Table{}, err
	}
	t := Table{
		Title:   "Productos",
		Headers: []string{"Nombre", "SKU", "Categoría", "Precio", "Descuento %", "Precio final", "Estado", "Variantes"},
	}
	for _, p := range list {
		t.Rows = append(t.Rows, []string{
			p.Name,
			p.SKU,
			names[p.CategoryID],
			p.Price.StringFixed(2),
			p.DiscountPercent.String(),
			pricing.FinalPrice(p.Price, p.DiscountPercent).StringFixed(2),
			p.Status,
			yesNo(p.HasVariants),
		})
	}
	return t, nil
}

func (uc *UseCase) inventory(ctx context.Context, storeID string) (Table, error) {
	list, err := collect(func(limit, offset int) ([]*entity.InventoryItem, int, error) {
		return uc.repos.Inventory.List(ctx, storeID, repository.InventoryFilter{Limit: limit, Offset: offset})
	})
	if err != nil {
		return Table{}, err
	}
	t := Table{
		Title:   "Inventario",
		Headers: []string{"Producto", "Variante", "SKU", "Disponible", "Reservado", "Umbral", "Estado"},
	}
	for _, it := range list {
		t.Rows = append(t.Rows, []string{
			it.ProductName,
			it.VariantName,
			it.SKU,
			strconv.Itoa(it.QuantityAvailable),
			strconv.Itoa(it.QuantityReserved),
			strconv.Itoa(it.LowStockThreshold),
			stock.Classify(it.QuantityAvailable, it.LowStockThreshold),
		})
	}
	return t, nil
}

func (uc *UseCase) orders(ctx context.Context, storeID string) (Table, error) {
	list, err := collect(func(limit, offset int) ([]*entity.Order, int, error) {
		return uc.repos.Orders.List(ctx, storeID, repository.OrderFilter{Limit: limit, Offset: offset})
	})
	if err != nil {
		return Table{}, err
	}
	t := Table{
		Title: "Pedidos",
		Headers: []string{"Número", "Fecha", "Estado", "Pago", "Cliente", "Email",
			"Subtotal", "Descuento", "Envío", "Total"},
	}
	for _, o := range list {
		t.Rows = append(t.Rows, []string{
			o.Number,
			o.CreatedAt.Format("2006-01-02 15:04"),
			o.Status,
			o.PaymentStatus,
			o.CustomerName,
			o.CustomerEmail,
			o.Subtotal.StringFixed(2),
			o.DiscountTotal.StringFixed(2),
			o.ShippingFee.StringFixed(2),
			o.Total.StringFixed(2),
		})
	}
	return t, nil
}

func (uc *UseCase) customers(ctx context.Context, storeID string) (Table, error) {
	list, err := collect(func(limit, offset int) ([]*entity.Customer, int, error) {
		return uc.repos.Customers.List(ctx, storeID, "", limit, offset)
	})
	if err != nil {
		return Table{}, err
	}
	t := Table{
		Title:   "Clientes",
		Headers: []string{"Nombre", "Email", "Teléfono", "Dirección", "Alta"},
	}
	for _, c := range list {
		t.Rows = append(t.Rows, []string{c.Name, c.Email, c.Phone, c.Address, c.CreatedAt.Format("2006-01-02")})
	}
	return t, nil
}

func (uc *UseCase) expenses(ctx context.Context, storeID string) (Table, error) {
	categories, err := uc.repos.Expenses.ListCategories(ctx, storeID)
	if err != nil {
		return Table{}, err
	}
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	list, err := collect(func(limit, offset int) ([]*entity.Expense, int, error) {
		return uc.repos.Expenses.List(ctx, storeID, repository.ExpenseFilter{Limit: limit, Offset: offset})
	})
	if err != nil {
		return Table{}, err
	}
	t := Table{
		Title:   "Gastos",
		Headers: []string{"Fecha", "Descripción", "Categoría", "Monto", "Método de pago", "Notas"},
	}
	for _, e := range list {
		t.Rows = append(t.Rows, []string{
			e.ExpenseDate.Format("2006-01-02"),
			e.Description,
			names[e.CategoryID],
			e.Amount.StringFixed(2),
			e.PaymentMethod,
			e.Notes,
		})
	}
	return t, nil
}

// collect recorre todas las páginas de un listado.
func collect[T any](fetch func(limit, offset int) ([]T, int, error)) ([]T, error) {
	var all []T
	for offset := 0; ; offset += pageSize {
		page, total, err := fetch(pageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < pageSize || offset+pageSize >= total {
			return all, nil
		}
	}
}

func yesNo(b bool) string {
	if b {
		return "sí"
	}
	return "no"
}
