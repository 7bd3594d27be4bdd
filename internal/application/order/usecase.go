package order

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	stock "github.com/jhoicas/storefront-api/internal/domain/inventory"
	status "github.com/jhoicas/storefront-api/internal/domain/order"
	"github.com/jhoicas/storefront-api/internal/domain/pricing"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jhoicas/storefront-api/internal/domain/shipping"
	"github.com/jhoicas/storefront-api/pkg/jwt"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

// UseCase pedidos: alta con reserva de stock, cambios de estado y token de consulta.
type UseCase struct {
	tx           TxRunner
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	storeRepo    repository.StoreRepository
	tokenCfg     TokenConfig
	log          *logger.Logger
	now          func() time.Time
}

// NewUseCase construye el caso de uso. log nil = sin logs.
func NewUseCase(
	tx TxRunner,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	storeRepo repository.StoreRepository,
	tokenCfg TokenConfig,
	log *logger.Logger,
) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		tx:           tx,
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		storeRepo:    storeRepo,
		tokenCfg:     tokenCfg,
		log:          log.Component("orders"),
		now:          time.Now,
	}
}

// Create crea un pedido desde el panel. Puede referir un cliente existente.
func (uc *UseCase) Create(ctx context.Context, storeID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	o, err := uc.create(ctx, storeID, in, false)
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(o), nil
}

// Checkout pedido desde la vitrina: solo productos activos, email obligatorio. Devuelve el token de consulta.
func (uc *UseCase) Checkout(ctx context.Context, storeID string, in dto.CreateOrderRequest) (*dto.CheckoutResponse, error) {
	in.CustomerID = ""
	if strings.TrimSpace(in.CustomerEmail) == "" || strings.TrimSpace(in.CustomerName) == "" {
		return nil, domain.ErrInvalidInput
	}
	o, err := uc.create(ctx, storeID, in, true)
	if err != nil {
		return nil, err
	}
	token, err := jwt.GenerateOrderToken(uc.tokenCfg.Secret, o.ID, o.StoreID, uc.tokenCfg.ExpHours)
	if err != nil {
		return nil, err
	}
	return &dto.CheckoutResponse{Order: *ToOrderResponse(o), Token: token}, nil
}

// create precios desde el catálogo, tarifa de envío de la tienda y, en una sola transacción,
// alta/búsqueda del cliente, reserva de cada línea e inserción del pedido.
func (uc *UseCase) create(ctx context.Context, storeID string, in dto.CreateOrderRequest, public bool) (*entity.Order, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	items := make([]entity.OrderItem, 0, len(in.Items))
	lines := make([]pricing.Line, 0, len(in.Items))
	for _, it := range in.Items {
		item, err := uc.priceItem(ctx, storeID, it, public)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		lines = append(lines, pricing.Line{UnitPrice: item.UnitPrice, DiscountPercent: item.DiscountPercent, Quantity: item.Quantity})
	}

	settings, err := uc.storeRepo.GetSettings(ctx, storeID)
	if err != nil {
		return nil, err
	}
	var opts []entity.ShippingOption
	if settings != nil {
		opts = settings.ShippingOptions
	}
	option, err := shipping.Fee(opts, in.ShippingOption)
	if err != nil {
		return nil, fmt.Errorf("%w: opción de envío %q", err, in.ShippingOption)
	}
	totals := pricing.OrderTotals(lines, option.Fee)

	now := uc.now()
	number, err := status.NewNumber(now)
	if err != nil {
		return nil, err
	}
	o := &entity.Order{
		ID:              uuid.New().String(),
		StoreID:         storeID,
		Number:          number,
		Status:          entity.OrderStatusPending,
		PaymentStatus:   entity.PaymentStatusPending,
		Subtotal:        totals.Subtotal,
		DiscountTotal:   totals.DiscountTotal,
		ShippingFee:     totals.ShippingFee,
		Total:           totals.Total,
		ShippingOption:  option.Name,
		CustomerName:    strings.TrimSpace(in.CustomerName),
		CustomerEmail:   strings.ToLower(strings.TrimSpace(in.CustomerEmail)),
		ShippingAddress: strings.TrimSpace(in.ShippingAddress),
		Notes:           strings.TrimSpace(in.Notes),
		Items:           items,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for i := range o.Items {
		o.Items[i].ID = uuid.New().String()
		o.Items[i].OrderID = o.ID
	}

	err = uc.tx.RunOrder(ctx, func(orderRepo repository.OrderRepository, invRepo repository.InventoryRepository, customerRepo repository.CustomerRepository) error {
		customer, err := uc.resolveCustomer(ctx, customerRepo, storeID, in, now)
		if err != nil {
			return err
		}
		if customer != nil {
			o.CustomerID = customer.ID
			if o.CustomerName == "" {
				o.CustomerName = customer.Name
			}
			if o.CustomerEmail == "" {
				o.CustomerEmail = customer.Email
			}
			if o.ShippingAddress == "" {
				o.ShippingAddress = customer.Address
			}
		}
		// Orden fijo de bloqueo para evitar interbloqueos entre pedidos concurrentes.
		for _, it := range sortedForLocking(o.Items) {
			inv, err := invRepo.GetForUpdate(ctx, it.ProductID, it.VariantID)
			if err != nil {
				return err
			}
			if inv == nil {
				return fmt.Errorf("%w: %s sin inventario", domain.ErrInsufficientStock, it.SKU)
			}
			if err := stock.Reserve(inv, it.Quantity); err != nil {
				return fmt.Errorf("%s: %w", it.SKU, err)
			}
			inv.UpdatedAt = now
			if err := invRepo.Update(ctx, inv); err != nil {
				return err
			}
		}
		return orderRepo.Create(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("store_id", storeID).Str("order", o.Number).Str("total", o.Total.String()).Bool("public", public).Msg("pedido creado")
	return o, nil
}

// priceItem resuelve producto/variante de la tienda y copia nombre, SKU, precio y descuento.
func (uc *UseCase) priceItem(ctx context.Context, storeID string, in dto.CreateOrderItemRequest, public bool) (entity.OrderItem, error) {
	if in.Quantity <= 0 {
		return entity.OrderItem{}, domain.ErrInvalidInput
	}
	p, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return entity.OrderItem{}, err
	}
	if p == nil || p.StoreID != storeID {
		return entity.OrderItem{}, fmt.Errorf("%w: producto %s", domain.ErrInvalidInput, in.ProductID)
	}
	if public && p.Status != entity.ProductStatusActive {
		return entity.OrderItem{}, fmt.Errorf("%w: producto %s no disponible", domain.ErrInvalidInput, p.SKU)
	}
	item := entity.OrderItem{
		ProductID:       p.ID,
		Name:            p.Name,
		SKU:             p.SKU,
		Quantity:        in.Quantity,
		UnitPrice:       p.Price,
		DiscountPercent: p.DiscountPercent,
	}
	if p.HasVariants {
		if in.VariantID == "" {
			return entity.OrderItem{}, fmt.Errorf("%w: %s requiere variante", domain.ErrInvalidInput, p.SKU)
		}
		v, err := uc.productRepo.GetVariant(ctx, in.VariantID)
		if err != nil {
			return entity.OrderItem{}, err
		}
		if v == nil || v.ProductID != p.ID {
			return entity.OrderItem{}, fmt.Errorf("%w: variante %s", domain.ErrInvalidInput, in.VariantID)
		}
		item.VariantID = v.ID
		item.SKU = v.SKU
		item.Name = p.Name + " (" + attributeLabel(v.Attributes) + ")"
		item.UnitPrice = v.Price
		item.DiscountPercent = pricing.EffectiveDiscount(p.DiscountPercent, v.DiscountPercent)
	} else if in.VariantID != "" {
		return entity.OrderItem{}, fmt.Errorf("%w: %s no tiene variantes", domain.ErrInvalidInput, p.SKU)
	}
	item.LineTotal = pricing.Line{UnitPrice: item.UnitPrice, DiscountPercent: item.DiscountPercent, Quantity: item.Quantity}.Total()
	return item, nil
}

// resolveCustomer usa el cliente indicado (solo panel) o busca/crea uno por email.
func (uc *UseCase) resolveCustomer(ctx context.Context, repo repository.CustomerRepository, storeID string, in dto.CreateOrderRequest, now time.Time) (*entity.Customer, error) {
	if in.CustomerID != "" {
		c, err := repo.GetByID(ctx, in.CustomerID)
		if err != nil {
			return nil, err
		}
		if c == nil || c.StoreID != storeID {
			return nil, fmt.Errorf("%w: cliente %s", domain.ErrInvalidInput, in.CustomerID)
		}
		return c, nil
	}
	email := strings.ToLower(strings.TrimSpace(in.CustomerEmail))
	if email == "" {
		return nil, nil
	}
	c, err := repo.GetByEmail(ctx, storeID, email)
	if err != nil {
		return nil, err
	}
	if c != nil {
		return c, nil
	}
	name := strings.TrimSpace(in.CustomerName)
	if name == "" {
		name = email
	}
	c = &entity.Customer{
		ID:        uuid.New().String(),
		StoreID:   storeID,
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(in.CustomerPhone),
		Address:   strings.TrimSpace(in.ShippingAddress),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateStatus aplica la transición y su efecto sobre las reservas en la misma transacción.
func (uc *UseCase) UpdateStatus(ctx context.Context, storeID, orderID string, in dto.UpdateOrderStatusRequest) (*dto.OrderResponse, error) {
	var result *entity.Order
	err := uc.tx.RunOrder(ctx, func(orderRepo repository.OrderRepository, invRepo repository.InventoryRepository, _ repository.CustomerRepository) error {
		o, err := orderRepo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil || o.StoreID != storeID {
			return domain.ErrNotFound
		}
		effect, err := status.Transition(o.Status, in.Status)
		if err != nil {
			return err
		}
		if effect != status.StockNone {
			now := uc.now()
			for _, it := range sortedForLocking(o.Items) {
				inv, err := invRepo.GetForUpdate(ctx, it.ProductID, it.VariantID)
				if err != nil {
					return err
				}
				if inv == nil {
					continue // producto o variante eliminados
				}
				if effect == status.StockRelease {
					stock.Release(inv, it.Quantity)
				} else {
					stock.Commit(inv, it.Quantity)
				}
				inv.UpdatedAt = now
				if err := invRepo.Update(ctx, inv); err != nil {
					return err
				}
			}
		}
		if err := orderRepo.UpdateStatus(ctx, o.ID, in.Status); err != nil {
			return err
		}
		o.Status = in.Status
		o.UpdatedAt = uc.now()
		result = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("store_id", storeID).Str("order", result.Number).Str("status", result.Status).Msg("estado de pedido")
	return ToOrderResponse(result), nil
}

// UpdatePaymentStatus registra el estado de pago (sin pasarela).
func (uc *UseCase) UpdatePaymentStatus(ctx context.Context, storeID, orderID string, in dto.UpdatePaymentStatusRequest) (*dto.OrderResponse, error) {
	o, err := uc.load(ctx, storeID, orderID)
	if err != nil {
		return nil, err
	}
	if err := status.PaymentTransition(o.PaymentStatus, in.PaymentStatus); err != nil {
		return nil, err
	}
	if err := uc.orderRepo.UpdatePaymentStatus(ctx, o.ID, in.PaymentStatus); err != nil {
		return nil, err
	}
	o.PaymentStatus = in.PaymentStatus
	o.UpdatedAt = uc.now()
	return ToOrderResponse(o), nil
}

// Get pedido con sus líneas.
func (uc *UseCase) Get(ctx context.Context, storeID, orderID string) (*dto.OrderResponse, error) {
	o, err := uc.load(ctx, storeID, orderID)
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(o), nil
}

// List pedidos filtrados por estado, pago, cliente y rango de fechas (YYYY-MM-DD, inclusive).
func (uc *UseCase) List(ctx context.Context, storeID string, q dto.OrderListQuery) (*dto.OrderListResponse, error) {
	from, to, err := parseRange(q.From, q.To)
	if err != nil {
		return nil, err
	}
	q.DefaultPage()
	list, total, err := uc.orderRepo.List(ctx, storeID, repository.OrderFilter{
		Status:        q.Status,
		PaymentStatus: q.PaymentStatus,
		CustomerID:    q.CustomerID,
		From:          from,
		To:            to,
		Limit:         q.Limit,
		Offset:        q.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *ToOrderResponse(o))
	}
	return &dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// GenerateToken firma el token con el que el cliente consulta su pedido sin sesión.
func (uc *UseCase) GenerateToken(ctx context.Context, storeID, orderID string) (*dto.OrderTokenResponse, error) {
	o, err := uc.load(ctx, storeID, orderID)
	if err != nil {
		return nil, err
	}
	token, err := jwt.GenerateOrderToken(uc.tokenCfg.Secret, o.ID, o.StoreID, uc.tokenCfg.ExpHours)
	if err != nil {
		return nil, err
	}
	return &dto.OrderTokenResponse{Token: token, URL: uc.ViewURL(token)}, nil
}

// GetByToken pedido referido por un token de consulta válido.
func (uc *UseCase) GetByToken(ctx context.Context, token string) (*dto.OrderResponse, error) {
	orderID, storeID, err := jwt.ParseOrderToken(uc.tokenCfg.Secret, token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	return uc.Get(ctx, storeID, orderID)
}

// ViewURL URL pública del pedido para el token; vacío si no hay base configurada.
func (uc *UseCase) ViewURL(token string) string {
	if uc.tokenCfg.ViewURL == "" {
		return ""
	}
	return strings.TrimRight(uc.tokenCfg.ViewURL, "/") + "/" + token
}

// load pedido de la tienda con sus líneas. Otro dueño -> ErrNotFound.
func (uc *UseCase) load(ctx context.Context, storeID, orderID string) (*entity.Order, error) {
	o, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil || o.StoreID != storeID {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func sortedForLocking(items []entity.OrderItem) []entity.OrderItem {
	out := append([]entity.OrderItem(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].VariantID < out[j].VariantID
	})
	return out
}

func attributeLabel(attrs map[string]string) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	vals := make([]string, 0, len(keys))
	for _, k := range keys {
		vals = append(vals, attrs[k])
	}
	return strings.Join(vals, " / ")
}

func parseRange(fromStr, toStr string) (time.Time, time.Time, error) {
	var from, to time.Time
	var err error
	if fromStr != "" {
		if from, err = time.Parse("2006-01-02", fromStr); err != nil {
			return from, to, domain.ErrInvalidInput
		}
	}
	if toStr != "" {
		if to, err = time.Parse("2006-01-02", toStr); err != nil {
			return from, to, domain.ErrInvalidInput
		}
		to = to.AddDate(0, 0, 1)
	}
	return from, to, nil
}

// ToOrderResponse mapea el pedido y sus líneas.
func ToOrderResponse(o *entity.Order) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ID:              it.ID,
			ProductID:       it.ProductID,
			VariantID:       it.VariantID,
			Name:            it.Name,
			SKU:             it.SKU,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
			LineTotal:       it.LineTotal,
		})
	}
	return &dto.OrderResponse{
		ID:              o.ID,
		StoreID:         o.StoreID,
		CustomerID:      o.CustomerID,
		Number:          o.Number,
		Status:          o.Status,
		PaymentStatus:   o.PaymentStatus,
		Subtotal:        o.Subtotal,
		DiscountTotal:   o.DiscountTotal,
		ShippingFee:     o.ShippingFee,
		Total:           o.Total,
		ShippingOption:  o.ShippingOption,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		ShippingAddress: o.ShippingAddress,
		Notes:           o.Notes,
		Items:           items,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
