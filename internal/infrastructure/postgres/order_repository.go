package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo pedidos y sus líneas. Create debe ejecutarse dentro de una tx (cabecera + líneas).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de pedidos. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, store_id, customer_id, number, status, payment_status, subtotal, discount_total, shipping_fee, total,
	shipping_option, customer_name, customer_email, shipping_address, notes, created_at, updated_at`

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var customerID *string
	err := row.Scan(&o.ID, &o.StoreID, &customerID, &o.Number, &o.Status, &o.PaymentStatus,
		&o.Subtotal, &o.DiscountTotal, &o.ShippingFee, &o.Total,
		&o.ShippingOption, &o.CustomerName, &o.CustomerEmail, &o.ShippingAddress, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.CustomerID = emptyIfNull(customerID)
	return &o, nil
}

// Create inserta la cabecera y las líneas del pedido. Número repetido -> ErrDuplicate.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		o.ID, o.StoreID, nullIfEmpty(o.CustomerID), o.Number, o.Status, o.PaymentStatus,
		o.Subtotal, o.DiscountTotal, o.ShippingFee, o.Total,
		o.ShippingOption, o.CustomerName, o.CustomerEmail, o.ShippingAddress, o.Notes, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	for i := range o.Items {
		it := &o.Items[i]
		it.OrderID = o.ID
		_, err := r.q.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, variant_id, name, sku, quantity, unit_price, discount_percent, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			it.ID, it.OrderID, nullIfEmpty(it.ProductID), nullIfEmpty(it.VariantID), it.Name, it.SKU,
			it.Quantity, it.UnitPrice, it.DiscountPercent, it.LineTotal,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene el pedido con sus líneas. (nil, nil) si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetForUpdate obtiene el pedido bloqueando la fila para cambiar su estado.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *OrderRepo) get(ctx context.Context, query, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if o.Items, err = r.items(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepo) items(ctx context.Context, orderID string) ([]entity.OrderItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, product_id, variant_id, name, sku, quantity, unit_price, discount_percent, line_total
		FROM order_items WHERE order_id = $1 ORDER BY name`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	items := []entity.OrderItem{}
	for rows.Next() {
		var it entity.OrderItem
		var productID, variantID *string
		if err := rows.Scan(&it.ID, &it.OrderID, &productID, &variantID, &it.Name, &it.SKU,
			&it.Quantity, &it.UnitPrice, &it.DiscountPercent, &it.LineTotal); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		it.ProductID = emptyIfNull(productID)
		it.VariantID = emptyIfNull(variantID)
		items = append(items, it)
	}
	return items, rows.Err()
}

// List lista pedidos de la tienda (sin líneas), más recientes primero.
func (r *OrderRepo) List(ctx context.Context, storeID string, f repository.OrderFilter) ([]*entity.Order, int, error) {
	w := newFilter("store_id = $1", storeID)
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.PaymentStatus != "" {
		w.add("payment_status = ?", f.PaymentStatus)
	}
	if f.CustomerID != "" {
		w.add("customer_id = ?", f.CustomerID)
	}
	if !f.From.IsZero() {
		w.add("created_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		w.add("created_at < ?", f.To)
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+w.where(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}
	page, args := w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, `SELECT `+orderColumns+` FROM orders`+w.where()+` ORDER BY created_at DESC`+page, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, total, rows.Err()
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrderRepo) UpdatePaymentStatus(ctx context.Context, id, paymentStatus string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE orders SET payment_status = $2, updated_at = now() WHERE id = $1`, id, paymentStatus)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
