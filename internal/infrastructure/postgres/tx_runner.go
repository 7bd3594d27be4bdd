package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/storefront-api/internal/application/inventory"
	"github.com/jhoicas/storefront-api/internal/application/order"
	"github.com/jhoicas/storefront-api/internal/application/usecase"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

var (
	_ inventory.TxRunner       = (*TxRunner)(nil)
	_ order.TxRunner           = (*TxRunner)(nil)
	_ usecase.ShippingTxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción con repos de inventario y catálogo (alta de producto con existencias, ajustes).
func (r *TxRunner) Run(ctx context.Context, fn func(
	inventoryRepo repository.InventoryRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		return fn(NewInventoryRepository(tx), NewProductRepository(tx))
	})
}

// RunOrder inicia una transacción con los repos que toca un pedido: reserva de inventario, cliente y cabecera/líneas.
func (r *TxRunner) RunOrder(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	inventoryRepo repository.InventoryRepository,
	customerRepo repository.CustomerRepository,
) error) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		return fn(NewOrderRepository(tx), NewInventoryRepository(tx), NewCustomerRepository(tx))
	})
}

// RunShipping inicia una transacción para leer-modificar-escribir las opciones de envío.
func (r *TxRunner) RunShipping(ctx context.Context, fn func(shippingRepo repository.ShippingOptionsRepository) error) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		return fn(NewStoreRepository(tx))
	})
}

// withTx hace Commit si fn no falla; en cualquier otro caso el Rollback diferido deshace todo.
func (r *TxRunner) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
