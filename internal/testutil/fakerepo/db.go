// Package fakerepo implementaciones en memoria de los repositorios para tests de casos de uso y handlers.
package fakerepo

import (
	"context"
	"sync"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

// DB estado compartido por todos los repos en memoria.
type DB struct {
	txMu sync.Mutex
	mu   sync.Mutex

	stores     map[string]*entity.Store
	settings   map[string]*entity.StoreSettings
	users      map[string]*entity.User
	categories map[string]*entity.Category
	products   map[string]*entity.Product
	variants   map[string]*entity.ProductVariant
	inventory  map[string]*entity.Inventory
	customers  map[string]*entity.Customer
	orders     map[string]*entity.Order
	expCats    map[string]*entity.ExpenseCategory
	expenses   map[string]*entity.Expense

	failures map[string]error
}

// New crea una base vacía.
func New() *DB {
	return &DB{
		stores:     map[string]*entity.Store{},
		settings:   map[string]*entity.StoreSettings{},
		users:      map[string]*entity.User{},
		categories: map[string]*entity.Category{},
		products:   map[string]*entity.Product{},
		variants:   map[string]*entity.ProductVariant{},
		inventory:  map[string]*entity.Inventory{},
		customers:  map[string]*entity.Customer{},
		orders:     map[string]*entity.Order{},
		expCats:    map[string]*entity.ExpenseCategory{},
		expenses:   map[string]*entity.Expense{},
		failures:   map[string]error{},
	}
}

// FailOn hace que la operación op (ej. "stores.CreateSettings") devuelva err.
func (db *DB) FailOn(op string, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.failures[op] = err
}

func (db *DB) fail(op string) error {
	return db.failures[op]
}

func (db *DB) Stores() *StoreRepo        { return &StoreRepo{db} }
func (db *DB) Users() *UserRepo          { return &UserRepo{db} }
func (db *DB) Categories() *CategoryRepo { return &CategoryRepo{db} }
func (db *DB) Products() *ProductRepo    { return &ProductRepo{db} }
func (db *DB) Inventory() *InventoryRepo { return &InventoryRepo{db} }
func (db *DB) Customers() *CustomerRepo  { return &CustomerRepo{db} }
func (db *DB) Orders() *OrderRepo        { return &OrderRepo{db} }
func (db *DB) Expenses() *ExpenseRepo    { return &ExpenseRepo{db} }

// Counts tamaño de cada tabla, para verificar compensaciones.
func (db *DB) Counts() map[string]int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return map[string]int{
		"stores":    len(db.stores),
		"settings":  len(db.settings),
		"users":     len(db.users),
		"products":  len(db.products),
		"variants":  len(db.variants),
		"inventory": len(db.inventory),
		"customers": len(db.customers),
		"orders":    len(db.orders),
	}
}

type snapshot struct {
	settings  map[string]entity.StoreSettings
	products  map[string]entity.Product
	variants  map[string]entity.ProductVariant
	inventory map[string]entity.Inventory
	customers map[string]entity.Customer
	orders    map[string]*entity.Order
}

func (db *DB) snapshot() snapshot {
	db.mu.Lock()
	defer db.mu.Unlock()
	s := snapshot{
		settings:  map[string]entity.StoreSettings{},
		products:  map[string]entity.Product{},
		variants:  map[string]entity.ProductVariant{},
		inventory: map[string]entity.Inventory{},
		customers: map[string]entity.Customer{},
		orders:    map[string]*entity.Order{},
	}
	for k, v := range db.settings {
		cp := *v
		cp.ShippingOptions = append([]entity.ShippingOption(nil), v.ShippingOptions...)
		s.settings[k] = cp
	}
	for k, v := range db.products {
		s.products[k] = *v
	}
	for k, v := range db.variants {
		s.variants[k] = *v
	}
	for k, v := range db.inventory {
		s.inventory[k] = *v
	}
	for k, v := range db.customers {
		s.customers[k] = *v
	}
	for k, v := range db.orders {
		s.orders[k] = copyOrder(v)
	}
	return s
}

func (db *DB) restore(s snapshot) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.settings = map[string]*entity.StoreSettings{}
	for k, v := range s.settings {
		v := v
		db.settings[k] = &v
	}
	db.products = map[string]*entity.Product{}
	for k, v := range s.products {
		v := v
		db.products[k] = &v
	}
	db.variants = map[string]*entity.ProductVariant{}
	for k, v := range s.variants {
		v := v
		db.variants[k] = &v
	}
	db.inventory = map[string]*entity.Inventory{}
	for k, v := range s.inventory {
		v := v
		db.inventory[k] = &v
	}
	db.customers = map[string]*entity.Customer{}
	for k, v := range s.customers {
		v := v
		db.customers[k] = &v
	}
	db.orders = s.orders
}

// TxRunner ejecuta los callbacks serializados y deshace los cambios si fallan.
type TxRunner struct {
	db *DB
}

func (db *DB) TxRunner() *TxRunner { return &TxRunner{db} }

func (r *TxRunner) withTx(fn func() error) error {
	r.db.txMu.Lock()
	defer r.db.txMu.Unlock()
	snap := r.db.snapshot()
	if err := fn(); err != nil {
		r.db.restore(snap)
		return err
	}
	return nil
}

func (r *TxRunner) Run(ctx context.Context, fn func(
	inventoryRepo repository.InventoryRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.withTx(func() error { return fn(r.db.Inventory(), r.db.Products()) })
}

func (r *TxRunner) RunOrder(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	inventoryRepo repository.InventoryRepository,
	customerRepo repository.CustomerRepository,
) error) error {
	return r.withTx(func() error { return fn(r.db.Orders(), r.db.Inventory(), r.db.Customers()) })
}

func (r *TxRunner) RunShipping(ctx context.Context, fn func(shippingRepo repository.ShippingOptionsRepository) error) error {
	return r.withTx(func() error { return fn(r.db.Stores()) })
}
