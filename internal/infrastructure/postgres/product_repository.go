package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `p.id, p.store_id, p.category_id, p.name, p.slug, p.description, p.sku, p.price, p.discount_percent, p.status, p.images, p.has_variants, p.created_at, p.updated_at`

// productStockJoin agrega el inventario del producto (fila propia o suma de variantes).
const productStockJoin = `
	LEFT JOIN (
		SELECT product_id, SUM(quantity_available) AS qty, MAX(low_stock_threshold) AS threshold
		FROM inventory GROUP BY product_id
	) s ON s.product_id = p.id`

// stockStatusCase clasifica una cantidad contra su umbral igual que inventory.Classify.
func stockStatusCase(qty, threshold string) string {
	return fmt.Sprintf(`CASE WHEN COALESCE(%[1]s, 0) <= 0 THEN 'out_of_stock' WHEN COALESCE(%[1]s, 0) <= COALESCE(%[2]s, 0) THEN 'low_stock' ELSE 'in_stock' END`, qty, threshold)
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var categoryID *string
	err := row.Scan(&p.ID, &p.StoreID, &categoryID, &p.Name, &p.Slug, &p.Description, &p.SKU,
		&p.Price, &p.DiscountPercent, &p.Status, &p.Images, &p.HasVariants, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.CategoryID = emptyIfNull(categoryID)
	if p.Images == nil {
		p.Images = []string{}
	}
	return &p, nil
}

func productImages(p *entity.Product) []string {
	if p.Images == nil {
		return []string{}
	}
	return p.Images
}

// Create persiste un nuevo producto. Slug repetido en la tienda -> ErrDuplicate.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO products (id, store_id, category_id, name, slug, description, sku, price, discount_percent, status, images, has_variants, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		p.ID, p.StoreID, nullIfEmpty(p.CategoryID), p.Name, p.Slug, p.Description, p.SKU,
		p.Price, p.DiscountPercent, p.Status, productImages(p), p.HasVariants, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getByID(ctx, id, "")
}

// GetForUpdate obtiene el producto con SELECT ... FOR UPDATE.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.getByID(ctx, id, " FOR UPDATE")
}

func (r *ProductRepo) getByID(ctx context.Context, id, lock string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = $1`+lock, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetBySlug obtiene un producto por tienda y slug.
func (r *ProductRepo) GetBySlug(ctx context.Context, storeID, slug string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products p WHERE p.store_id = $1 AND p.slug = $2`, storeID, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by slug: %w", err)
	}
	return p, nil
}

// List lista productos de la tienda con filtros y devuelve también el total sin paginar.
func (r *ProductRepo) List(ctx context.Context, storeID string, f repository.ProductFilter) ([]*entity.Product, int, error) {
	w := newFilter("p.store_id = $1", storeID)
	if f.CategoryID != "" {
		w.add("p.category_id = ?", f.CategoryID)
	}
	if f.Status != "" {
		w.add("p.status = ?", f.Status)
	}
	if f.Search != "" {
		w.add(`(p.name ILIKE ? ESCAPE '\' OR p.sku ILIKE ? ESCAPE '\')`, likeContains(f.Search))
	}
	if f.StockStatus != "" {
		w.add(stockStatusCase("s.qty", "s.threshold")+" = ?", f.StockStatus)
	}
	from := ` FROM products p` + productStockJoin + w.where()

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)`+from, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	page, args := w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+from+` ORDER BY p.created_at DESC`+page, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

// Update actualiza un producto existente.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE products SET category_id = $2, name = $3, slug = $4, description = $5, sku = $6, price = $7,
			discount_percent = $8, status = $9, images = $10, has_variants = $11, updated_at = $12
		WHERE id = $1`,
		p.ID, nullIfEmpty(p.CategoryID), p.Name, p.Slug, p.Description, p.SKU, p.Price,
		p.DiscountPercent, p.Status, productImages(p), p.HasVariants, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un producto por ID (variantes e inventario en cascada).
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

const variantColumns = `id, product_id, sku, attributes, price, discount_percent, created_at, updated_at`

func scanVariant(row pgx.Row) (*entity.ProductVariant, error) {
	var v entity.ProductVariant
	var discount decimal.NullDecimal
	if err := row.Scan(&v.ID, &v.ProductID, &v.SKU, &v.Attributes, &v.Price, &discount, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	if discount.Valid {
		d := discount.Decimal
		v.DiscountPercent = &d
	}
	if v.Attributes == nil {
		v.Attributes = map[string]string{}
	}
	return &v, nil
}

func variantArgs(v *entity.ProductVariant) (map[string]string, decimal.NullDecimal) {
	attrs := v.Attributes
	if attrs == nil {
		attrs = map[string]string{}
	}
	var discount decimal.NullDecimal
	if v.DiscountPercent != nil {
		discount = decimal.NewNullDecimal(*v.DiscountPercent)
	}
	return attrs, discount
}

func (r *ProductRepo) CreateVariant(ctx context.Context, v *entity.ProductVariant) error {
	attrs, discount := variantArgs(v)
	_, err := r.q.Exec(ctx, `
		INSERT INTO product_variants (`+variantColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		v.ID, v.ProductID, v.SKU, attrs, v.Price, discount, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert variant: %w", err)
	}
	return nil
}

func (r *ProductRepo) GetVariant(ctx context.Context, id string) (*entity.ProductVariant, error) {
	v, err := scanVariant(r.q.QueryRow(ctx, `SELECT `+variantColumns+` FROM product_variants WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get variant: %w", err)
	}
	return v, nil
}

func (r *ProductRepo) ListVariants(ctx context.Context, productID string) ([]*entity.ProductVariant, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+variantColumns+` FROM product_variants WHERE product_id = $1 ORDER BY created_at`, productID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductVariant
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

func (r *ProductRepo) UpdateVariant(ctx context.Context, v *entity.ProductVariant) error {
	attrs, discount := variantArgs(v)
	cmd, err := r.q.Exec(ctx, `
		UPDATE product_variants SET sku = $2, attributes = $3, price = $4, discount_percent = $5, updated_at = $6
		WHERE id = $1`,
		v.ID, v.SKU, attrs, v.Price, discount, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update variant: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) DeleteVariant(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM product_variants WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete variant: %w", err)
	}
	return nil
}
