package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

var _ repository.ExpenseRepository = (*ExpenseRepo)(nil)

// ExpenseRepo gastos y categorías de gasto de la tienda.
type ExpenseRepo struct {
	q Querier
}

// NewExpenseRepository construye el adaptador de gastos.
func NewExpenseRepository(q Querier) *ExpenseRepo {
	return &ExpenseRepo{q: q}
}

const expenseCategoryColumns = `id, store_id, name, description, created_at, updated_at`

func scanExpenseCategory(row pgx.Row) (*entity.ExpenseCategory, error) {
	var c entity.ExpenseCategory
	if err := row.Scan(&c.ID, &c.StoreID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ExpenseRepo) CreateCategory(ctx context.Context, c *entity.ExpenseCategory) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO expense_categories (`+expenseCategoryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.StoreID, c.Name, c.Description, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert expense category: %w", err)
	}
	return nil
}

func (r *ExpenseRepo) GetCategory(ctx context.Context, id string) (*entity.ExpenseCategory, error) {
	c, err := scanExpenseCategory(r.q.QueryRow(ctx, `SELECT `+expenseCategoryColumns+` FROM expense_categories WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get expense category: %w", err)
	}
	return c, nil
}

func (r *ExpenseRepo) GetCategoryByName(ctx context.Context, storeID, name string) (*entity.ExpenseCategory, error) {
	c, err := scanExpenseCategory(r.q.QueryRow(ctx,
		`SELECT `+expenseCategoryColumns+` FROM expense_categories WHERE store_id = $1 AND lower(name) = lower($2)`, storeID, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get expense category by name: %w", err)
	}
	return c, nil
}

func (r *ExpenseRepo) ListCategories(ctx context.Context, storeID string) ([]*entity.ExpenseCategory, error) {
	rows, err := r.q.Query(ctx, `SELECT `+expenseCategoryColumns+` FROM expense_categories WHERE store_id = $1 ORDER BY name`, storeID)
	if err != nil {
		return nil, fmt.Errorf("list expense categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.ExpenseCategory
	for rows.Next() {
		c, err := scanExpenseCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense category: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *ExpenseRepo) UpdateCategory(ctx context.Context, c *entity.ExpenseCategory) error {
	cmd, err := r.q.Exec(ctx, `UPDATE expense_categories SET name = $2, description = $3, updated_at = $4 WHERE id = $1`,
		c.ID, c.Name, c.Description, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update expense category: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteCategory elimina la categoría; los gastos quedan sin categoría.
func (r *ExpenseRepo) DeleteCategory(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM expense_categories WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete expense category: %w", err)
	}
	return nil
}

const expenseColumns = `id, store_id, category_id, description, amount, expense_date, payment_method, notes, created_at, updated_at`

func scanExpense(row pgx.Row) (*entity.Expense, error) {
	var e entity.Expense
	var categoryID *string
	err := row.Scan(&e.ID, &e.StoreID, &categoryID, &e.Description, &e.Amount, &e.ExpenseDate,
		&e.PaymentMethod, &e.Notes, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.CategoryID = emptyIfNull(categoryID)
	return &e, nil
}

func (r *ExpenseRepo) Create(ctx context.Context, e *entity.Expense) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO expenses (`+expenseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID, e.StoreID, nullIfEmpty(e.CategoryID), e.Description, e.Amount, e.ExpenseDate,
		e.PaymentMethod, e.Notes, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

func (r *ExpenseRepo) GetByID(ctx context.Context, id string) (*entity.Expense, error) {
	e, err := scanExpense(r.q.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// List gastos de la tienda, más recientes primero. To es exclusivo.
func (r *ExpenseRepo) List(ctx context.Context, storeID string, f repository.ExpenseFilter) ([]*entity.Expense, int, error) {
	w := newFilter("store_id = $1", storeID)
	if f.CategoryID != "" {
		w.add("category_id = ?", f.CategoryID)
	}
	if !f.From.IsZero() {
		w.add("expense_date >= ?", f.From)
	}
	if !f.To.IsZero() {
		w.add("expense_date < ?", f.To)
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM expenses`+w.where(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count expenses: %w", err)
	}
	page, args := w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, `SELECT `+expenseColumns+` FROM expenses`+w.where()+` ORDER BY expense_date DESC, created_at DESC`+page, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan expense: %w", err)
		}
		list = append(list, e)
	}
	return list, total, rows.Err()
}

func (r *ExpenseRepo) Update(ctx context.Context, e *entity.Expense) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE expenses SET category_id = $2, description = $3, amount = $4, expense_date = $5, payment_method = $6, notes = $7, updated_at = $8
		WHERE id = $1`,
		e.ID, nullIfEmpty(e.CategoryID), e.Description, e.Amount, e.ExpenseDate, e.PaymentMethod, e.Notes, e.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("update expense: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ExpenseRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

// SummaryByCategory total y cantidad de gastos por categoría en [from, to). Sin categoría -> "Sin categoría".
func (r *ExpenseRepo) SummaryByCategory(ctx context.Context, storeID string, from, to time.Time) ([]repository.ExpenseCategoryTotal, error) {
	rows, err := r.q.Query(ctx, `
		SELECT COALESCE(c.id::text, ''), COALESCE(c.name, 'Sin categoría'), COUNT(*), SUM(e.amount)
		FROM expenses e
		LEFT JOIN expense_categories c ON c.id = e.category_id
		WHERE e.store_id = $1 AND e.expense_date >= $2 AND e.expense_date < $3
		GROUP BY c.id, c.name
		ORDER BY SUM(e.amount) DESC`, storeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("expense summary: %w", err)
	}
	defer rows.Close()
	var list []repository.ExpenseCategoryTotal
	for rows.Next() {
		var t repository.ExpenseCategoryTotal
		if err := rows.Scan(&t.CategoryID, &t.CategoryName, &t.Count, &t.Total); err != nil {
			return nil, fmt.Errorf("scan expense summary: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
