package fakerepo

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

var (
	_ repository.CustomerRepository = (*CustomerRepo)(nil)
	_ repository.OrderRepository    = (*OrderRepo)(nil)
	_ repository.ExpenseRepository  = (*ExpenseRepo)(nil)
)

type CustomerRepo struct{ db *DB }

func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if c.Email != "" {
		for _, other := range r.db.customers {
			if other.StoreID == c.StoreID && strings.EqualFold(other.Email, c.Email) {
				return domain.ErrDuplicate
			}
		}
	}
	cp := *c
	r.db.customers[c.ID] = &cp
	return nil
}

func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if c, ok := r.db.customers[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *CustomerRepo) GetByEmail(ctx context.Context, storeID, email string) (*entity.Customer, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, c := range r.db.customers {
		if c.StoreID == storeID && strings.EqualFold(c.Email, email) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *CustomerRepo) List(ctx context.Context, storeID, search string, limit, offset int) ([]*entity.Customer, int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	q := strings.ToLower(search)
	all := []*entity.Customer{}
	for _, c := range r.db.customers {
		if c.StoreID != storeID {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(c.Name+" "+c.Email+" "+c.Phone), q) {
			continue
		}
		cp := *c
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return paginate(all, limit, offset), len(all), nil
}

func (r *CustomerRepo) Stats(ctx context.Context, customerID string) (repository.CustomerStats, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	st := repository.CustomerStats{TotalSpent: decimal.Zero}
	for _, o := range r.db.orders {
		if o.CustomerID == customerID && o.Status != entity.OrderStatusCancelled {
			st.OrdersCount++
			st.TotalSpent = st.TotalSpent.Add(o.Total)
		}
	}
	return st, nil
}

func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.customers[c.ID]; !ok {
		return domain.ErrNotFound
	}
	if c.Email != "" {
		for id, other := range r.db.customers {
			if id != c.ID && other.StoreID == c.StoreID && strings.EqualFold(other.Email, c.Email) {
				return domain.ErrDuplicate
			}
		}
	}
	cp := *c
	r.db.customers[c.ID] = &cp
	return nil
}

func (r *CustomerRepo) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.customers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.db.customers, id)
	return nil
}

type OrderRepo struct{ db *DB }

func copyOrder(o *entity.Order) *entity.Order {
	cp := *o
	cp.Items = append([]entity.OrderItem(nil), o.Items...)
	return &cp
}

func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("orders.Create"); err != nil {
		return err
	}
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}
	r.db.orders[o.ID] = copyOrder(o)
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if o, ok := r.db.orders[id]; ok {
		return copyOrder(o), nil
	}
	return nil, nil
}

func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *OrderRepo) List(ctx context.Context, storeID string, f repository.OrderFilter) ([]*entity.Order, int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	all := []*entity.Order{}
	for _, o := range r.db.orders {
		if o.StoreID != storeID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.PaymentStatus != "" && o.PaymentStatus != f.PaymentStatus {
			continue
		}
		if f.CustomerID != "" && o.CustomerID != f.CustomerID {
			continue
		}
		if !inRange(o.CreatedAt, f.From, f.To) {
			continue
		}
		cp := *o
		cp.Items = nil
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, f.Limit, f.Offset), len(all), nil
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	o, ok := r.db.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	return nil
}

func (r *OrderRepo) UpdatePaymentStatus(ctx context.Context, id, paymentStatus string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	o, ok := r.db.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.PaymentStatus = paymentStatus
	o.UpdatedAt = time.Now()
	return nil
}

// inRange [from, to); extremos cero = sin límite.
func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}

type ExpenseRepo struct{ db *DB }

func (r *ExpenseRepo) CreateCategory(ctx context.Context, c *entity.ExpenseCategory) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, other := range r.db.expCats {
		if other.StoreID == c.StoreID && strings.EqualFold(other.Name, c.Name) {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.db.expCats[c.ID] = &cp
	return nil
}

func (r *ExpenseRepo) GetCategory(ctx context.Context, id string) (*entity.ExpenseCategory, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if c, ok := r.db.expCats[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *ExpenseRepo) GetCategoryByName(ctx context.Context, storeID, name string) (*entity.ExpenseCategory, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, c := range r.db.expCats {
		if c.StoreID == storeID && strings.EqualFold(c.Name, name) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ExpenseRepo) ListCategories(ctx context.Context, storeID string) ([]*entity.ExpenseCategory, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*entity.ExpenseCategory{}
	for _, c := range r.db.expCats {
		if c.StoreID == storeID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ExpenseRepo) UpdateCategory(ctx context.Context, c *entity.ExpenseCategory) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.expCats[c.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, other := range r.db.expCats {
		if id != c.ID && other.StoreID == c.StoreID && strings.EqualFold(other.Name, c.Name) {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.db.expCats[c.ID] = &cp
	return nil
}

func (r *ExpenseRepo) DeleteCategory(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.expCats[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.db.expCats, id)
	for _, e := range r.db.expenses {
		if e.CategoryID == id {
			e.CategoryID = ""
		}
	}
	return nil
}

func (r *ExpenseRepo) Create(ctx context.Context, e *entity.Expense) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if e.CategoryID != "" {
		if _, ok := r.db.expCats[e.CategoryID]; !ok {
			return domain.ErrInvalidInput
		}
	}
	cp := *e
	r.db.expenses[e.ID] = &cp
	return nil
}

func (r *ExpenseRepo) GetByID(ctx context.Context, id string) (*entity.Expense, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if e, ok := r.db.expenses[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

func (r *ExpenseRepo) List(ctx context.Context, storeID string, f repository.ExpenseFilter) ([]*entity.Expense, int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	all := []*entity.Expense{}
	for _, e := range r.db.expenses {
		if e.StoreID != storeID {
			continue
		}
		if f.CategoryID != "" && e.CategoryID != f.CategoryID {
			continue
		}
		if !inRange(e.ExpenseDate, f.From, f.To) {
			continue
		}
		cp := *e
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ExpenseDate.After(all[j].ExpenseDate) })
	return paginate(all, f.Limit, f.Offset), len(all), nil
}

func (r *ExpenseRepo) Update(ctx context.Context, e *entity.Expense) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.expenses[e.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *e
	r.db.expenses[e.ID] = &cp
	return nil
}

func (r *ExpenseRepo) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.expenses[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.db.expenses, id)
	return nil
}

func (r *ExpenseRepo) SummaryByCategory(ctx context.Context, storeID string, from, to time.Time) ([]repository.ExpenseCategoryTotal, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	byCat := map[string]*repository.ExpenseCategoryTotal{}
	for _, e := range r.db.expenses {
		if e.StoreID != storeID || !inRange(e.ExpenseDate, from, to) {
			continue
		}
		t, ok := byCat[e.CategoryID]
		if !ok {
			name := "Sin categoría"
			if c, found := r.db.expCats[e.CategoryID]; found {
				name = c.Name
			}
			t = &repository.ExpenseCategoryTotal{CategoryID: e.CategoryID, CategoryName: name, Total: decimal.Zero}
			byCat[e.CategoryID] = t
		}
		t.Count++
		t.Total = t.Total.Add(e.Amount)
	}
	out := make([]repository.ExpenseCategoryTotal, 0, len(byCat))
	for _, t := range byCat {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Total.GreaterThan(out[j].Total) })
	return out, nil
}
