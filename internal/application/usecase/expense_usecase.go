package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

// DateLayout formato de fechas en query strings y en gastos.
const DateLayout = "2006-01-02"

// ExpenseUseCase gastos de la tienda y sus categorías.
type ExpenseUseCase struct {
	repo repository.ExpenseRepository
}

// NewExpenseUseCase construye el caso de uso.
func NewExpenseUseCase(repo repository.ExpenseRepository) *ExpenseUseCase {
	return &ExpenseUseCase{repo: repo}
}

// CreateCategory nombre único por tienda, sin distinguir mayúsculas.
func (uc *ExpenseUseCase) CreateCategory(ctx context.Context, storeID string, in dto.CreateExpenseCategoryRequest) (*dto.ExpenseCategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetCategoryByName(ctx, storeID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	c := &entity.ExpenseCategory{
		ID:          uuid.New().String(),
		StoreID:     storeID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return toExpenseCategoryResponse(c), nil
}

func (uc *ExpenseUseCase) ListCategories(ctx context.Context, storeID string) ([]dto.ExpenseCategoryResponse, error) {
	list, err := uc.repo.ListCategories(ctx, storeID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExpenseCategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toExpenseCategoryResponse(c))
	}
	return out, nil
}

func (uc *ExpenseUseCase) UpdateCategory(ctx context.Context, storeID, id string, in dto.UpdateExpenseCategoryRequest) (*dto.ExpenseCategoryResponse, error) {
	c, err := uc.category(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		c.Name = name
	}
	if in.Description != nil {
		c.Description = strings.TrimSpace(*in.Description)
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}
	return toExpenseCategoryResponse(c), nil
}

// DeleteCategory los gastos de la categoría quedan sin categoría.
func (uc *ExpenseUseCase) DeleteCategory(ctx context.Context, storeID, id string) error {
	if _, err := uc.category(ctx, storeID, id); err != nil {
		return err
	}
	return uc.repo.DeleteCategory(ctx, id)
}

// Create registra un gasto. Monto > 0; fecha vacía = hoy.
func (uc *ExpenseUseCase) Create(ctx context.Context, storeID string, in dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	desc := strings.TrimSpace(in.Description)
	if desc == "" || !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	date, err := parseDateOr(in.ExpenseDate, time.Now())
	if err != nil {
		return nil, err
	}
	if err := uc.checkCategory(ctx, storeID, in.CategoryID); err != nil {
		return nil, err
	}
	now := time.Now()
	e := &entity.Expense{
		ID:            uuid.New().String(),
		StoreID:       storeID,
		CategoryID:    in.CategoryID,
		Description:   desc,
		Amount:        in.Amount,
		ExpenseDate:   date,
		PaymentMethod: strings.TrimSpace(in.PaymentMethod),
		Notes:         strings.TrimSpace(in.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return toExpenseResponse(e), nil
}

func (uc *ExpenseUseCase) Get(ctx context.Context, storeID, id string) (*dto.ExpenseResponse, error) {
	e, err := uc.get(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	return toExpenseResponse(e), nil
}

// List gastos por rango de fechas (ambos extremos inclusive) y categoría.
func (uc *ExpenseUseCase) List(ctx context.Context, storeID string, q dto.ExpenseListQuery) (*dto.ExpenseListResponse, error) {
	from, to, err := ParseDateRange(q.From, q.To)
	if err != nil {
		return nil, err
	}
	q.DefaultPage()
	list, total, err := uc.repo.List(ctx, storeID, repository.ExpenseFilter{
		CategoryID: q.CategoryID,
		From:       from,
		To:         to,
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ExpenseResponse, 0, len(list))
	for _, e := range list {
		items = append(items, *toExpenseResponse(e))
	}
	return &dto.ExpenseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

func (uc *ExpenseUseCase) Update(ctx context.Context, storeID, id string, in dto.UpdateExpenseRequest) (*dto.ExpenseResponse, error) {
	e, err := uc.get(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		if desc == "" {
			return nil, domain.ErrInvalidInput
		}
		e.Description = desc
	}
	if in.Amount != nil {
		if !in.Amount.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		e.Amount = *in.Amount
	}
	if in.ExpenseDate != nil {
		date, err := parseDateOr(*in.ExpenseDate, e.ExpenseDate)
		if err != nil {
			return nil, err
		}
		e.ExpenseDate = date
	}
	if in.CategoryID != nil {
		if err := uc.checkCategory(ctx, storeID, *in.CategoryID); err != nil {
			return nil, err
		}
		e.CategoryID = *in.CategoryID
	}
	if in.PaymentMethod != nil {
		e.PaymentMethod = strings.TrimSpace(*in.PaymentMethod)
	}
	if in.Notes != nil {
		e.Notes = strings.TrimSpace(*in.Notes)
	}
	e.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return toExpenseResponse(e), nil
}

func (uc *ExpenseUseCase) Delete(ctx context.Context, storeID, id string) error {
	if _, err := uc.get(ctx, storeID, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// Summary totales por categoría y total general del rango.
func (uc *ExpenseUseCase) Summary(ctx context.Context, storeID, fromStr, toStr string) (*dto.ExpenseSummaryResponse, error) {
	from, to, err := ParseDateRange(fromStr, toStr)
	if err != nil {
		return nil, err
	}
	rows, err := uc.repo.SummaryByCategory(ctx, storeID, from, to)
	if err != nil {
		return nil, err
	}
	out := &dto.ExpenseSummaryResponse{From: fromStr, To: toStr, Categories: make([]dto.ExpenseCategoryTotal, 0, len(rows)), Total: decimal.Zero}
	for _, r := range rows {
		out.Categories = append(out.Categories, dto.ExpenseCategoryTotal{
			CategoryID:   r.CategoryID,
			CategoryName: r.CategoryName,
			Count:        r.Count,
			Total:        r.Total,
		})
		out.Total = out.Total.Add(r.Total)
	}
	return out, nil
}

func (uc *ExpenseUseCase) get(ctx context.Context, storeID, id string) (*entity.Expense, error) {
	e, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil || e.StoreID != storeID {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func (uc *ExpenseUseCase) category(ctx context.Context, storeID, id string) (*entity.ExpenseCategory, error) {
	c, err := uc.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil || c.StoreID != storeID {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (uc *ExpenseUseCase) checkCategory(ctx context.Context, storeID, id string) error {
	if id == "" {
		return nil
	}
	if _, err := uc.category(ctx, storeID, id); err != nil {
		return domain.ErrInvalidInput
	}
	return nil
}

// ParseDateRange convierte YYYY-MM-DD a [from, to+1día). Vacío = sin límite.
func ParseDateRange(fromStr, toStr string) (time.Time, time.Time, error) {
	var from, to time.Time
	var err error
	if fromStr != "" {
		if from, err = time.Parse(DateLayout, fromStr); err != nil {
			return from, to, domain.ErrInvalidInput
		}
	}
	if toStr != "" {
		if to, err = time.Parse(DateLayout, toStr); err != nil {
			return from, to, domain.ErrInvalidInput
		}
		to = to.AddDate(0, 0, 1)
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return from, to, domain.ErrInvalidInput
	}
	return from, to, nil
}

func parseDateOr(s string, fallback time.Time) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		y, m, d := fallback.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, domain.ErrInvalidInput
	}
	return t, nil
}

func toExpenseCategoryResponse(c *entity.ExpenseCategory) *dto.ExpenseCategoryResponse {
	return &dto.ExpenseCategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toExpenseResponse(e *entity.Expense) *dto.ExpenseResponse {
	return &dto.ExpenseResponse{
		ID:            e.ID,
		CategoryID:    e.CategoryID,
		Description:   e.Description,
		Amount:        e.Amount,
		ExpenseDate:   e.ExpenseDate.Format(DateLayout),
		PaymentMethod: e.PaymentMethod,
		Notes:         e.Notes,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}
