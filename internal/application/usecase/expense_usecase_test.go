package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/application/usecase"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/testutil/fakerepo"
)

func TestExpense_CategoriasUnicas(t *testing.T) {
	uc := usecase.NewExpenseUseCase(fakerepo.New().Expenses())
	ctx := context.Background()

	_, err := uc.CreateCategory(ctx, storeA, dto.CreateExpenseCategoryRequest{Name: "Arriendo"})
	require.NoError(t, err)
	_, err = uc.CreateCategory(ctx, storeA, dto.CreateExpenseCategoryRequest{Name: "ARRIENDO"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestExpense_CrearValidaMontoYFecha(t *testing.T) {
	uc := usecase.NewExpenseUseCase(fakerepo.New().Expenses())
	ctx := context.Background()

	_, err := uc.Create(ctx, storeA, dto.CreateExpenseRequest{Description: "x", Amount: dec("0")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, storeA, dto.CreateExpenseRequest{Description: "x", Amount: dec("1"), ExpenseDate: "31/01/2026"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, storeA, dto.CreateExpenseRequest{Description: "x", Amount: dec("1"), CategoryID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	e, err := uc.Create(ctx, storeA, dto.CreateExpenseRequest{Description: "Luz", Amount: dec("120000.50"), ExpenseDate: "2026-02-10"})
	require.NoError(t, err)
	assert.Equal(t, "2026-02-10", e.ExpenseDate)
}

func TestExpense_ListYResumen(t *testing.T) {
	uc := usecase.NewExpenseUseCase(fakerepo.New().Expenses())
	ctx := context.Background()
	rent, err := uc.CreateCategory(ctx, storeA, dto.CreateExpenseCategoryRequest{Name: "Arriendo"})
	require.NoError(t, err)

	for _, in := range []dto.CreateExpenseRequest{
		{Description: "Local enero", Amount: dec("1000000"), ExpenseDate: "2026-01-05", CategoryID: rent.ID},
		{Description: "Local febrero", Amount: dec("1000000"), ExpenseDate: "2026-02-05", CategoryID: rent.ID},
		{Description: "Cinta", Amount: dec("5000"), ExpenseDate: "2026-02-28"},
	} {
		_, err := uc.Create(ctx, storeA, in)
		require.NoError(t, err)
	}

	feb, err := uc.List(ctx, storeA, dto.ExpenseListQuery{From: "2026-02-01", To: "2026-02-28"})
	require.NoError(t, err)
	assert.Equal(t, 2, feb.Page.Total, "el extremo final es inclusive")

	sum, err := uc.Summary(ctx, storeA, "2026-02-01", "2026-02-28")
	require.NoError(t, err)
	require.Len(t, sum.Categories, 2)
	assert.Equal(t, "Arriendo", sum.Categories[0].CategoryName)
	assert.Equal(t, "Sin categoría", sum.Categories[1].CategoryName)
	assert.True(t, sum.Total.Equal(dec("1005000")))

	_, err = uc.Summary(ctx, storeA, "2026-03-01", "2026-02-01")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseDateRange(t *testing.T) {
	from, to, err := usecase.ParseDateRange("2026-02-01", "2026-02-28")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-01", from.Format(usecase.DateLayout))
	assert.Equal(t, "2026-03-01", to.Format(usecase.DateLayout))

	from, to, err = usecase.ParseDateRange("", "")
	require.NoError(t, err)
	assert.True(t, from.IsZero())
	assert.True(t, to.IsZero())
}
