package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/pricing"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestFinalPrice(t *testing.T) {
	assert.True(t, d("100").Equal(pricing.FinalPrice(d("100"), decimal.Zero)))
	assert.True(t, d("90").Equal(pricing.FinalPrice(d("100"), d("10"))))
	assert.True(t, d("33.33").Equal(pricing.FinalPrice(d("49.99"), d("33.33"))), pricing.FinalPrice(d("49.99"), d("33.33")).String())
	assert.True(t, decimal.Zero.Equal(pricing.FinalPrice(d("80"), d("100"))))
}

func TestValidateDiscount(t *testing.T) {
	assert.NoError(t, pricing.ValidateDiscount(decimal.Zero))
	assert.NoError(t, pricing.ValidateDiscount(d("100")))
	assert.ErrorIs(t, pricing.ValidateDiscount(d("-1")), domain.ErrInvalidInput)
	assert.ErrorIs(t, pricing.ValidateDiscount(d("100.01")), domain.ErrInvalidInput)
}

func TestEffectiveDiscount(t *testing.T) {
	v := d("5")
	assert.True(t, v.Equal(pricing.EffectiveDiscount(d("20"), &v)))
	assert.True(t, d("20").Equal(pricing.EffectiveDiscount(d("20"), nil)))
}

func TestOrderTotals(t *testing.T) {
	lines := []pricing.Line{
		{UnitPrice: d("50000"), DiscountPercent: d("10"), Quantity: 2}, // 100000 - 10000
		{UnitPrice: d("15000"), DiscountPercent: decimal.Zero, Quantity: 1},
	}
	tot := pricing.OrderTotals(lines, d("8000"))

	assert.True(t, d("115000").Equal(tot.Subtotal), tot.Subtotal.String())
	assert.True(t, d("10000").Equal(tot.DiscountTotal), tot.DiscountTotal.String())
	assert.True(t, d("8000").Equal(tot.ShippingFee))
	assert.True(t, d("113000").Equal(tot.Total), tot.Total.String())
}
