// Package pricing cálculo de precios finales con descuento porcentual y totales de pedido.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/storefront-api/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// ValidateDiscount exige 0 <= d <= 100.
func ValidateDiscount(d decimal.Decimal) error {
	if d.IsNegative() || d.GreaterThan(hundred) {
		return domain.ErrInvalidInput
	}
	return nil
}

// ValidatePrice exige precio >= 0.
func ValidatePrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return domain.ErrInvalidInput
	}
	return nil
}

// FinalPrice = price * (1 - d/100), redondeado a 2 decimales.
func FinalPrice(price, discountPercent decimal.Decimal) decimal.Decimal {
	if discountPercent.IsZero() {
		return price.Round(2)
	}
	factor := hundred.Sub(discountPercent).Div(hundred)
	return price.Mul(factor).Round(2)
}

// EffectiveDiscount devuelve el descuento de la variante o, si es nil, el del producto.
func EffectiveDiscount(productDiscount decimal.Decimal, variantDiscount *decimal.Decimal) decimal.Decimal {
	if variantDiscount != nil {
		return *variantDiscount
	}
	return productDiscount
}

// Line importe de una línea de pedido.
type Line struct {
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	Quantity        int
}

// Gross importe de lista (sin descuento).
func (l Line) Gross() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))).Round(2)
}

// Total importe con descuento aplicado al precio unitario.
func (l Line) Total() decimal.Decimal {
	return FinalPrice(l.UnitPrice, l.DiscountPercent).Mul(decimal.NewFromInt(int64(l.Quantity))).Round(2)
}

// Totals resumen de importes de un pedido.
type Totals struct {
	Subtotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	ShippingFee   decimal.Decimal
	Total         decimal.Decimal
}

// OrderTotals suma las líneas y el envío: Total = Subtotal - DiscountTotal + ShippingFee.
func OrderTotals(lines []Line, shippingFee decimal.Decimal) Totals {
	var t Totals
	for _, l := range lines {
		gross := l.Gross()
		t.Subtotal = t.Subtotal.Add(gross)
		t.DiscountTotal = t.DiscountTotal.Add(gross.Sub(l.Total()))
	}
	t.ShippingFee = shippingFee
	t.Total = t.Subtotal.Sub(t.DiscountTotal).Add(shippingFee)
	return t
}
