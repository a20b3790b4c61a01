package services

import (
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	// TaxFactor is the IVA multiplier applied after discount.
	TaxFactor = decimal.RequireFromString("1.16")
	// minDiscountFactor is the smallest (1 - d/100) for which the discount
	// amount can still be recovered from a rounded total.
	minDiscountFactor = decimal.RequireFromString("0.01")
)

// TotalsBreakdown is the display split of a stored total.
type TotalsBreakdown struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// LineItemTotal prices a single item. Area items multiply both dimensions;
// linear items use the length only. A zero price yields zero.
func LineItemTotal(item LineItem) (decimal.Decimal, error) {
	checks := []struct {
		field string
		v     decimal.Decimal
	}{
		{"unitPrice", item.UnitPrice},
		{"length", item.Length},
		{"width", item.Width},
		{"quantity", item.Quantity},
	}
	for _, c := range checks {
		if c.v.IsNegative() {
			return decimal.Zero, &InvalidInputError{Field: c.field, Reason: "must not be negative"}
		}
	}
	if item.UnitPrice.IsZero() {
		return decimal.Zero, nil
	}

	switch item.UnitType {
	case UnitArea:
		return item.UnitPrice.Mul(item.Length).Mul(item.Width).Mul(item.Quantity), nil
	case UnitLinear:
		return item.UnitPrice.Mul(item.Length).Mul(item.Quantity), nil
	}
	return decimal.Zero, &InvalidInputError{Field: "unitType", Reason: "unknown unit type " + string(item.UnitType)}
}

// Subtotal sums the line totals.
func Subtotal(items []LineItem) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, it := range items {
		lt, err := LineItemTotal(it)
		if err != nil {
			return decimal.Zero, err
		}
		sum = sum.Add(lt)
	}
	return sum, nil
}

func checkDiscount(discountPercent decimal.Decimal) error {
	if discountPercent.IsNegative() || discountPercent.GreaterThan(hundred) {
		return &InvalidInputError{Field: "discountPercent", Reason: "must be between 0 and 100"}
	}
	return nil
}

// DocumentTotal applies the discount to the subtotal, then tax, and rounds
// half away from zero to cents.
func DocumentTotal(items []LineItem, discountPercent decimal.Decimal, includeTax bool) (decimal.Decimal, error) {
	if err := checkDiscount(discountPercent); err != nil {
		return decimal.Zero, err
	}
	total, err := Subtotal(items)
	if err != nil {
		return decimal.Zero, err
	}
	if discountPercent.IsPositive() {
		total = total.Mul(decimal.NewFromInt(1).Sub(discountPercent.Div(hundred)))
	}
	if includeTax {
		total = total.Mul(TaxFactor)
	}
	return total.Round(2), nil
}

// Breakdown derives subtotal, discount and tax from a stored total. When the
// discount leaves less than one percent of the subtotal the discount amount
// cannot be recovered and is reported as zero.
func Breakdown(total, discountPercent decimal.Decimal, includeTax bool) TotalsBreakdown {
	preTax := total
	if includeTax {
		preTax = total.Div(TaxFactor)
	}
	tax := total.Sub(preTax)

	discount := decimal.Zero
	factor := decimal.NewFromInt(1).Sub(discountPercent.Div(hundred))
	if discountPercent.IsPositive() && factor.GreaterThanOrEqual(minDiscountFactor) {
		discount = preTax.Div(factor).Sub(preTax)
	}

	return TotalsBreakdown{
		Subtotal: preTax.Add(discount).Round(2),
		Discount: discount.Round(2),
		Tax:      tax.Round(2),
		Total:    total.Round(2),
	}
}

// CashChange is the change owed for a cash sale. Paying less than the total is
// rejected rather than clamped.
func CashChange(total, amountPaid decimal.Decimal) (decimal.Decimal, error) {
	if amountPaid.IsNegative() {
		return decimal.Zero, &InvalidInputError{Field: "amountPaid", Reason: "must not be negative"}
	}
	if amountPaid.LessThan(total) {
		return decimal.Zero, &InvalidInputError{Field: "amountPaid", Reason: "is less than the total"}
	}
	return amountPaid.Sub(total), nil
}

// CreditBalance is what remains owed after the advance on a credit sale.
func CreditBalance(total, advance decimal.Decimal) (decimal.Decimal, error) {
	if advance.IsNegative() {
		return decimal.Zero, &InvalidInputError{Field: "advance", Reason: "must not be negative"}
	}
	if advance.GreaterThan(total) {
		return decimal.Zero, &InvalidInputError{Field: "advance", Reason: "exceeds the total"}
	}
	return total.Sub(advance), nil
}
