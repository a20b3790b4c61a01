package services

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// FormatMoney renders amount as "$1,234.56 MXN": dollar sign, comma thousands
// grouping, exactly two decimals and the ISO currency code.
func FormatMoney(amount decimal.Decimal, currencyCode string) string {
	negative := amount.IsNegative()
	raw := amount.Abs().StringFixed(2)

	parts := strings.SplitN(raw, ".", 2)
	result := "$" + applyThousandsGrouping(parts[0]) + "." + parts[1]
	if negative {
		result = "-" + result
	}
	if code := currencyCodeOrDefault(currencyCode); code != "" {
		result += " " + code
	}
	return result
}

// currencyCodeOrDefault normalizes an ISO 4217 code, falling back to the default currency for
// unknown values.
func currencyCodeOrDefault(code string) string {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return DefaultSettings().Currency
	}
	return unit.String()
}

// applyThousandsGrouping inserts a comma every three digits from the right.
func applyThousandsGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatQuantity prints a dimension or quantity without trailing zeros.
func FormatQuantity(v decimal.Decimal) string {
	return v.Round(2).String()
}
