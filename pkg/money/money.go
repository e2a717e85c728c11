// Package money handles order-total arithmetic and Colombian peso display
// formatting. COP is a zero-decimal currency in practice: amounts are whole
// pesos with dot-separated thousands, "$ 1.234.567".
package money

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/goustty/storefront/pkg/enums"
)

// LineTotal multiplies a unit price by a quantity without float drift.
func LineTotal(unitPrice float64, quantity int) float64 {
	total := decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(quantity)))
	f, _ := total.Float64()
	return f
}

// Sum adds a series of amounts through decimal arithmetic.
func Sum(amounts ...float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	f, _ := total.Float64()
	return f
}

// Format renders an amount for display in the given currency. COP uses the
// es-CO convention; other currencies fall back to a plain two-decimal form.
func Format(amount float64, currency enums.Currency) string {
	d := decimal.NewFromFloat(amount)
	switch currency {
	case enums.CurrencyCOP:
		return "$ " + groupThousands(d.Round(0).String(), ".")
	default:
		s := d.Round(2).StringFixed(2)
		whole, frac, _ := strings.Cut(s, ".")
		return "$" + groupThousands(whole, ",") + "." + frac
	}
}

func groupThousands(digits, sep string) string {
	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}

	var b strings.Builder
	pre := len(digits) % 3
	if pre > 0 {
		b.WriteString(digits[:pre])
	}
	for i := pre; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}

	if neg {
		return "-" + b.String()
	}
	return b.String()
}
