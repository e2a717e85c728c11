package money

import (
	"testing"

	"github.com/goustty/storefront/pkg/enums"
)

func TestLineTotal(t *testing.T) {
	if got := LineTotal(45000, 2); got != 90000 {
		t.Fatalf("got %v, want 90000", got)
	}
	if got := LineTotal(0, 5); got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
}

func TestSum(t *testing.T) {
	if got := Sum(90000, 15000); got != 105000 {
		t.Fatalf("got %v, want 105000", got)
	}
	if got := Sum(); got != 0 {
		t.Fatalf("empty sum = %v, want 0", got)
	}
}

func TestFormatCOP(t *testing.T) {
	cases := []struct {
		amount float64
		want   string
	}{
		{45000, "$ 45.000"},
		{1234567, "$ 1.234.567"},
		{950, "$ 950"},
		{0, "$ 0"},
		{-15000, "$ -15.000"},
	}
	for _, tc := range cases {
		if got := Format(tc.amount, enums.CurrencyCOP); got != tc.want {
			t.Fatalf("Format(%v) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}

func TestFormatUSD(t *testing.T) {
	if got := Format(1234.5, enums.CurrencyUSD); got != "$1,234.50" {
		t.Fatalf("got %q", got)
	}
}
