package types

import "testing"

func TestCanOrderSize(t *testing.T) {
	p := Product{
		Sizes:          []string{"S", "M", "L", "XL"},
		AvailableSizes: []string{"M", "L"},
	}

	if !p.CanOrderSize("M") {
		t.Fatal("M should be orderable when listed in availableSizes")
	}
	if p.CanOrderSize("S") {
		t.Fatal("S is listed but not available, should not be orderable")
	}

	p.AvailableSizes = nil
	if !p.CanOrderSize("S") {
		t.Fatal("without availableSizes every listed size is orderable")
	}
	if p.CanOrderSize("XXL") {
		t.Fatal("XXL is not a listed size")
	}

	empty := Product{}
	if !empty.CanOrderSize("onesize") {
		t.Fatal("a product with no size data accepts any size")
	}
}

func TestOrderSubtotalAndShipping(t *testing.T) {
	o := Order{
		Total: 105000,
		Items: []OrderItem{
			{Price: 45000, Quantity: 2},
			{Price: 0, Quantity: 1},
		},
	}
	if got := o.Subtotal(); got != 90000 {
		t.Fatalf("subtotal = %v, want 90000", got)
	}
	if got := o.ShippingCost(); got != 15000 {
		t.Fatalf("shipping = %v, want 15000", got)
	}

	o.Total = 80000
	if got := o.ShippingCost(); got != 0 {
		t.Fatalf("shipping floors at zero, got %v", got)
	}
}

func TestShippingCostFor(t *testing.T) {
	s := StoreSettings{ShippingFlatRate: 15000, FreeShippingThreshold: 200000}

	if got := s.ShippingCostFor(199999); got != 15000 {
		t.Fatalf("below threshold: got %v, want flat rate", got)
	}
	if got := s.ShippingCostFor(200000); got != 0 {
		t.Fatalf("at threshold: got %v, want free shipping", got)
	}
}

func TestDisplayName(t *testing.T) {
	u := User{Username: "goustty_fan", FirstName: "Laura", LastName: "Reyes"}
	if got := u.DisplayName(); got != "Laura Reyes" {
		t.Fatalf("got %q", got)
	}
	u.LastName = ""
	if got := u.DisplayName(); got != "Laura" {
		t.Fatalf("got %q", got)
	}
	u.FirstName = ""
	if got := u.DisplayName(); got != "goustty_fan" {
		t.Fatalf("got %q", got)
	}
}
