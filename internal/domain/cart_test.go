package domain

import "testing"

func TestCustomizationKeyOrderInsensitive(t *testing.T) {
	a := Customization{
		SpiceLevel: "hot",
		AddOns:     []AddOn{{Name: "cheese"}, {Name: "fries"}},
		Notes:      "no onion",
	}
	b := Customization{
		SpiceLevel: "hot",
		AddOns:     []AddOn{{Name: "fries"}, {Name: "cheese"}},
		Notes:      "no onion",
	}
	if a.Key() != b.Key() {
		t.Fatalf("add-on order must not change the key: %q vs %q", a.Key(), b.Key())
	}
}

func TestCustomizationKeyDistinguishes(t *testing.T) {
	base := Customization{SpiceLevel: "hot", AddOns: []AddOn{{Name: "cheese"}}}

	spicier := base
	spicier.SpiceLevel = "mild"
	if base.Key() == spicier.Key() {
		t.Fatal("spice level must change the key")
	}

	noted := base
	noted.Notes = "extra crispy"
	if base.Key() == noted.Key() {
		t.Fatal("notes must change the key")
	}

	more := base
	more.AddOns = []AddOn{{Name: "cheese"}, {Name: "fries"}}
	if base.Key() == more.Key() {
		t.Fatal("add-on set must change the key")
	}
}

func TestCartSubtotal(t *testing.T) {
	c := Cart{Lines: []CartLine{
		{Price: 180, Quantity: 2},
		{Price: 150, Quantity: 1},
	}}
	if got := c.Subtotal(); got != 510 {
		t.Fatalf("expected subtotal 510, got %d", got)
	}

	if got := (Cart{}).Subtotal(); got != 0 {
		t.Fatalf("expected 0 for empty cart, got %d", got)
	}
}

func TestCustomizationAddOnTotal(t *testing.T) {
	c := Customization{AddOns: []AddOn{{Price: 30}, {Price: 50}}}
	if got := c.AddOnTotal(); got != 80 {
		t.Fatalf("expected 80, got %d", got)
	}
}
