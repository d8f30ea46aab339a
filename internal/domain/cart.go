package domain

import (
	"sort"
	"strings"
	"time"
)

// Customization is the selection attached to a cart or order line.
// AddOns carry server-side prices, never client-supplied ones.
type Customization struct {
	SpiceLevel string  `json:"spiceLevel,omitempty"`
	AddOns     []AddOn `json:"addOns,omitempty"`
	Notes      string  `json:"notes,omitempty"`
}

// Key is the merge identity of a customization: same spice level, same
// add-on set (order-insensitive) and same notes collapse into one line.
func (c Customization) Key() string {
	names := make([]string, 0, len(c.AddOns))
	for _, a := range c.AddOns {
		names = append(names, a.Name)
	}
	sort.Strings(names)
	return c.SpiceLevel + "|" + strings.Join(names, ",") + "|" + c.Notes
}

// AddOnTotal is the per-unit price contribution of the selected add-ons.
func (c Customization) AddOnTotal() int64 {
	var total int64
	for _, a := range c.AddOns {
		total += a.Price
	}
	return total
}

// CartLine is one menu item at a quantity and customization. Price is
// the snapshotted per-unit price (base + validated add-ons) taken at
// add/update time.
type CartLine struct {
	ID            string        `json:"id"`
	CartID        string        `json:"-"`
	MenuItemID    string        `json:"menuItem"`
	ItemName      string        `json:"name,omitempty"`
	IsVeg         bool          `json:"isVeg"`
	Quantity      int           `json:"quantity"`
	Price         int64         `json:"price"`
	Customization Customization `json:"customizations"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// Cart holds a user's pending lines for a single vendor. One cart per
// (user, vendor); carts never outlive their last line.
type Cart struct {
	ID         string     `json:"id"`
	UserID     string     `json:"-"`
	Vendor     VendorRef  `json:"vendor"`
	VendorName string     `json:"vendorName,omitempty"`
	Version    int        `json:"version"`
	Lines      []CartLine `json:"items"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Subtotal is the sum of snapshotted line price times quantity.
func (c Cart) Subtotal() int64 {
	var total int64
	for _, l := range c.Lines {
		total += l.Price * int64(l.Quantity)
	}
	return total
}
