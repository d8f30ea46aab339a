package domain

import "time"

// AddOn is a priced option defined on a menu item.
type AddOn struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
	IsVeg bool   `json:"isVeg"`
}

// MenuItem is the catalog's source of truth for per-unit pricing.
type MenuItem struct {
	ID              string    `json:"id"`
	Vendor          VendorRef `json:"vendor"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Price           int64     `json:"price"`
	IsVeg           bool      `json:"isVeg"`
	Category        string    `json:"category,omitempty"`
	AddOns          []AddOn   `json:"addOns,omitempty"`
	SpiceLevels     []string  `json:"spiceLevels,omitempty"`
	PreparationMins int       `json:"preparationTime,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// AddOnByName looks up an add-on definition, case-sensitive.
func (m MenuItem) AddOnByName(name string) (AddOn, bool) {
	for _, a := range m.AddOns {
		if a.Name == name {
			return a, true
		}
	}
	return AddOn{}, false
}

// HasSpiceLevel reports whether level is one of the item's defined
// single-select options. An empty level is always acceptable.
func (m MenuItem) HasSpiceLevel(level string) bool {
	if level == "" {
		return true
	}
	for _, s := range m.SpiceLevels {
		if s == level {
			return true
		}
	}
	return false
}
