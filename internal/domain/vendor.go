package domain

import "encoding/json"

// VendorKind discriminates the two selling entities.
type VendorKind string

const (
	VendorRestaurant VendorKind = "restaurant"
	VendorChef       VendorKind = "chef"
)

// VendorRef is a tagged reference to exactly one restaurant or chef.
// The zero value is invalid; use NewVendorRef or FromIDs.
type VendorRef struct {
	Kind VendorKind
	ID   string
}

func NewVendorRef(kind VendorKind, id string) (VendorRef, error) {
	if id == "" || (kind != VendorRestaurant && kind != VendorChef) {
		return VendorRef{}, Validationf("vendor reference requires a restaurant or chef id")
	}
	return VendorRef{Kind: kind, ID: id}, nil
}

// VendorRefFromIDs builds a VendorRef from the two-nullable-field wire
// shape, enforcing the exactly-one invariant.
func VendorRefFromIDs(restaurantID, chefID string) (VendorRef, error) {
	switch {
	case restaurantID != "" && chefID != "":
		return VendorRef{}, Validationf("provide either restaurantId or chefId, not both")
	case restaurantID != "":
		return VendorRef{Kind: VendorRestaurant, ID: restaurantID}, nil
	case chefID != "":
		return VendorRef{Kind: VendorChef, ID: chefID}, nil
	default:
		return VendorRef{}, Validationf("restaurantId or chefId is required")
	}
}

// VendorRefFromNullable converts the two-nullable-column storage shape.
func VendorRefFromNullable(restaurantID, chefID *string) (VendorRef, error) {
	var r, c string
	if restaurantID != nil {
		r = *restaurantID
	}
	if chefID != nil {
		c = *chefID
	}
	return VendorRefFromIDs(r, c)
}

func (v VendorRef) IsZero() bool { return v.ID == "" }

// RestaurantID returns the id when the vendor is a restaurant, else "".
func (v VendorRef) RestaurantID() string {
	if v.Kind == VendorRestaurant {
		return v.ID
	}
	return ""
}

// ChefID returns the id when the vendor is a chef, else "".
func (v VendorRef) ChefID() string {
	if v.Kind == VendorChef {
		return v.ID
	}
	return ""
}

type vendorRefJSON struct {
	RestaurantID string `json:"restaurantId,omitempty"`
	ChefID       string `json:"chefId,omitempty"`
}

// MarshalJSON keeps the restaurantId/chefId shape existing clients use.
func (v VendorRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(vendorRefJSON{RestaurantID: v.RestaurantID(), ChefID: v.ChefID()})
}

func (v *VendorRef) UnmarshalJSON(data []byte) error {
	var raw vendorRefJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ref, err := VendorRefFromIDs(raw.RestaurantID, raw.ChefID)
	if err != nil {
		return err
	}
	*v = ref
	return nil
}

// Vendor is the projection joined onto carts and orders for display.
type Vendor struct {
	Ref       VendorRef `json:"-"`
	Name      string    `json:"name"`
	IsVegOnly bool      `json:"isVegOnly"`
}
