package domain

// Address is a delivery location owned by a user. Orders keep a full
// copy rather than a reference.
type Address struct {
	ID      string  `json:"id,omitempty"`
	Label   string  `json:"label,omitempty"`
	Line1   string  `json:"line1"`
	Line2   string  `json:"line2,omitempty"`
	City    string  `json:"city"`
	Pincode string  `json:"pincode"`
	Lat     float64 `json:"lat,omitempty"`
	Lng     float64 `json:"lng,omitempty"`
}
