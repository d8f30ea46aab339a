package domain

import "time"

// DiscountType selects how a promo code's value is applied.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// PromoCode is a discount voucher with eligibility rules and a usage
// cap. The usage counter is incremented atomically in storage, never
// read-modify-written in application code.
type PromoCode struct {
	ID             string       `json:"id"`
	Code           string       `json:"code"`
	Description    string       `json:"description"`
	DiscountType   DiscountType `json:"discountType"`
	DiscountValue  int64        `json:"discountValue"`
	MaxDiscount    *int64       `json:"maxDiscount,omitempty"`
	MinOrderValue  int64        `json:"minOrderValue"`
	IsActive       bool         `json:"isActive"`
	ValidFrom      time.Time    `json:"validFrom"`
	ExpiryDate     time.Time    `json:"expiryDate"`
	UsageLimit     *int         `json:"usageLimit,omitempty"`
	UsageCount     int          `json:"usageCount"`
	FirstOrderOnly bool         `json:"firstOrderOnly"`
	AllowedUsers   []string     `json:"-"`
	AllowedVendors []VendorRef  `json:"-"`
}

// AllowsUser reports list membership; an empty allow-list allows all.
func (p PromoCode) AllowsUser(userID string) bool {
	if len(p.AllowedUsers) == 0 {
		return true
	}
	for _, id := range p.AllowedUsers {
		if id == userID {
			return true
		}
	}
	return false
}

// AllowsVendor reports list membership; an empty allow-list allows all.
func (p PromoCode) AllowsVendor(vendor VendorRef) bool {
	if len(p.AllowedVendors) == 0 {
		return true
	}
	for _, v := range p.AllowedVendors {
		if v == vendor {
			return true
		}
	}
	return false
}
