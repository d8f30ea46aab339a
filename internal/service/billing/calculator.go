package billing

import (
	"math"

	"nanoeats/internal/config"
	"nanoeats/internal/domain"
)

// Calculator composes the bill from a cart's lines and the configured
// fees. Pure and deterministic: no I/O, no clock, no side effects.
type Calculator struct {
	fees config.Fees
}

func New(fees config.Fees) *Calculator {
	return &Calculator{fees: fees}
}

// Compute builds the Billing value object. The combined discount is
// clamped so the final total never goes below zero; loyalty points are
// earned on the subtotal alone, one point per ten currency units,
// unaffected by discounts, fees and tax.
func (c *Calculator) Compute(lines []domain.CartLine, promoDiscount, loyaltyDiscount, tip int64) domain.Billing {
	var subtotal int64
	for _, l := range lines {
		subtotal += l.Price * int64(l.Quantity)
	}

	tax := int64(math.Round(float64(subtotal) * c.fees.TaxRatePercent / 100))

	gross := subtotal + c.fees.DeliveryFee + tax + c.fees.PackagingFee + c.fees.PlatformFee
	totalDiscount := promoDiscount + loyaltyDiscount
	if totalDiscount > gross {
		totalDiscount = gross
	}
	if totalDiscount < 0 {
		totalDiscount = 0
	}

	return domain.Billing{
		Subtotal:         subtotal,
		PromoDiscount:    promoDiscount,
		LoyaltyDiscount:  loyaltyDiscount,
		TotalDiscount:    totalDiscount,
		DeliveryFee:      c.fees.DeliveryFee,
		Tax:              tax,
		PackagingFee:     c.fees.PackagingFee,
		PlatformFee:      c.fees.PlatformFee,
		Tip:              tip,
		TotalAmount:      gross - totalDiscount + tip,
		NanoPointsEarned: subtotal / 10,
	}
}
