package booking

import "fmt"

// insuranceRatePercent is the insurance surcharge as a percentage of the
// rental subtotal.
const insuranceRatePercent = 15

// Quote is the result of a price calculation.
type Quote struct {
	TotalCents     int64
	InsuranceCents int64
}

// PricingParams holds the inputs for price calculation.
type PricingParams struct {
	BaseDailyRateCents int64
	Dates              DateRange
	InsuranceSelected  bool
}

// PriceCalculator computes the total price for a booking request. The
// admission flow requires a successful quote before any write happens.
type PriceCalculator interface {
	Calculate(params PricingParams) (Quote, error)
}

// StandardPriceCalculator implements the default rate-times-days pricing with
// an optional insurance surcharge.
type StandardPriceCalculator struct{}

// NewStandardPriceCalculator creates a new StandardPriceCalculator.
func NewStandardPriceCalculator() *StandardPriceCalculator {
	return &StandardPriceCalculator{}
}

// Calculate computes the quote in cents:
//   - subtotal: base daily rate x rental days
//   - insurance: 15% of the subtotal when selected, otherwise 0
//   - total: subtotal + insurance
func (c *StandardPriceCalculator) Calculate(params PricingParams) (Quote, error) {
	if params.BaseDailyRateCents < 0 {
		return Quote{}, fmt.Errorf("base daily rate cannot be negative")
	}

	days := params.Dates.Days()
	if days <= 0 {
		return Quote{}, fmt.Errorf("invalid date range: %d days", days)
	}

	subtotal := params.BaseDailyRateCents * int64(days)

	var insurance int64
	if params.InsuranceSelected {
		insurance = subtotal * insuranceRatePercent / 100
	}

	return Quote{
		TotalCents:     subtotal + insurance,
		InsuranceCents: insurance,
	}, nil
}
