package commission_fee

import "github.com/shopspring/decimal"

// RateCommissionFee charges a fraction of notional with an optional floor.
type RateCommissionFee struct {
	Rate    decimal.Decimal
	Minimum decimal.Decimal
}

func NewRateCommissionFee(rate, minimum float64) CommissionFee {
	return &RateCommissionFee{
		Rate:    decimal.NewFromFloat(rate),
		Minimum: decimal.NewFromFloat(minimum),
	}
}

// Calculate applies the minimum only to trades that actually happen.
func (c *RateCommissionFee) Calculate(notional decimal.Decimal) decimal.Decimal {
	if !notional.IsPositive() {
		return decimal.Zero
	}

	fee := notional.Mul(c.Rate)
	if fee.LessThan(c.Minimum) {
		return c.Minimum
	}

	return fee
}
