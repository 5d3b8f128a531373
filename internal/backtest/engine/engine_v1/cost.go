package engine

import (
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/shopspring/decimal"
)

// CostModel prices fills and transaction costs. It is stateless and all
// arithmetic is done in decimal so that cash never drifts.
type CostModel struct {
	slippage   decimal.Decimal
	taxRate    decimal.Decimal
	commission commission_fee.CommissionFee
}

// NewCostModel builds the cost model for a run config.
func NewCostModel(cfg types.RunConfig) CostModel {
	return CostModel{
		slippage:   decimal.NewFromFloat(cfg.Slippage),
		taxRate:    decimal.NewFromFloat(cfg.TaxRate),
		commission: commission_fee.GetCommissionFeeHandler(commission_fee.BrokerRate, cfg.CommissionRate, cfg.MinCommission),
	}
}

// BuyFillPrice returns quote * (1 + slippage).
func (c CostModel) BuyFillPrice(quote decimal.Decimal) decimal.Decimal {
	return quote.Mul(decimal.NewFromInt(1).Add(c.slippage))
}

// SellFillPrice returns quote * (1 - slippage).
func (c CostModel) SellFillPrice(quote decimal.Decimal) decimal.Decimal {
	return quote.Mul(decimal.NewFromInt(1).Sub(c.slippage))
}

// Commission is charged on both entry and exit.
func (c CostModel) Commission(notional decimal.Decimal) decimal.Decimal {
	return c.commission.Calculate(notional)
}

// SellTax is charged on exit only.
func (c CostModel) SellTax(notional decimal.Decimal) decimal.Decimal {
	return notional.Mul(c.taxRate)
}

// NetCost is the cash debited to buy shares at fillPrice, commission included.
func (c CostModel) NetCost(fillPrice decimal.Decimal, shares int64) (netCost, commission decimal.Decimal) {
	gross := fillPrice.Mul(decimal.NewFromInt(shares))
	commission = c.Commission(gross)

	return gross.Add(commission), commission
}

// NetProceeds is the cash credited for selling shares at fillPrice after
// commission and tax.
func (c CostModel) NetProceeds(fillPrice decimal.Decimal, shares int64) (netProceeds, commission, tax decimal.Decimal) {
	gross := fillPrice.Mul(decimal.NewFromInt(shares))
	commission = c.Commission(gross)
	tax = c.SellTax(gross)

	return gross.Sub(commission).Sub(tax), commission, tax
}

// LotShares returns floor(cash * fraction / fillPrice / lot) * lot.
func LotShares(cash, fraction, fillPrice decimal.Decimal, lot int64) int64 {
	if !fillPrice.IsPositive() || lot <= 0 {
		return 0
	}

	lotSize := decimal.NewFromInt(lot)
	lots := cash.Mul(fraction).Div(fillPrice).Div(lotSize).Floor()

	if !lots.IsPositive() {
		return 0
	}

	return lots.Mul(lotSize).IntPart()
}

// AffordableShares sizes an entry from the available cash and steps down one
// lot at a time until the net cost, commission included, fits in cash.
func (c CostModel) AffordableShares(cash, fraction, fillPrice decimal.Decimal, lot int64) int64 {
	shares := LotShares(cash, fraction, fillPrice, lot)

	for shares > 0 {
		netCost, _ := c.NetCost(fillPrice, shares)
		if netCost.LessThanOrEqual(cash) {
			return shares
		}

		shares -= lot
	}

	return 0
}
