package commission_fee

import "github.com/shopspring/decimal"

type CommissionFee interface {
	// Calculate returns the commission charged on a trade with the given notional value
	Calculate(notional decimal.Decimal) decimal.Decimal
}

type Broker string

const (
	BrokerRate Broker = "rate"
	BrokerZero Broker = "zero_commission"
)

var AllBrokers = []any{
	BrokerRate,
	BrokerZero,
}

// GetCommissionFeeHandler returns the handler for a broker. Unknown brokers
// and a zero rate with no minimum are commission free.
func GetCommissionFeeHandler(broker Broker, rate, minimum float64) CommissionFee {
	switch broker {
	case BrokerRate:
		if rate == 0 && minimum == 0 {
			return NewZeroCommissionFee()
		}

		return NewRateCommissionFee(rate, minimum)
	default:
		return NewZeroCommissionFee()
	}
}
