package moneymarket

import (
	"github.com/shopspring/decimal"
)

// UtilizationRate utilization rate
// utilization_rate = liabilities/(balance + liabilities - reserves)
func UtilizationRate(balance, liabilities, reserves decimal.Decimal) decimal.Decimal {
	total := balance.Add(liabilities).Sub(reserves)
	if total.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	return liabilities.Div(total).Truncate(MaxPrecision)
}

// GetBorrowRatePerSecond kinked borrow rate. baseRate, multiplier and
// jumpMultiplier are annual figures; the result is per second.
func GetBorrowRatePerSecond(utilizationRate, baseRate, multiplier, jumpMultiplier, kink decimal.Decimal) decimal.Decimal {
	if kink.Equal(decimal.Zero) ||
		utilizationRate.LessThanOrEqual(kink) {
		return utilizationRate.Mul(perSecond(multiplier)).Add(perSecond(baseRate)).Truncate(MaxPrecision)
	}

	normalRate := kink.Mul(perSecond(multiplier)).Add(perSecond(baseRate))
	excessUtilRate := utilizationRate.Sub(kink)
	return excessUtilRate.Mul(perSecond(jumpMultiplier)).Add(normalRate).Truncate(MaxPrecision)
}

func perSecond(annual decimal.Decimal) decimal.Decimal {
	return annual.Div(SecondsPerYear).Truncate(MaxPrecision)
}
