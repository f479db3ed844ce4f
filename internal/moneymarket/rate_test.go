package moneymarket

import (
	"testing"

	"moneymarket/pkg/number"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestUtilizationRate(t *testing.T) {
	assert.Equal(t, "0.5", UtilizationRate(number.Decimal("100"), number.Decimal("100"), decimal.Zero).String())
	assert.True(t, UtilizationRate(decimal.Zero, decimal.Zero, decimal.Zero).IsZero())
	assert.True(t, UtilizationRate(number.Decimal("10"), decimal.Zero, number.Decimal("20")).IsZero())
}

func TestGetBorrowRatePerSecond(t *testing.T) {
	base := number.Decimal("0.025")
	multiplier := number.Decimal("0.2")
	jump := number.Decimal("1.5")
	kink := number.Decimal("0.8")

	below := GetBorrowRatePerSecond(number.Decimal("0.5"), base, multiplier, jump, kink)
	expectBelow := number.Decimal("0.5").Mul(perSecond(multiplier)).Add(perSecond(base)).Truncate(MaxPrecision)
	assert.Equal(t, expectBelow.String(), below.String())

	atKink := GetBorrowRatePerSecond(kink, base, multiplier, jump, kink)
	above := GetBorrowRatePerSecond(number.Decimal("0.9"), base, multiplier, jump, kink)
	assert.True(t, above.GreaterThan(atKink))

	// the jump slope is steeper than the normal slope
	normalDelta := atKink.Sub(GetBorrowRatePerSecond(number.Decimal("0.7"), base, multiplier, jump, kink))
	jumpDelta := above.Sub(atKink)
	assert.True(t, jumpDelta.GreaterThan(normalDelta))
}
