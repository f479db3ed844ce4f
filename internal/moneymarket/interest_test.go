package moneymarket

import (
	"testing"

	"moneymarket/core"
	"moneymarket/pkg/number"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccrueInterest(t *testing.T) {
	state := &core.State{
		TotalLiabilities:        number.Decimal("1000000"),
		GlobalInterestIndex:     number.Decimal("1"),
		LastInterestUpdatedTime: 1000,
	}

	err := AccrueInterest(state, 2000, decimal.Zero, decimal.Zero, number.Decimal("0.00000001"), decimal.Zero)
	require.Nil(t, err)

	assert.Equal(t, "1000010", state.TotalLiabilities.String())
	assert.Equal(t, "1.00001", state.GlobalInterestIndex.String())
	assert.Equal(t, int64(2000), state.LastInterestUpdatedTime)
}

func TestAccrueInterestSameTime(t *testing.T) {
	state := &core.State{
		TotalLiabilities:        number.Decimal("1000000"),
		GlobalInterestIndex:     number.Decimal("1.5"),
		LastInterestUpdatedTime: 1000,
	}
	before := *state

	err := AccrueInterest(state, 1000, decimal.Zero, decimal.Zero, number.Decimal("0.5"), decimal.Zero)
	require.Nil(t, err)
	assert.Equal(t, before, *state)
}

func TestAccrueInterestRewind(t *testing.T) {
	state := &core.State{
		TotalLiabilities:        number.Decimal("1000000"),
		GlobalInterestIndex:     number.Decimal("1.5"),
		LastInterestUpdatedTime: 1000,
	}
	before := *state

	err := AccrueInterest(state, 999, decimal.Zero, decimal.Zero, number.Decimal("0.5"), decimal.Zero)
	assert.Equal(t, core.ErrInvalidTimestamp, err)
	assert.Equal(t, before, *state)
}

func TestAccrueInterestMonotonic(t *testing.T) {
	state := &core.State{
		TotalLiabilities:        number.Decimal("500"),
		GlobalInterestIndex:     number.Decimal("1"),
		LastInterestUpdatedTime: 0,
	}

	rate := number.Decimal("0.000001")
	prevIndex := state.GlobalInterestIndex
	prevLiabilities := state.TotalLiabilities
	for _, now := range []int64{10, 20, 1000, 5000} {
		require.Nil(t, AccrueInterest(state, now, decimal.Zero, decimal.Zero, rate, decimal.Zero))
		assert.True(t, state.GlobalInterestIndex.GreaterThan(prevIndex))
		assert.True(t, state.TotalLiabilities.GreaterThan(prevLiabilities))
		prevIndex = state.GlobalInterestIndex
		prevLiabilities = state.TotalLiabilities
	}
}

func TestAccrueInterestZeroLiabilities(t *testing.T) {
	state := &core.State{
		TotalLiabilities:        decimal.Zero,
		GlobalInterestIndex:     number.Decimal("1"),
		LastInterestUpdatedTime: 0,
	}

	err := AccrueInterest(state, 100, decimal.Zero, decimal.Zero, number.Decimal("0.5"), decimal.Zero)
	require.Nil(t, err)

	// with nothing borrowed only the mark advances
	assert.True(t, state.TotalLiabilities.IsZero())
	assert.Equal(t, "1", state.GlobalInterestIndex.String())
	assert.Equal(t, int64(100), state.LastInterestUpdatedTime)
}

func TestAccrueInterestExcessYield(t *testing.T) {
	state := &core.State{
		TotalLiabilities:        decimal.Zero,
		TotalReserves:           decimal.Zero,
		GlobalInterestIndex:     number.Decimal("1"),
		LastInterestUpdatedTime: 0,
		PrevCTokenSupply:        number.Decimal("1000"),
		PrevExchangeRate:        number.Decimal("1"),
	}

	balance := number.Decimal("1100")
	supply := number.Decimal("1000")
	target := number.Decimal("0.00005")

	err := AccrueInterest(state, 1000, balance, supply, decimal.Zero, target)
	require.Nil(t, err)

	// deposit rate over the window is 0.0001/s, 0.00005/s above target;
	// the excess on 1000 deposits over 1000s goes to reserves
	assert.Equal(t, "50", state.TotalReserves.String())
	assert.Equal(t, "1.05", state.PrevExchangeRate.String())
	assert.Equal(t, "1000", state.PrevCTokenSupply.String())
}

func TestAccrueInterestAtTargetKeepsReserves(t *testing.T) {
	state := &core.State{
		TotalLiabilities:        decimal.Zero,
		TotalReserves:           decimal.Zero,
		GlobalInterestIndex:     number.Decimal("1"),
		LastInterestUpdatedTime: 0,
		PrevCTokenSupply:        number.Decimal("1000"),
		PrevExchangeRate:        number.Decimal("1"),
	}

	balance := number.Decimal("1100")
	supply := number.Decimal("1000")
	// target matches the realized deposit rate exactly, nothing is skimmed
	target := number.Decimal("0.0001")

	err := AccrueInterest(state, 1000, balance, supply, decimal.Zero, target)
	require.Nil(t, err)

	assert.True(t, state.TotalReserves.IsZero())
	assert.Equal(t, "1.1", state.PrevExchangeRate.String())
}

func TestSkimmableReserves(t *testing.T) {
	for _, tc := range []struct {
		reserves string
		balance  string
		want     string
	}{
		{"12.75", "100", "12"},
		{"12.75", "12", "0"},
		{"12.75", "12.5", "12"},
		{"0.5", "100", "0"},
		{"-3", "100", "0"},
		{"0", "100", "0"},
	} {
		got := SkimmableReserves(number.Decimal(tc.reserves), number.Decimal(tc.balance))
		assert.Equal(t, tc.want, got.String(), "reserves %s balance %s", tc.reserves, tc.balance)
	}
}
