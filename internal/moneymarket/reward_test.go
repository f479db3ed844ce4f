package moneymarket

import (
	"testing"

	"moneymarket/core"
	"moneymarket/pkg/number"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccrueReward(t *testing.T) {
	state := &core.State{
		TotalLiabilities:      number.Decimal("500"),
		GlobalRewardIndex:     decimal.Zero,
		EmissionRate:          number.Decimal("0.01"),
		LastRewardUpdatedTime: 0,
	}

	require.Nil(t, AccrueReward(state, 1000))
	assert.Equal(t, "0.02", state.GlobalRewardIndex.String())
	assert.Equal(t, int64(1000), state.LastRewardUpdatedTime)
}

func TestAccrueRewardZeroLiabilities(t *testing.T) {
	state := &core.State{
		TotalLiabilities:      decimal.Zero,
		GlobalRewardIndex:     number.Decimal("0.5"),
		EmissionRate:          number.Decimal("0.01"),
		LastRewardUpdatedTime: 0,
	}

	require.Nil(t, AccrueReward(state, 1000))
	// backlog is dropped, only the mark advances
	assert.Equal(t, "0.5", state.GlobalRewardIndex.String())
	assert.Equal(t, int64(1000), state.LastRewardUpdatedTime)
}

func TestAccrueRewardSameTime(t *testing.T) {
	state := &core.State{
		TotalLiabilities:      number.Decimal("500"),
		GlobalRewardIndex:     number.Decimal("0.5"),
		EmissionRate:          number.Decimal("0.01"),
		LastRewardUpdatedTime: 1000,
	}
	before := *state

	require.Nil(t, AccrueReward(state, 1000))
	assert.Equal(t, before, *state)
}

func TestAccrueRewardRewind(t *testing.T) {
	state := &core.State{
		TotalLiabilities:      number.Decimal("500"),
		EmissionRate:          number.Decimal("0.01"),
		LastRewardUpdatedTime: 1000,
	}

	assert.Equal(t, core.ErrInvalidTimestamp, AccrueReward(state, 999))
	assert.Equal(t, int64(1000), state.LastRewardUpdatedTime)
}

func TestAccrueRewardZeroEmission(t *testing.T) {
	state := &core.State{
		TotalLiabilities:      number.Decimal("500"),
		GlobalRewardIndex:     number.Decimal("0.5"),
		EmissionRate:          decimal.Zero,
		LastRewardUpdatedTime: 0,
	}

	require.Nil(t, AccrueReward(state, 1000))
	assert.Equal(t, "0.5", state.GlobalRewardIndex.String())
	assert.Equal(t, int64(1000), state.LastRewardUpdatedTime)
}
