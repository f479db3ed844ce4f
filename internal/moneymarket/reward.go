package moneymarket

import (
	"moneymarket/core"

	"github.com/shopspring/decimal"
)

// AccrueReward advances the global reward index up to now at the current
// emission rate. The reward is distributed pro rata across outstanding
// debt; with zero liabilities there is no share denominator, so only the
// mark advances and the backlog is dropped rather than dumped on the
// next borrower.
func AccrueReward(state *core.State, now int64) error {
	if now < state.LastRewardUpdatedTime {
		return core.ErrInvalidTimestamp
	}

	if now == state.LastRewardUpdatedTime {
		return nil
	}

	passed := decimal.NewFromInt(now - state.LastRewardUpdatedTime)
	rewardAccrued := state.EmissionRate.Mul(passed)

	if rewardAccrued.IsPositive() && state.TotalLiabilities.IsPositive() {
		state.GlobalRewardIndex = state.GlobalRewardIndex.
			Add(rewardAccrued.Div(state.TotalLiabilities).Truncate(MaxPrecision))
	}

	state.LastRewardUpdatedTime = now

	return nil
}
