package moneymarket

import (
	"moneymarket/core"

	"github.com/shopspring/decimal"
)

// AccrueInterest advances the global interest index and the
// liability/reserve balances of state up to now.
//
// Interest compounds simple-per-tick: the index is multiplied by
// (1 + borrow_rate * elapsed_seconds), never continuously. Accrued
// interest above what the target deposit rate would have produced is
// redirected into total_reserves instead of depositor yield; the
// remainder compounds normally.
//
// now must not precede the last interest mark. now equal to the mark is
// an exact no-op, so a speculative query at the current time matches the
// committed state bit for bit.
//
// With zero liabilities there is no debt to compound: the index and the
// balances stay put and only the mark advances.
func AccrueInterest(state *core.State, now int64, balance, ctokenSupply, borrowRate, targetDepositRate decimal.Decimal) error {
	if now < state.LastInterestUpdatedTime {
		return core.ErrInvalidTimestamp
	}

	if now == state.LastInterestUpdatedTime {
		return nil
	}

	passed := decimal.NewFromInt(now - state.LastInterestUpdatedTime)
	if state.TotalLiabilities.IsPositive() {
		interestFactor := borrowRate.Mul(passed)
		interestAccrued := state.TotalLiabilities.Mul(interestFactor).Truncate(MaxPrecision)

		state.GlobalInterestIndex = state.GlobalInterestIndex.Mul(one.Add(interestFactor)).Truncate(MaxPrecision)
		state.TotalLiabilities = state.TotalLiabilities.Add(interestAccrued)
	}
	state.LastInterestUpdatedTime = now

	exchangeRate := GetExchangeRate(balance, state.TotalLiabilities, state.TotalReserves, ctokenSupply)
	if state.PrevExchangeRate.IsPositive() {
		effectiveRate := exchangeRate.Div(state.PrevExchangeRate).Truncate(MaxPrecision)
		depositRate := effectiveRate.Sub(one).Div(passed).Truncate(MaxPrecision)

		if depositRate.GreaterThan(targetDepositRate) {
			// the yield above target belongs to the protocol, not depositors
			prevDeposits := state.PrevCTokenSupply.Mul(state.PrevExchangeRate)
			excessYield := prevDeposits.
				Mul(depositRate.Sub(targetDepositRate)).
				Mul(passed).
				Truncate(MaxPrecision)

			state.TotalReserves = state.TotalReserves.Add(excessYield)
			exchangeRate = GetExchangeRate(balance, state.TotalLiabilities, state.TotalReserves, ctokenSupply)
		}
	}

	state.PrevCTokenSupply = ctokenSupply
	state.PrevExchangeRate = exchangeRate

	return nil
}

// SkimmableReserves returns the whole-unit reserve amount that may be
// swept to the collector: total_reserves truncated to whole units,
// bounded so the sweep never exceeds the on-hand balance and never goes
// negative. The fractional remainder stays in the decimal ledger.
func SkimmableReserves(reserves, balance decimal.Decimal) decimal.Decimal {
	amount := reserves.Truncate(0)
	if !amount.IsPositive() || balance.LessThanOrEqual(amount) {
		return decimal.Zero
	}

	return amount
}
