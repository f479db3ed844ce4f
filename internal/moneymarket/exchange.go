package moneymarket

import (
	"moneymarket/core"

	"github.com/shopspring/decimal"
)

// GetExchangeRate exchange rate
// exchange_rate = (balance + total_liabilities - total_reserves) / ctoken_supply
//
// With zero supply the rate is fixed at 1: the first deposit defines 1:1.
func GetExchangeRate(balance, liabilities, reserves, ctokenSupply decimal.Decimal) decimal.Decimal {
	if !ctokenSupply.IsPositive() {
		return one
	}

	return balance.Add(liabilities).Sub(reserves).Div(ctokenSupply).Truncate(MaxPrecision)
}

// CommitExchangeRate derives the current exchange rate from live balances
// and refreshes the cached snapshot on state.
func CommitExchangeRate(state *core.State, ctokenSupply, balance decimal.Decimal) decimal.Decimal {
	rate := GetExchangeRate(balance, state.TotalLiabilities, state.TotalReserves, ctokenSupply)
	state.PrevCTokenSupply = ctokenSupply
	state.PrevExchangeRate = rate
	return rate
}
