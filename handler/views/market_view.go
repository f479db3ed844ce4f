package views

import (
	"moneymarket/core"

	"github.com/shopspring/decimal"
)

// Market market view
type Market struct {
	core.Market
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	State        *core.State     `json:"state,omitempty"`
}
