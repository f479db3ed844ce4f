package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// State the mutable market ledger
type State struct {
	ID       uint64 `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	MarketID uint64 `sql:"unique_index:market_idx" json:"market_id"`
	// TotalLiabilities outstanding borrower debt, continuously compounding
	TotalLiabilities decimal.Decimal `sql:"type:decimal(40,16)" json:"total_liabilities"`
	// TotalReserves protocol-owned skim, net of what was swept to the collector
	TotalReserves           decimal.Decimal `sql:"type:decimal(40,16)" json:"total_reserves"`
	LastInterestUpdatedTime int64           `json:"last_interest_updated_time"`
	LastRewardUpdatedTime   int64           `json:"last_reward_updated_time"`
	// GlobalInterestIndex cumulative interest multiplier, starts at 1
	GlobalInterestIndex decimal.Decimal `sql:"type:decimal(40,16)" json:"global_interest_index"`
	// GlobalRewardIndex cumulative reward-per-unit-debt multiplier, starts at 0
	GlobalRewardIndex decimal.Decimal `sql:"type:decimal(40,16)" json:"global_reward_index"`
	// EmissionRate reward tokens emitted per second, refreshed each epoch
	EmissionRate decimal.Decimal `sql:"type:decimal(40,16)" json:"emission_rate"`
	// PrevCTokenSupply / PrevExchangeRate snapshot as of the last explicit
	// exchange-rate computation, for cheap repeat reads
	PrevCTokenSupply decimal.Decimal `sql:"type:decimal(40,16)" json:"prev_ctoken_supply"`
	PrevExchangeRate decimal.Decimal `sql:"type:decimal(40,16)" json:"prev_exchange_rate"`
	Version          int64           `sql:"default:0" json:"version"`
	CreatedAt        time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Copy value copy for speculative, non-committing accrual
func (s *State) Copy() *State {
	c := *s
	return &c
}

// NewGenesisState initial ledger for a new market at genesis time
func NewGenesisState(marketID uint64, genesis int64, emissionRate decimal.Decimal) *State {
	return &State{
		MarketID:                marketID,
		TotalLiabilities:        decimal.Zero,
		TotalReserves:           decimal.Zero,
		LastInterestUpdatedTime: genesis,
		LastRewardUpdatedTime:   genesis,
		GlobalInterestIndex:     decimal.New(1, 0),
		GlobalRewardIndex:       decimal.Zero,
		EmissionRate:            emissionRate,
		PrevCTokenSupply:        decimal.Zero,
		PrevExchangeRate:        decimal.New(1, 0),
	}
}

// IStateStore state store interface
type IStateStore interface {
	Create(ctx context.Context, tx *db.DB, state *State) error
	Find(ctx context.Context, marketID uint64) (*State, error)
	Update(ctx context.Context, tx *db.DB, state *State) error
}
