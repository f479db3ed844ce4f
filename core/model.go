package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// IInterestRateModel external borrow-rate model: utilization inputs in,
// non-negative per-second borrow rate out
type IInterestRateModel interface {
	BorrowRate(ctx context.Context, balance, liabilities, reserves decimal.Decimal) (decimal.Decimal, error)
}

// IDistributionModel external emission-rate model
type IDistributionModel interface {
	EmissionRate(ctx context.Context, depositRate, targetDepositRate, thresholdDepositRate, currentRate decimal.Decimal) (decimal.Decimal, error)
}

// EpochRates the deposit-rate figures the overseer hands to an epoch run
type EpochRates struct {
	DepositRate          decimal.Decimal `json:"deposit_rate"`
	TargetDepositRate    decimal.Decimal `json:"target_deposit_rate"`
	ThresholdDepositRate decimal.Decimal `json:"threshold_deposit_rate"`
}

// IOverseerService overseer queries used outside the epoch path
type IOverseerService interface {
	TargetDepositRate(ctx context.Context) (decimal.Decimal, error)
	EpochRates(ctx context.Context) (*EpochRates, error)
}
