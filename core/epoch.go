package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

// EpochRequest input of one epoch reconciliation run
type EpochRequest struct {
	AssetID              string          `json:"asset_id"`
	BlockTime            int64           `json:"block_time"`
	DepositRate          decimal.Decimal `json:"deposit_rate"`
	TargetDepositRate    decimal.Decimal `json:"target_deposit_rate"`
	ThresholdDepositRate decimal.Decimal `json:"threshold_deposit_rate"`
	// DistributedInterest interest already paid out through a separate path
	// but not yet reflected in the wallet balance
	DistributedInterest decimal.Decimal `json:"distributed_interest"`
}

// EpochResult observable outcome of an epoch run
type EpochResult struct {
	ReservesSkimmed decimal.Decimal `json:"reserves_skimmed"`
	EmissionRate    decimal.Decimal `json:"emission_rate"`
	ExchangeRate    decimal.Decimal `json:"exchange_rate"`
}

// EpochState exchange-rate/supply pair exposed to queries
type EpochState struct {
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	CTokenSupply decimal.Decimal `json:"ctoken_supply"`
}

// EpochRecord audit row persisted for each committed epoch run
type EpochRecord struct {
	ID              uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	TraceID         string          `sql:"size:36;unique_index:trace_idx" json:"trace_id"`
	MarketID        uint64          `json:"market_id"`
	ExecutedAt      int64           `json:"executed_at"`
	ReservesSkimmed decimal.Decimal `sql:"type:decimal(40,16)" json:"reserves_skimmed"`
	EmissionRate    decimal.Decimal `sql:"type:decimal(40,16)" json:"emission_rate"`
	Content         types.JSONText  `sql:"type:varchar(1024)" json:"content"`
	CreatedAt       time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// IEpochStore epoch record store interface
type IEpochStore interface {
	Create(ctx context.Context, tx *db.DB, record *EpochRecord) error
	List(ctx context.Context, fromID uint64, limit int) ([]*EpochRecord, error)
}

// IEpochService the epoch reconciliation orchestrator
type IEpochService interface {
	// ExecuteEpochOperations accrues interest and reward up to
	// req.BlockTime, recomputes the canonical exchange rate, skims excess
	// reserves to the collector and refreshes the emission rate, all as
	// one atomic unit. caller must be the registered overseer.
	ExecuteEpochOperations(ctx context.Context, caller string, req *EpochRequest) (*EpochResult, error)
}
