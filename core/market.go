package core

import (
	"context"
	"database/sql"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Market market config, immutable after the one-time contract registration
type Market struct {
	ID      uint64 `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Symbol  string `sql:"size:20;unique_index:symbol_idx" json:"symbol"`
	AssetID string `sql:"size:36;unique_index:asset_idx" json:"asset_id"`
	// Owner may rotate itself and the model handles via UpdateConfig
	Owner string `sql:"size:36" json:"owner"`
	// CTokenAssetID receipt token asset, set once by the two-phase registration
	CTokenAssetID       sql.NullString  `sql:"type:varchar(36)" json:"ctoken_asset_id"`
	OverseerID          sql.NullString  `sql:"type:varchar(128)" json:"overseer_id"`
	InterestModelID     sql.NullString  `sql:"type:varchar(128)" json:"interest_model_id"`
	DistributionModelID sql.NullString  `sql:"type:varchar(128)" json:"distribution_model_id"`
	CollectorID         sql.NullString  `sql:"type:varchar(36)" json:"collector_id"`
	DistributorID       sql.NullString  `sql:"type:varchar(36)" json:"distributor_id"`
	MaxBorrowFactor     decimal.Decimal `sql:"type:decimal(20,8)" json:"max_borrow_factor"`
	Version             int64           `sql:"default:0" json:"version"`
	CreatedAt           time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt           time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func handle(v sql.NullString) (string, error) {
	if !v.Valid || v.String == "" {
		return "", ErrContractNotRegistered
	}

	return v.String, nil
}

// CToken receipt token asset id, ErrContractNotRegistered before phase two completes
func (m *Market) CToken() (string, error) {
	return handle(m.CTokenAssetID)
}

// Overseer the only principal allowed to run epoch operations
func (m *Market) Overseer() (string, error) {
	return handle(m.OverseerID)
}

// InterestModel handle of the external borrow-rate model
func (m *Market) InterestModel() (string, error) {
	return handle(m.InterestModelID)
}

// DistributionModel handle of the external emission-rate model
func (m *Market) DistributionModel() (string, error) {
	return handle(m.DistributionModelID)
}

// Collector sink for skimmed reserves
func (m *Market) Collector() (string, error) {
	return handle(m.CollectorID)
}

// Distributor reward distributor account
func (m *Market) Distributor() (string, error) {
	return handle(m.DistributorID)
}

// ContractsRegistered reports whether the one-time registration already ran
func (m *Market) ContractsRegistered() bool {
	return m.OverseerID.Valid || m.InterestModelID.Valid ||
		m.DistributionModelID.Valid || m.CollectorID.Valid || m.DistributorID.Valid
}

// ContractRegistration the one-time collaborator registration payload
type ContractRegistration struct {
	Overseer          string `json:"overseer"`
	InterestModel     string `json:"interest_model"`
	DistributionModel string `json:"distribution_model"`
	Collector         string `json:"collector"`
	Distributor       string `json:"distributor"`
}

// UpdateConfigRequest owner-only config mutation, nil fields keep the current value
type UpdateConfigRequest struct {
	Owner             string           `json:"owner,omitempty"`
	InterestModel     string           `json:"interest_model,omitempty"`
	DistributionModel string           `json:"distribution_model,omitempty"`
	MaxBorrowFactor   *decimal.Decimal `json:"max_borrow_factor,omitempty"`
}

// IMarketStore market store interface
type IMarketStore interface {
	Create(ctx context.Context, tx *db.DB, market *Market) error
	Find(ctx context.Context, assetID string) (*Market, error)
	FindBySymbol(ctx context.Context, symbol string) (*Market, error)
	All(ctx context.Context) ([]*Market, error)
	Update(ctx context.Context, tx *db.DB, market *Market) error
}

// IMarketService market service interface
type IMarketService interface {
	// AccrueInterest advances the interest index and liability/reserve
	// balances of state up to now, fetching the borrow rate and target
	// deposit rate from the registered models. It mutates state in
	// memory only; the caller decides whether to persist.
	AccrueInterest(ctx context.Context, market *Market, state *State, now int64) error
	// AccrueReward advances the reward index up to now.
	AccrueReward(state *State, now int64) error
	// CurExchangeRate returns the cached exchange-rate snapshot. When no
	// snapshot exists yet it derives one from live balances and refreshes
	// the snapshot on state (in memory; the caller decides whether to
	// persist).
	CurExchangeRate(ctx context.Context, market *Market, state *State) (decimal.Decimal, error)
	// ProjectedState returns a copy of state accrued to blockTime without
	// committing anything.
	ProjectedState(ctx context.Context, market *Market, state *State, blockTime int64) (*State, error)
	// EpochState returns the exchange rate and receipt token supply for an
	// optional future blockTime (0 means "as stored") and a hypothetical
	// distributed-interest amount.
	EpochState(ctx context.Context, market *Market, state *State, blockTime int64, distributedInterest decimal.Decimal) (*EpochState, error)
	RegisterContracts(ctx context.Context, market *Market, reg ContractRegistration) error
	// RequestCToken phase one of receipt-token registration: records a
	// pending request and returns its trace id.
	RequestCToken(ctx context.Context, market *Market) (string, error)
	// HandleCTokenCreated phase two: completes registration exactly once,
	// keyed by the trace id returned from RequestCToken.
	HandleCTokenCreated(ctx context.Context, market *Market, traceID, assetID string) error
	UpdateConfig(ctx context.Context, caller string, market *Market, state *State, req UpdateConfigRequest) error
	// ReplaceEmissionRate admin migration of the emission rate.
	ReplaceEmissionRate(ctx context.Context, market *Market, state *State, rate decimal.Decimal) error
}
