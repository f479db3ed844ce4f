package market

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"moneymarket/core"
	"moneymarket/internal/moneymarket"
	"moneymarket/pkg/id"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

type service struct {
	db            *db.DB
	marketStore   core.IMarketStore
	stateStore    core.IStateStore
	walletz       core.IWalletService
	interestModel core.IInterestRateModel
	overseerSrv   core.IOverseerService
	property      property.Store
}

// New new market service
func New(
	db *db.DB,
	marketStore core.IMarketStore,
	stateStore core.IStateStore,
	walletz core.IWalletService,
	interestModel core.IInterestRateModel,
	overseerSrv core.IOverseerService,
	propertyStore property.Store,
) core.IMarketService {
	return &service{
		db:            db,
		marketStore:   marketStore,
		stateStore:    stateStore,
		walletz:       walletz,
		interestModel: interestModel,
		overseerSrv:   overseerSrv,
		property:      propertyStore,
	}
}

func ctokenRequestKey(marketID uint64) string {
	return fmt.Sprintf("ctoken_request_%d", marketID)
}

// AccrueInterest brings state current as of now. Queries supply, balance,
// borrow rate and target deposit rate, then delegates to the accrual
// engine. state is mutated in memory only.
func (s *service) AccrueInterest(ctx context.Context, market *core.Market, state *core.State, now int64) error {
	if now < state.LastInterestUpdatedTime {
		return core.ErrInvalidTimestamp
	}

	if now == state.LastInterestUpdatedTime {
		return nil
	}

	ctoken, err := market.CToken()
	if err != nil {
		return err
	}

	supply, err := s.walletz.TotalSupply(ctx, ctoken)
	if err != nil {
		return err
	}

	balance, err := s.walletz.Balance(ctx, market.AssetID)
	if err != nil {
		return err
	}

	borrowRate, err := s.interestModel.BorrowRate(ctx, balance, state.TotalLiabilities, state.TotalReserves)
	if err != nil {
		return err
	}

	targetDepositRate, err := s.overseerSrv.TargetDepositRate(ctx)
	if err != nil {
		return err
	}

	return moneymarket.AccrueInterest(state, now, balance, supply, borrowRate, targetDepositRate)
}

func (s *service) AccrueReward(state *core.State, now int64) error {
	return moneymarket.AccrueReward(state, now)
}

func (s *service) CurExchangeRate(ctx context.Context, market *core.Market, state *core.State) (decimal.Decimal, error) {
	if state.PrevExchangeRate.IsPositive() {
		return state.PrevExchangeRate, nil
	}

	ctoken, err := market.CToken()
	if err != nil {
		return decimal.Zero, err
	}

	supply, err := s.walletz.TotalSupply(ctx, ctoken)
	if err != nil {
		return decimal.Zero, err
	}

	balance, err := s.walletz.Balance(ctx, market.AssetID)
	if err != nil {
		return decimal.Zero, err
	}

	return moneymarket.CommitExchangeRate(state, supply, balance), nil
}

// ProjectedState speculative accrual: both engines run on a copy, nothing
// is committed. A projection at the current marks returns the stored
// state unchanged.
func (s *service) ProjectedState(ctx context.Context, market *core.Market, state *core.State, blockTime int64) (*core.State, error) {
	if blockTime < state.LastInterestUpdatedTime || blockTime < state.LastRewardUpdatedTime {
		return nil, core.ErrInvalidTimestamp
	}

	projected := state.Copy()
	if err := s.AccrueInterest(ctx, market, projected, blockTime); err != nil {
		return nil, err
	}

	if err := moneymarket.AccrueReward(projected, blockTime); err != nil {
		return nil, err
	}

	return projected, nil
}

func (s *service) EpochState(ctx context.Context, market *core.Market, state *core.State, blockTime int64, distributedInterest decimal.Decimal) (*core.EpochState, error) {
	ctoken, err := market.CToken()
	if err != nil {
		return nil, err
	}

	supply, err := s.walletz.TotalSupply(ctx, ctoken)
	if err != nil {
		return nil, err
	}

	balance, err := s.walletz.Balance(ctx, market.AssetID)
	if err != nil {
		return nil, err
	}
	balance = balance.Sub(distributedInterest)

	projected := state.Copy()
	if blockTime > 0 {
		if blockTime < projected.LastInterestUpdatedTime {
			return nil, core.ErrInvalidTimestamp
		}

		borrowRate, err := s.interestModel.BorrowRate(ctx, balance, projected.TotalLiabilities, projected.TotalReserves)
		if err != nil {
			return nil, err
		}

		targetDepositRate, err := s.overseerSrv.TargetDepositRate(ctx)
		if err != nil {
			return nil, err
		}

		if err := moneymarket.AccrueInterest(projected, blockTime, balance, supply, borrowRate, targetDepositRate); err != nil {
			return nil, err
		}
	}

	// the rate the next depositor/redeemer will see includes interest that
	// is about to be distributed
	rate := moneymarket.GetExchangeRate(
		balance.Add(distributedInterest),
		projected.TotalLiabilities,
		projected.TotalReserves,
		supply,
	)

	return &core.EpochState{
		ExchangeRate: rate,
		CTokenSupply: supply,
	}, nil
}

func (s *service) RegisterContracts(ctx context.Context, market *core.Market, reg core.ContractRegistration) error {
	if market.ContractsRegistered() {
		return core.ErrContractAlreadyRegistered
	}

	market.OverseerID = sql.NullString{String: reg.Overseer, Valid: true}
	market.InterestModelID = sql.NullString{String: reg.InterestModel, Valid: true}
	market.DistributionModelID = sql.NullString{String: reg.DistributionModel, Valid: true}
	market.CollectorID = sql.NullString{String: reg.Collector, Valid: true}
	market.DistributorID = sql.NullString{String: reg.Distributor, Valid: true}

	return s.db.Tx(func(tx *db.DB) error {
		return s.marketStore.Update(ctx, tx, market)
	})
}

// RequestCToken phase one: record the pending creation request so the
// acknowledgment can be matched later. Issuing the actual token creation
// is the token subsystem's business.
func (s *service) RequestCToken(ctx context.Context, market *core.Market) (string, error) {
	if _, err := market.CToken(); err == nil {
		return "", core.ErrContractAlreadyRegistered
	}

	traceID := id.GenTraceID()
	if err := s.property.Save(ctx, ctokenRequestKey(market.ID), traceID); err != nil {
		return "", err
	}

	return traceID, nil
}

// HandleCTokenCreated phase two: the asynchronous acknowledgment carries
// the request trace id and the created asset id. Registration completes
// exactly once.
func (s *service) HandleCTokenCreated(ctx context.Context, market *core.Market, traceID, assetID string) error {
	log := logger.FromContext(ctx).WithField("service", "market")

	if _, err := market.CToken(); err == nil {
		return core.ErrContractAlreadyRegistered
	}

	pending, err := s.property.Get(ctx, ctokenRequestKey(market.ID))
	if err != nil {
		return err
	}

	if pending.String() == "" || pending.String() != traceID {
		return core.ErrPendingRequestNotFound
	}

	market.CTokenAssetID = sql.NullString{String: assetID, Valid: true}
	if err := s.db.Tx(func(tx *db.DB) error {
		return s.marketStore.Update(ctx, tx, market)
	}); err != nil {
		return err
	}

	if err := s.property.Save(ctx, ctokenRequestKey(market.ID), ""); err != nil {
		log.WithError(err).Errorln("clear ctoken request marker")
	}

	return nil
}

func (s *service) UpdateConfig(ctx context.Context, caller string, market *core.Market, state *core.State, req core.UpdateConfigRequest) error {
	if caller != market.Owner {
		return core.ErrOperationForbidden
	}

	stateTouched := false
	if req.InterestModel != "" {
		// settle outstanding interest under the old model before swapping
		now := state.LastInterestUpdatedTime
		if clock := time.Now().Unix(); clock > now {
			now = clock
		}
		if err := s.AccrueInterest(ctx, market, state, now); err != nil {
			return err
		}

		market.InterestModelID = sql.NullString{String: req.InterestModel, Valid: true}
		stateTouched = true
	}

	if req.Owner != "" {
		market.Owner = req.Owner
	}

	if req.DistributionModel != "" {
		market.DistributionModelID = sql.NullString{String: req.DistributionModel, Valid: true}
	}

	if req.MaxBorrowFactor != nil {
		market.MaxBorrowFactor = *req.MaxBorrowFactor
	}

	return s.db.Tx(func(tx *db.DB) error {
		if stateTouched {
			if err := s.stateStore.Update(ctx, tx, state); err != nil {
				return err
			}
		}

		return s.marketStore.Update(ctx, tx, market)
	})
}

func (s *service) ReplaceEmissionRate(ctx context.Context, market *core.Market, state *core.State, rate decimal.Decimal) error {
	if rate.IsNegative() {
		return core.ErrInvalidAmount
	}

	state.EmissionRate = rate
	return s.db.Tx(func(tx *db.DB) error {
		return s.stateStore.Update(ctx, tx, state)
	})
}
