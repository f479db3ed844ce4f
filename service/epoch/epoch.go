package epoch

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"moneymarket/core"
	"moneymarket/internal/moneymarket"
	"moneymarket/pkg/id"

	"github.com/fox-one/msgpack"
	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

type service struct {
	db                *db.DB
	marketStore       core.IMarketStore
	stateStore        core.IStateStore
	transferStore     core.ITransferStore
	epochStore        core.IEpochStore
	walletz           core.IWalletService
	interestModel     core.IInterestRateModel
	distributionModel core.IDistributionModel
}

// New new epoch service
func New(
	db *db.DB,
	marketStore core.IMarketStore,
	stateStore core.IStateStore,
	transferStore core.ITransferStore,
	epochStore core.IEpochStore,
	walletz core.IWalletService,
	interestModel core.IInterestRateModel,
	distributionModel core.IDistributionModel,
) core.IEpochService {
	return &service{
		db:                db,
		marketStore:       marketStore,
		stateStore:        stateStore,
		transferStore:     transferStore,
		epochStore:        epochStore,
		walletz:           walletz,
		interestModel:     interestModel,
		distributionModel: distributionModel,
	}
}

// skimMemo travels with the reserve sweep so the collector can attribute it
type skimMemo struct {
	Source   string `msgpack:"s"`
	MarketID uint64 `msgpack:"m"`
	Time     int64  `msgpack:"t"`
}

func (s *service) ExecuteEpochOperations(ctx context.Context, caller string, req *core.EpochRequest) (*core.EpochResult, error) {
	log := logger.FromContext(ctx).WithField("service", "epoch")

	market, err := s.marketStore.Find(ctx, req.AssetID)
	if err != nil {
		return nil, err
	}

	state, err := s.stateStore.Find(ctx, market.ID)
	if err != nil {
		return nil, err
	}

	// all accrual happens on a copy; the stored state is untouched until
	// every step has succeeded
	next := state.Copy()
	result, err := s.run(ctx, caller, market, next, req)
	if err != nil {
		return nil, err
	}

	var transfer *core.Transfer
	if result.ReservesSkimmed.IsPositive() {
		transfer, err = s.buildSkimTransfer(market, req, result.ReservesSkimmed)
		if err != nil {
			return nil, err
		}
	}

	record, err := s.buildRecord(market, req, result)
	if err != nil {
		return nil, err
	}

	if err := s.db.Tx(func(tx *db.DB) error {
		if err := s.stateStore.Update(ctx, tx, next); err != nil {
			return err
		}

		if transfer != nil {
			if err := s.transferStore.Create(ctx, tx, transfer); err != nil {
				return err
			}
		}

		return s.epochStore.Create(ctx, tx, record)
	}); err != nil {
		log.WithError(err).Errorln("persist epoch result")
		return nil, err
	}

	return result, nil
}

// run executes the epoch sequence against state in place. Step order
// matters: interest before the exchange rate, the exchange rate before
// reward, reward before the skim, the skim before the emission refresh.
func (s *service) run(ctx context.Context, caller string, market *core.Market, state *core.State, req *core.EpochRequest) (*core.EpochResult, error) {
	overseer, err := market.Overseer()
	if err != nil {
		return nil, err
	}

	if caller != overseer {
		return nil, core.ErrOperationForbidden
	}

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

	// the distributed interest has already left the books conceptually but
	// still sits in the wallet until the payout settles
	balance = balance.Sub(req.DistributedInterest)

	borrowRate, err := s.interestModel.BorrowRate(ctx, balance, state.TotalLiabilities, state.TotalReserves)
	if err != nil {
		return nil, err
	}

	if err := moneymarket.AccrueInterest(state, req.BlockTime, balance, supply, borrowRate, req.TargetDepositRate); err != nil {
		return nil, err
	}

	// the canonical per-epoch rate counts the distributed interest back in
	rate := moneymarket.CommitExchangeRate(state, supply, balance.Add(req.DistributedInterest))

	if err := moneymarket.AccrueReward(state, req.BlockTime); err != nil {
		return nil, err
	}

	skim := moneymarket.SkimmableReserves(state.TotalReserves, balance)
	if skim.IsPositive() {
		state.TotalReserves = state.TotalReserves.Sub(skim)
	}

	emissionRate, err := s.distributionModel.EmissionRate(
		ctx,
		req.DepositRate,
		req.TargetDepositRate,
		req.ThresholdDepositRate,
		state.EmissionRate,
	)
	if err != nil {
		return nil, err
	}
	state.EmissionRate = emissionRate

	return &core.EpochResult{
		ReservesSkimmed: skim,
		EmissionRate:    emissionRate,
		ExchangeRate:    rate,
	}, nil
}

func (s *service) buildSkimTransfer(market *core.Market, req *core.EpochRequest, amount decimal.Decimal) (*core.Transfer, error) {
	collector, err := market.Collector()
	if err != nil {
		return nil, err
	}

	memo, err := msgpack.Marshal(skimMemo{
		Source:   "reserve_skim",
		MarketID: market.ID,
		Time:     req.BlockTime,
	})
	if err != nil {
		return nil, err
	}

	return &core.Transfer{
		TraceID:    id.UUIDFromString(fmt.Sprintf("epoch-skim-%d-%d", market.ID, req.BlockTime)),
		OpponentID: collector,
		AssetID:    market.AssetID,
		Amount:     amount,
		Memo:       base64.StdEncoding.EncodeToString(memo),
	}, nil
}

func (s *service) buildRecord(market *core.Market, req *core.EpochRequest, result *core.EpochResult) (*core.EpochRecord, error) {
	content, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}

	return &core.EpochRecord{
		TraceID:         id.UUIDFromString(fmt.Sprintf("epoch-%d-%d", market.ID, req.BlockTime)),
		MarketID:        market.ID,
		ExecutedAt:      req.BlockTime,
		ReservesSkimmed: result.ReservesSkimmed,
		EmissionRate:    result.EmissionRate,
		Content:         content,
	}, nil
}
