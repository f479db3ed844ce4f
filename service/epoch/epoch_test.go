package epoch

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"moneymarket/core"
	"moneymarket/pkg/number"

	"github.com/fox-one/pkg/store/db"
	"github.com/fox-one/pkg/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWallet struct {
	balance decimal.Decimal
	supply  decimal.Decimal
}

func (w *fakeWallet) Balance(ctx context.Context, assetID string) (decimal.Decimal, error) {
	return w.balance, nil
}

func (w *fakeWallet) TotalSupply(ctx context.Context, assetID string) (decimal.Decimal, error) {
	return w.supply, nil
}

func (w *fakeWallet) HandleTransfer(ctx context.Context, transfer *core.Transfer) error {
	return nil
}

type fakeInterestModel struct {
	rate decimal.Decimal
}

func (m *fakeInterestModel) BorrowRate(ctx context.Context, balance, liabilities, reserves decimal.Decimal) (decimal.Decimal, error) {
	return m.rate, nil
}

type fakeDistributionModel struct {
	rate decimal.Decimal
	err  error
}

func (m *fakeDistributionModel) EmissionRate(ctx context.Context, depositRate, targetDepositRate, thresholdDepositRate, currentRate decimal.Decimal) (decimal.Decimal, error) {
	return m.rate, m.err
}

type fakeMarketStore struct {
	market *core.Market
}

func (s *fakeMarketStore) Create(ctx context.Context, tx *db.DB, market *core.Market) error {
	return nil
}

func (s *fakeMarketStore) Find(ctx context.Context, assetID string) (*core.Market, error) {
	return s.market, nil
}

func (s *fakeMarketStore) FindBySymbol(ctx context.Context, symbol string) (*core.Market, error) {
	return s.market, nil
}

func (s *fakeMarketStore) All(ctx context.Context) ([]*core.Market, error) {
	return []*core.Market{s.market}, nil
}

func (s *fakeMarketStore) Update(ctx context.Context, tx *db.DB, market *core.Market) error {
	return nil
}

type fakeStateStore struct {
	state   *core.State
	updates int
}

func (s *fakeStateStore) Create(ctx context.Context, tx *db.DB, state *core.State) error {
	return nil
}

func (s *fakeStateStore) Find(ctx context.Context, marketID uint64) (*core.State, error) {
	return s.state, nil
}

func (s *fakeStateStore) Update(ctx context.Context, tx *db.DB, state *core.State) error {
	s.updates++
	s.state = state
	return nil
}

type fakeTransferStore struct {
	creates int
}

func (s *fakeTransferStore) Create(ctx context.Context, tx *db.DB, transfer *core.Transfer) error {
	s.creates++
	return nil
}

func (s *fakeTransferStore) Top(ctx context.Context, limit int) ([]*core.Transfer, error) {
	return nil, nil
}

func (s *fakeTransferStore) Delete(ctx context.Context, tx *db.DB, ids ...uint64) error {
	return nil
}

type fakeEpochStore struct {
	creates int
}

func (s *fakeEpochStore) Create(ctx context.Context, tx *db.DB, record *core.EpochRecord) error {
	s.creates++
	return nil
}

func (s *fakeEpochStore) List(ctx context.Context, fromID uint64, limit int) ([]*core.EpochRecord, error) {
	return nil, nil
}

func testMarket() *core.Market {
	return &core.Market{
		ID:            1,
		Symbol:        "BTC",
		AssetID:       uuid.New(),
		CTokenAssetID: sql.NullString{String: uuid.New(), Valid: true},
		OverseerID:    sql.NullString{String: "overseer", Valid: true},
		CollectorID:   sql.NullString{String: "collector", Valid: true},
	}
}

func TestRunRejectsUnknownCaller(t *testing.T) {
	s := &service{
		walletz:           &fakeWallet{},
		interestModel:     &fakeInterestModel{},
		distributionModel: &fakeDistributionModel{},
	}

	state := core.NewGenesisState(1, 0, decimal.Zero)
	_, err := s.run(context.Background(), "intruder", testMarket(), state, &core.EpochRequest{
		AssetID:   "asset",
		BlockTime: 100,
	})
	assert.Equal(t, core.ErrOperationForbidden, err)
}

func TestRunRejectsRewind(t *testing.T) {
	s := &service{
		walletz:           &fakeWallet{},
		interestModel:     &fakeInterestModel{},
		distributionModel: &fakeDistributionModel{},
	}

	state := core.NewGenesisState(1, 1000, decimal.Zero)
	_, err := s.run(context.Background(), "overseer", testMarket(), state, &core.EpochRequest{
		AssetID:   "asset",
		BlockTime: 999,
	})
	assert.Equal(t, core.ErrInvalidTimestamp, err)
}

func TestRunSkimAndEmission(t *testing.T) {
	s := &service{
		walletz:           &fakeWallet{balance: number.Decimal("100"), supply: number.Decimal("100")},
		interestModel:     &fakeInterestModel{},
		distributionModel: &fakeDistributionModel{rate: number.Decimal("7")},
	}

	state := &core.State{
		MarketID:      1,
		TotalReserves: number.Decimal("5.5"),
		EmissionRate:  number.Decimal("1"),
	}

	result, err := s.run(context.Background(), "overseer", testMarket(), state, &core.EpochRequest{
		AssetID:   "asset",
		BlockTime: 100,
	})
	require.Nil(t, err)

	// only the whole units leave, the fraction stays on the ledger
	assert.Equal(t, "5", result.ReservesSkimmed.String())
	assert.Equal(t, "0.5", state.TotalReserves.String())

	assert.Equal(t, "7", result.EmissionRate.String())
	assert.Equal(t, "7", state.EmissionRate.String())

	// (100 + 0 - 5.5) / 100, taken before the skim
	assert.Equal(t, "0.945", result.ExchangeRate.String())
	assert.Equal(t, "0.945", state.PrevExchangeRate.String())
	assert.Equal(t, "100", state.PrevCTokenSupply.String())

	assert.Equal(t, int64(100), state.LastInterestUpdatedTime)
	assert.Equal(t, int64(100), state.LastRewardUpdatedTime)
}

func TestRunDistributedInterest(t *testing.T) {
	s := &service{
		walletz:           &fakeWallet{balance: number.Decimal("110"), supply: number.Decimal("100")},
		interestModel:     &fakeInterestModel{},
		distributionModel: &fakeDistributionModel{},
	}

	state := &core.State{MarketID: 1}

	result, err := s.run(context.Background(), "overseer", testMarket(), state, &core.EpochRequest{
		AssetID:             "asset",
		BlockTime:           100,
		DistributedInterest: number.Decimal("10"),
	})
	require.Nil(t, err)

	// the payout is netted out of the skim base but counted back into the rate
	assert.Equal(t, "1.1", result.ExchangeRate.String())
	assert.True(t, result.ReservesSkimmed.IsZero())
}

func TestRunModelFailure(t *testing.T) {
	boom := errors.New("model down")
	s := &service{
		walletz:           &fakeWallet{balance: number.Decimal("100"), supply: number.Decimal("100")},
		interestModel:     &fakeInterestModel{},
		distributionModel: &fakeDistributionModel{err: boom},
	}

	state := core.NewGenesisState(1, 0, decimal.Zero)
	_, err := s.run(context.Background(), "overseer", testMarket(), state, &core.EpochRequest{
		AssetID:   "asset",
		BlockTime: 100,
	})
	assert.Equal(t, boom, err)
}

func TestExecuteEpochOperationsAllOrNothing(t *testing.T) {
	market := testMarket()
	marketStr := &fakeMarketStore{market: market}
	stateStr := &fakeStateStore{state: &core.State{
		MarketID:      1,
		TotalReserves: number.Decimal("5.5"),
		EmissionRate:  number.Decimal("1"),
	}}
	transferStr := &fakeTransferStore{}
	epochStr := &fakeEpochStore{}

	boom := errors.New("model down")
	s := &service{
		marketStore:       marketStr,
		stateStore:        stateStr,
		transferStore:     transferStr,
		epochStore:        epochStr,
		walletz:           &fakeWallet{balance: number.Decimal("100"), supply: number.Decimal("100")},
		interestModel:     &fakeInterestModel{},
		distributionModel: &fakeDistributionModel{err: boom},
	}

	before := *stateStr.state
	_, err := s.ExecuteEpochOperations(context.Background(), "overseer", &core.EpochRequest{
		AssetID:   market.AssetID,
		BlockTime: 100,
	})
	assert.Equal(t, boom, err)

	// a collaborator failure must leave the stored ledger untouched
	assert.Equal(t, before, *stateStr.state)
	assert.Equal(t, 0, stateStr.updates)
	assert.Equal(t, 0, transferStr.creates)
	assert.Equal(t, 0, epochStr.creates)
}

func TestExecuteEpochOperationsAuthz(t *testing.T) {
	market := testMarket()
	marketStr := &fakeMarketStore{market: market}
	stateStr := &fakeStateStore{state: core.NewGenesisState(1, 0, decimal.Zero)}

	s := &service{
		marketStore:       marketStr,
		stateStore:        stateStr,
		walletz:           &fakeWallet{},
		interestModel:     &fakeInterestModel{},
		distributionModel: &fakeDistributionModel{},
	}

	before := *stateStr.state
	_, err := s.ExecuteEpochOperations(context.Background(), "intruder", &core.EpochRequest{
		AssetID:   market.AssetID,
		BlockTime: 100,
	})
	assert.Equal(t, core.ErrOperationForbidden, err)
	assert.Equal(t, before, *stateStr.state)
	assert.Equal(t, 0, stateStr.updates)
}

func TestBuildSkimTransferDeterministic(t *testing.T) {
	s := &service{}
	market := testMarket()
	req := &core.EpochRequest{AssetID: "asset", BlockTime: 100}

	a, err := s.buildSkimTransfer(market, req, number.Decimal("5"))
	require.Nil(t, err)
	b, err := s.buildSkimTransfer(market, req, number.Decimal("5"))
	require.Nil(t, err)

	assert.Equal(t, a.TraceID, b.TraceID)
	assert.Equal(t, "collector", a.OpponentID)
	assert.Equal(t, market.AssetID, a.AssetID)
}
