package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"moneymarket/core"
	"moneymarket/pkg/number"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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
	if s.market == nil || s.market.Symbol != symbol {
		return nil, core.ErrMarketNotFound
	}

	return s.market, nil
}

func (s *fakeMarketStore) All(ctx context.Context) ([]*core.Market, error) {
	return []*core.Market{s.market}, nil
}

func (s *fakeMarketStore) Update(ctx context.Context, tx *db.DB, market *core.Market) error {
	return nil
}

type fakeStateStore struct {
	state *core.State
}

func (s *fakeStateStore) Create(ctx context.Context, tx *db.DB, state *core.State) error {
	return nil
}

func (s *fakeStateStore) Find(ctx context.Context, marketID uint64) (*core.State, error) {
	return s.state, nil
}

func (s *fakeStateStore) Update(ctx context.Context, tx *db.DB, state *core.State) error {
	return nil
}

type fakeMarketService struct {
	rate    decimal.Decimal
	rateErr error
}

func (s *fakeMarketService) AccrueInterest(ctx context.Context, market *core.Market, state *core.State, now int64) error {
	return nil
}

func (s *fakeMarketService) AccrueReward(state *core.State, now int64) error {
	return nil
}

func (s *fakeMarketService) CurExchangeRate(ctx context.Context, market *core.Market, state *core.State) (decimal.Decimal, error) {
	return s.rate, s.rateErr
}

func (s *fakeMarketService) ProjectedState(ctx context.Context, market *core.Market, state *core.State, blockTime int64) (*core.State, error) {
	return state, nil
}

func (s *fakeMarketService) EpochState(ctx context.Context, market *core.Market, state *core.State, blockTime int64, distributedInterest decimal.Decimal) (*core.EpochState, error) {
	return &core.EpochState{}, nil
}

func (s *fakeMarketService) RegisterContracts(ctx context.Context, market *core.Market, reg core.ContractRegistration) error {
	return nil
}

func (s *fakeMarketService) RequestCToken(ctx context.Context, market *core.Market) (string, error) {
	return "", nil
}

func (s *fakeMarketService) HandleCTokenCreated(ctx context.Context, market *core.Market, traceID, assetID string) error {
	return nil
}

func (s *fakeMarketService) UpdateConfig(ctx context.Context, caller string, market *core.Market, state *core.State, req core.UpdateConfigRequest) error {
	return nil
}

func (s *fakeMarketService) ReplaceEmissionRate(ctx context.Context, market *core.Market, state *core.State, rate decimal.Decimal) error {
	return nil
}

func testStores() (*fakeMarketStore, *fakeStateStore) {
	return &fakeMarketStore{market: &core.Market{ID: 1, Symbol: "BTC", AssetID: "asset"}},
		&fakeStateStore{state: &core.State{MarketID: 1}}
}

func TestMarketHandler(t *testing.T) {
	marketStr, stateStr := testStores()
	srv := &fakeMarketService{rate: number.Decimal("1.25")}

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/market?symbol=BTC", nil)
	marketHandler(marketStr, stateStr, srv).ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var view struct {
		ExchangeRate decimal.Decimal `json:"exchange_rate"`
	}
	require.Nil(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "1.25", view.ExchangeRate.String())
}

func TestMarketHandlerRateFailure(t *testing.T) {
	marketStr, stateStr := testStores()
	srv := &fakeMarketService{rateErr: errors.New("wallet down")}

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/market?symbol=BTC", nil)
	marketHandler(marketStr, stateStr, srv).ServeHTTP(w, r)

	// a share price must never be silently rendered as zero
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotContains(t, w.Body.String(), "exchange_rate")
}

func TestAllMarketsHandlerRateFailure(t *testing.T) {
	marketStr, stateStr := testStores()
	srv := &fakeMarketService{rateErr: errors.New("wallet down")}

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/markets/all", nil)
	allMarketsHandler(marketStr, stateStr, srv).ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
