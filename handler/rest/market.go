package rest

import (
	"net/http"
	"strings"

	"moneymarket/core"
	"moneymarket/handler/param"
	"moneymarket/handler/render"
	"moneymarket/handler/views"

	"github.com/shopspring/decimal"
)

func allMarketsHandler(marketStr core.IMarketStore, stateStr core.IStateStore, marketSrv core.IMarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		markets, err := marketStr.All(ctx)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		marketViews := make([]*views.Market, 0, len(markets))
		for _, m := range markets {
			state, err := stateStr.Find(ctx, m.ID)
			if err != nil {
				render.Coded(w, err)
				return
			}

			rate, err := marketSrv.CurExchangeRate(ctx, m, state)
			if err != nil {
				render.Coded(w, err)
				return
			}

			marketViews = append(marketViews, &views.Market{
				Market:       *m,
				ExchangeRate: rate,
			})
		}

		render.JSON(w, marketViews)
	}
}

func marketHandler(marketStr core.IMarketStore, stateStr core.IStateStore, marketSrv core.IMarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			Symbol string `json:"symbol"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		market, err := marketStr.FindBySymbol(ctx, strings.ToUpper(params.Symbol))
		if err != nil {
			render.Coded(w, err)
			return
		}

		state, err := stateStr.Find(ctx, market.ID)
		if err != nil {
			render.Coded(w, err)
			return
		}

		rate, err := marketSrv.CurExchangeRate(ctx, market, state)
		if err != nil {
			render.Coded(w, err)
			return
		}

		render.JSON(w, &views.Market{
			Market:       *market,
			ExchangeRate: rate,
			State:        state,
		})
	}
}

// stateHandler speculative accrual: ?block_time projects both indexes
// forward without committing anything.
func stateHandler(marketStr core.IMarketStore, stateStr core.IStateStore, marketSrv core.IMarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			AssetID   string `json:"asset_id"`
			BlockTime int64  `json:"block_time"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		market, err := marketStr.Find(ctx, params.AssetID)
		if err != nil {
			render.Coded(w, err)
			return
		}

		state, err := stateStr.Find(ctx, market.ID)
		if err != nil {
			render.Coded(w, err)
			return
		}

		if params.BlockTime > 0 {
			if state, err = marketSrv.ProjectedState(ctx, market, state, params.BlockTime); err != nil {
				render.Coded(w, err)
				return
			}
		}

		render.JSON(w, state)
	}
}

func epochStateHandler(marketStr core.IMarketStore, stateStr core.IStateStore, marketSrv core.IMarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			AssetID             string          `json:"asset_id"`
			BlockTime           int64           `json:"block_time"`
			DistributedInterest decimal.Decimal `json:"distributed_interest"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		market, err := marketStr.Find(ctx, params.AssetID)
		if err != nil {
			render.Coded(w, err)
			return
		}

		state, err := stateStr.Find(ctx, market.ID)
		if err != nil {
			render.Coded(w, err)
			return
		}

		epochState, err := marketSrv.EpochState(ctx, market, state, params.BlockTime, params.DistributedInterest)
		if err != nil {
			render.Coded(w, err)
			return
		}

		render.JSON(w, epochState)
	}
}

func epochRecordsHandler(epochStr core.IEpochStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			FromID uint64 `json:"from_id"`
			Limit  int    `json:"limit"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		if params.Limit <= 0 || params.Limit > 100 {
			params.Limit = 100
		}

		records, err := epochStr.List(ctx, params.FromID, params.Limit)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, records)
	}
}
