package rest

import (
	"errors"
	"net/http"

	"moneymarket/core"
	"moneymarket/handler/render"

	"github.com/go-chi/chi"
)

// Handle handle rest api request
func Handle(
	marketStore core.IMarketStore,
	stateStore core.IStateStore,
	epochStore core.IEpochStore,
	marketService core.IMarketService,
) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Get("/markets/all", allMarketsHandler(marketStore, stateStore, marketService))
	router.Get("/market", marketHandler(marketStore, stateStore, marketService))
	router.Get("/state", stateHandler(marketStore, stateStore, marketService))
	router.Get("/epoch-state", epochStateHandler(marketStore, stateStore, marketService))
	router.Get("/epoch-records", epochRecordsHandler(epochStore))

	return router
}
