package epoch

import (
	"context"
	"time"

	"moneymarket/core"
	"moneymarket/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

// Worker drives epoch reconciliation on the configured cron spec. Each
// round asks the overseer for its current rate figures and replays them
// into an epoch run per market.
type Worker struct {
	worker.BaseJob
	config       *core.Config
	marketStore  core.IMarketStore
	overseerSrv  core.IOverseerService
	epochService core.IEpochService
}

// New new epoch worker
func New(
	cfg *core.Config,
	marketStore core.IMarketStore,
	overseerSrv core.IOverseerService,
	epochService core.IEpochService,
) *Worker {
	job := Worker{
		config:       cfg,
		marketStore:  marketStore,
		overseerSrv:  overseerSrv,
		epochService: epochService,
	}

	l, _ := time.LoadLocation(cfg.App.Location)
	job.Cron = cron.New(cron.WithLocation(l))
	spec := cfg.App.EpochSpec
	if spec == "" {
		spec = "@every 60s"
	}
	_, _ = job.Cron.AddFunc(spec, job.Run)
	job.OnWork = func() error {
		return job.onWork(context.Background())
	}

	return &job
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "epoch")

	rates, err := w.overseerSrv.EpochRates(ctx)
	if err != nil {
		log.WithError(err).Errorln("fetch epoch rates")
		return err
	}

	markets, err := w.marketStore.All(ctx)
	if err != nil {
		log.WithError(err).Errorln("list markets")
		return err
	}

	blockTime := time.Now().Unix()
	for _, market := range markets {
		if !market.ContractsRegistered() {
			continue
		}

		req := &core.EpochRequest{
			AssetID:              market.AssetID,
			BlockTime:            blockTime,
			DepositRate:          rates.DepositRate,
			TargetDepositRate:    rates.TargetDepositRate,
			ThresholdDepositRate: rates.ThresholdDepositRate,
			DistributedInterest:  decimal.Zero,
		}

		result, err := w.epochService.ExecuteEpochOperations(ctx, w.config.Overseer.ClientID, req)
		if err != nil {
			log.WithError(err).WithField("asset", market.AssetID).Errorln("epoch run")
			continue
		}

		log.WithField("asset", market.AssetID).
			WithField("exchange_rate", result.ExchangeRate).
			WithField("skimmed", result.ReservesSkimmed).
			Infoln("epoch committed")
	}

	return nil
}
