package cashier

import (
	"context"
	"errors"

	"moneymarket/core"
	"moneymarket/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"golang.org/x/sync/errgroup"
)

// Cashier submits queued transfers to the wallet and deletes them once
// accepted. Trace ids make resubmission after a crash harmless.
type Cashier struct {
	worker.TickWorker
	db            *db.DB
	transferStore core.ITransferStore
	walletService core.IWalletService
	cfg           Config
}

type Config struct {
	Batch int `json:"batch" valid:"required"`
}

// New new cashier
func New(
	db *db.DB,
	transferStr core.ITransferStore,
	walletSrv core.IWalletService,
	cfg Config,
) *Cashier {
	if cfg.Batch <= 0 {
		cfg.Batch = 20
	}

	return &Cashier{
		db:            db,
		transferStore: transferStr,
		walletService: walletSrv,
		cfg:           cfg,
	}
}

// Run run worker
func (w *Cashier) Run(ctx context.Context) error {
	return w.StartTick(ctx, func(ctx context.Context) error {
		return w.onWork(ctx)
	})
}

func (w *Cashier) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "cashier")

	transfers, err := w.transferStore.Top(ctx, w.cfg.Batch)
	if err != nil {
		log.WithError(err).Errorln("list transfers")
		return err
	}

	if len(transfers) == 0 {
		return errors.New("EOF")
	}

	var g errgroup.Group
	for idx := range transfers {
		transfer := transfers[idx]
		g.Go(func() error {
			return w.handleTransfer(ctx, transfer)
		})
	}

	return g.Wait()
}

func (w *Cashier) handleTransfer(ctx context.Context, transfer *core.Transfer) error {
	log := logger.FromContext(ctx)

	if err := w.walletService.HandleTransfer(ctx, transfer); err != nil {
		log.WithError(err).Errorln("walletz.HandleTransfer")
		return err
	}

	if err := w.transferStore.Delete(ctx, w.db, transfer.ID); err != nil {
		log.WithError(err).Errorln("transfers.Delete")
		return err
	}

	return nil
}
