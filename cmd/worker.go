package cmd

import (
	"context"
	"sync"

	"moneymarket/worker/cashier"
	epochworker "moneymarket/worker/epoch"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "moneymarket job worker",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		database := provideDatabase()
		defer database.Close()

		marketStore := provideMarketStore(database)
		stateStore := provideStateStore(database)
		transferStore := provideTransferStore(database)
		epochStore := provideEpochStore(database)

		walletService := provideWalletService()
		overseerService := provideOverseerService()
		epochService := provideEpochService(database, marketStore, stateStore, transferStore, epochStore, walletService)

		batch, _ := cmd.Flags().GetInt("batch")

		epochJob := epochworker.New(provideConfig(), marketStore, overseerService, epochService)
		if err := epochJob.Start(); err != nil {
			log.WithError(err).Fatal("start epoch job")
		}
		defer epochJob.Stop()

		ctx, quit := context.WithCancel(ctx)
		signal.WithContextFunc(ctx, quit)

		wg := sync.WaitGroup{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = cashier.New(database, transferStore, walletService, cashier.Config{Batch: batch}).Run(ctx)
		}()

		wg.Wait()
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
	workerCmd.Flags().Int("batch", 20, "cashier batch size")
}
