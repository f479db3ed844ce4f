package cmd

import (
	"encoding/json"
	"strings"

	"moneymarket/core"

	"github.com/fox-one/pkg/qrcode"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var addMarketCmd = &cobra.Command{
	Use:     "add-market",
	Aliases: []string{"am"},
	Short:   "add market with its genesis state",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		symbol, _ := cmd.Flags().GetString("s")
		assetID, _ := cmd.Flags().GetString("a")
		owner, _ := cmd.Flags().GetString("o")
		if symbol == "" || assetID == "" || owner == "" {
			panic("symbol, asset id and owner are required")
		}

		emission, _ := cmd.Flags().GetString("e")
		emissionRate, err := decimal.NewFromString(emission)
		if err != nil {
			panic(err)
		}

		database := provideDatabase()
		defer database.Close()

		marketStore := provideMarketStore(database)
		stateStore := provideStateStore(database)

		market := &core.Market{
			Symbol:  strings.ToUpper(symbol),
			AssetID: assetID,
			Owner:   owner,
		}

		if err := database.Tx(func(tx *db.DB) error {
			if err := marketStore.Create(ctx, tx, market); err != nil {
				return err
			}

			return stateStore.Create(ctx, tx, core.NewGenesisState(market.ID, cfg.App.Genesis, emissionRate))
		}); err != nil {
			panic(err)
		}

		cmd.Println("market created:", market.Symbol)
	},
}

var registerContractsCmd = &cobra.Command{
	Use:     "register-contracts",
	Aliases: []string{"rc"},
	Short:   "one-time collaborator registration",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		assetID, _ := cmd.Flags().GetString("a")

		database := provideDatabase()
		defer database.Close()

		marketStore := provideMarketStore(database)
		stateStore := provideStateStore(database)
		marketService := provideMarketService(database, marketStore, stateStore, provideWalletService())

		market, err := marketStore.Find(ctx, assetID)
		if err != nil {
			panic(err)
		}

		reg := core.ContractRegistration{}
		reg.Overseer, _ = cmd.Flags().GetString("overseer")
		reg.InterestModel, _ = cmd.Flags().GetString("interest-model")
		reg.DistributionModel, _ = cmd.Flags().GetString("distribution-model")
		reg.Collector, _ = cmd.Flags().GetString("collector")
		reg.Distributor, _ = cmd.Flags().GetString("distributor")

		if err := marketService.RegisterContracts(ctx, market, reg); err != nil {
			panic(err)
		}

		cmd.Println("contracts registered")
	},
}

var requestCTokenCmd = &cobra.Command{
	Use:   "request-ctoken",
	Short: "phase one of receipt token registration",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		assetID, _ := cmd.Flags().GetString("a")

		database := provideDatabase()
		defer database.Close()

		marketStore := provideMarketStore(database)
		stateStore := provideStateStore(database)
		marketService := provideMarketService(database, marketStore, stateStore, provideWalletService())

		market, err := marketStore.Find(ctx, assetID)
		if err != nil {
			panic(err)
		}

		traceID, err := marketService.RequestCToken(ctx, market)
		if err != nil {
			panic(err)
		}

		cmd.Println("request trace:", traceID)
		qrcode.Fprint(cmd.OutOrStdout(), traceID)
	},
}

var registerCTokenCmd = &cobra.Command{
	Use:   "register-ctoken",
	Short: "phase two: bind the created receipt token",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		assetID, _ := cmd.Flags().GetString("a")
		traceID, _ := cmd.Flags().GetString("t")
		ctokenAssetID, _ := cmd.Flags().GetString("c")

		database := provideDatabase()
		defer database.Close()

		marketStore := provideMarketStore(database)
		stateStore := provideStateStore(database)
		marketService := provideMarketService(database, marketStore, stateStore, provideWalletService())

		market, err := marketStore.Find(ctx, assetID)
		if err != nil {
			panic(err)
		}

		if err := marketService.HandleCTokenCreated(ctx, market, traceID, ctokenAssetID); err != nil {
			panic(err)
		}

		cmd.Println("ctoken registered:", ctokenAssetID)
	},
}

var updateConfigCmd = &cobra.Command{
	Use:   "update-config",
	Short: "owner-only market config update",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		caller, _ := cmd.Flags().GetString("caller")
		assetID, _ := cmd.Flags().GetString("a")

		database := provideDatabase()
		defer database.Close()

		marketStore := provideMarketStore(database)
		stateStore := provideStateStore(database)
		marketService := provideMarketService(database, marketStore, stateStore, provideWalletService())

		market, err := marketStore.Find(ctx, assetID)
		if err != nil {
			panic(err)
		}

		state, err := stateStore.Find(ctx, market.ID)
		if err != nil {
			panic(err)
		}

		req := core.UpdateConfigRequest{}
		req.Owner, _ = cmd.Flags().GetString("owner")
		req.InterestModel, _ = cmd.Flags().GetString("interest-model")
		req.DistributionModel, _ = cmd.Flags().GetString("distribution-model")
		if factor, _ := cmd.Flags().GetString("max-borrow-factor"); factor != "" {
			f, err := decimal.NewFromString(factor)
			if err != nil {
				panic(err)
			}
			req.MaxBorrowFactor = &f
		}

		if err := marketService.UpdateConfig(ctx, caller, market, state, req); err != nil {
			panic(err)
		}

		cmd.Println("config updated")
	},
}

var replaceEmissionRateCmd = &cobra.Command{
	Use:   "replace-emission-rate",
	Short: "admin migration of the emission rate",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		admin, _ := cmd.Flags().GetString("admin")
		if !cfg.IsAdmin(admin) {
			panic("not an admin")
		}

		assetID, _ := cmd.Flags().GetString("a")
		rateStr, _ := cmd.Flags().GetString("r")
		rate, err := decimal.NewFromString(rateStr)
		if err != nil {
			panic(err)
		}

		database := provideDatabase()
		defer database.Close()

		marketStore := provideMarketStore(database)
		stateStore := provideStateStore(database)
		marketService := provideMarketService(database, marketStore, stateStore, provideWalletService())

		market, err := marketStore.Find(ctx, assetID)
		if err != nil {
			panic(err)
		}

		state, err := stateStore.Find(ctx, market.ID)
		if err != nil {
			panic(err)
		}

		if err := marketService.ReplaceEmissionRate(ctx, market, state, rate); err != nil {
			panic(err)
		}

		cmd.Println("emission rate replaced:", rate.String())
	},
}

var marketStateCmd = &cobra.Command{
	Use:   "market-state",
	Short: "dump the stored ledger of a market",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		assetID, _ := cmd.Flags().GetString("a")

		database := provideDatabase()
		defer database.Close()

		market, err := provideMarketStore(database).Find(ctx, assetID)
		if err != nil {
			panic(err)
		}

		state, err := provideStateStore(database).Find(ctx, market.ID)
		if err != nil {
			panic(err)
		}

		data, _ := json.MarshalIndent(state, "", "  ")
		cmd.Println(string(data))
	},
}

func init() {
	rootCmd.AddCommand(addMarketCmd)
	rootCmd.AddCommand(registerContractsCmd)
	rootCmd.AddCommand(requestCTokenCmd)
	rootCmd.AddCommand(registerCTokenCmd)
	rootCmd.AddCommand(updateConfigCmd)
	rootCmd.AddCommand(replaceEmissionRateCmd)
	rootCmd.AddCommand(marketStateCmd)

	addMarketCmd.Flags().String("s", "", "market symbol")
	addMarketCmd.Flags().String("a", "", "asset id")
	addMarketCmd.Flags().String("o", "", "owner id")
	addMarketCmd.Flags().String("e", "0", "initial emission rate")

	registerContractsCmd.Flags().String("a", "", "asset id")
	registerContractsCmd.Flags().String("overseer", "", "overseer id")
	registerContractsCmd.Flags().String("interest-model", "", "interest model handle")
	registerContractsCmd.Flags().String("distribution-model", "", "distribution model handle")
	registerContractsCmd.Flags().String("collector", "", "collector id")
	registerContractsCmd.Flags().String("distributor", "", "distributor id")

	requestCTokenCmd.Flags().String("a", "", "asset id")

	registerCTokenCmd.Flags().String("a", "", "asset id")
	registerCTokenCmd.Flags().String("t", "", "request trace id")
	registerCTokenCmd.Flags().String("c", "", "ctoken asset id")

	updateConfigCmd.Flags().String("caller", "", "caller user id")
	updateConfigCmd.Flags().String("a", "", "asset id")
	updateConfigCmd.Flags().String("owner", "", "new owner id")
	updateConfigCmd.Flags().String("interest-model", "", "new interest model handle")
	updateConfigCmd.Flags().String("distribution-model", "", "new distribution model handle")
	updateConfigCmd.Flags().String("max-borrow-factor", "", "new max borrow factor")

	replaceEmissionRateCmd.Flags().String("admin", "", "admin user id")
	replaceEmissionRateCmd.Flags().String("a", "", "asset id")
	replaceEmissionRateCmd.Flags().String("r", "", "new emission rate")

	marketStateCmd.Flags().String("a", "", "asset id")
}
