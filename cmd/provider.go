package cmd

import (
	"time"

	"moneymarket/core"
	distributionservice "moneymarket/service/distribution"
	epochservice "moneymarket/service/epoch"
	interestservice "moneymarket/service/interestmodel"
	marketservice "moneymarket/service/market"
	overseerservice "moneymarket/service/overseer"
	walletservice "moneymarket/service/wallet"
	"moneymarket/store/epoch"
	"moneymarket/store/market"
	"moneymarket/store/state"
	"moneymarket/store/transfer"

	"github.com/fox-one/mixin-sdk-go"
	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
	"github.com/shopspring/decimal"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideConfig() *core.Config {
	return &cfg
}

func provideMainWallet() *core.Wallet {
	c, err := mixin.NewFromKeystore(&cfg.MainWallet.Keystore)
	if err != nil {
		panic(err)
	}

	return &core.Wallet{
		Client: c,
		Pin:    cfg.MainWallet.Pin,
	}
}

// ---------------store-----------------------------------------

func providePropertyStore(db *db.DB) property.Store {
	return propertystore.New(db)
}

func provideMarketStore(db *db.DB) core.IMarketStore {
	return market.Cache(market.New(db), time.Second)
}

func provideStateStore(db *db.DB) core.IStateStore {
	return state.New(db)
}

func provideTransferStore(db *db.DB) core.ITransferStore {
	return transfer.New(db)
}

func provideEpochStore(db *db.DB) core.IEpochStore {
	return epoch.New(db)
}

// ------------------service------------------------------------

func provideWalletService() core.IWalletService {
	return walletservice.New(provideMainWallet(), cfg.App.NetworkAPI)
}

func provideInterestModel() core.IInterestRateModel {
	if endpoint := cfg.InterestModel.EndPoint; endpoint != "" {
		return interestservice.New(endpoint)
	}

	return interestservice.NewJumpRate(
		decimal.NewFromFloat(0.025),
		decimal.NewFromFloat(0.2),
		decimal.NewFromFloat(1.5),
		decimal.NewFromFloat(0.8),
	)
}

func provideDistributionModel() core.IDistributionModel {
	if endpoint := cfg.DistributionModel.EndPoint; endpoint != "" {
		return distributionservice.New(endpoint)
	}

	return distributionservice.NewLocal(
		decimal.NewFromInt(100),
		decimal.NewFromFloat(0.01),
		decimal.NewFromFloat(1.1),
		decimal.NewFromFloat(0.9),
	)
}

func provideOverseerService() core.IOverseerService {
	return overseerservice.New(cfg.Overseer.EndPoint)
}

func provideMarketService(
	db *db.DB,
	marketStore core.IMarketStore,
	stateStore core.IStateStore,
	walletz core.IWalletService,
) core.IMarketService {
	return marketservice.New(
		db,
		marketStore,
		stateStore,
		walletz,
		provideInterestModel(),
		provideOverseerService(),
		providePropertyStore(db),
	)
}

func provideEpochService(
	db *db.DB,
	marketStore core.IMarketStore,
	stateStore core.IStateStore,
	transferStore core.ITransferStore,
	epochStore core.IEpochStore,
	walletz core.IWalletService,
) core.IEpochService {
	return epochservice.New(
		db,
		marketStore,
		stateStore,
		transferStore,
		epochStore,
		walletz,
		provideInterestModel(),
		provideDistributionModel(),
	)
}
