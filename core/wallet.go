package core

import (
	"context"

	"github.com/fox-one/mixin-sdk-go"
	"github.com/shopspring/decimal"
)

// Wallet a mixin wallet with its spending pin
type Wallet struct {
	Client *mixin.Client
	Pin    string
}

// IWalletService balance/supply oracle plus transfer submission
type IWalletService interface {
	// Balance current on-hand balance of the asset held by the market wallet
	Balance(ctx context.Context, assetID string) (decimal.Decimal, error)
	// TotalSupply current circulating supply of the asset
	TotalSupply(ctx context.Context, assetID string) (decimal.Decimal, error)
	// HandleTransfer submits the transfer on the wallet
	HandleTransfer(ctx context.Context, transfer *Transfer) error
}
