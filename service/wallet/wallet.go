package wallet

import (
	"context"
	"fmt"

	"moneymarket/core"
	"moneymarket/pkg/resthttp"

	"github.com/fox-one/mixin-sdk-go"
	"github.com/shopspring/decimal"
)

type walletService struct {
	mainWallet *core.Wallet
	networkAPI string
}

// New new wallet service
func New(mainWallet *core.Wallet, networkAPI string) core.IWalletService {
	return &walletService{
		mainWallet: mainWallet,
		networkAPI: networkAPI,
	}
}

func (s *walletService) Balance(ctx context.Context, assetID string) (decimal.Decimal, error) {
	asset, err := s.mainWallet.Client.ReadAsset(ctx, assetID)
	if err != nil {
		return decimal.Zero, err
	}

	return asset.Balance, nil
}

func (s *walletService) TotalSupply(ctx context.Context, assetID string) (decimal.Decimal, error) {
	var body struct {
		Data struct {
			Amount decimal.Decimal `json:"amount"`
		} `json:"data"`
	}

	url := fmt.Sprintf("%s/network/assets/%s", s.networkAPI, assetID)
	if _, err := resthttp.Execute(resthttp.Request(ctx), "GET", url, nil, &body); err != nil {
		return decimal.Zero, err
	}

	return body.Data.Amount, nil
}

func (s *walletService) HandleTransfer(ctx context.Context, transfer *core.Transfer) error {
	input := &mixin.TransferInput{
		AssetID:    transfer.AssetID,
		OpponentID: transfer.OpponentID,
		Amount:     transfer.Amount,
		TraceID:    transfer.TraceID,
		Memo:       transfer.Memo,
	}

	_, err := s.mainWallet.Client.Transfer(ctx, input, s.mainWallet.Pin)
	return err
}
