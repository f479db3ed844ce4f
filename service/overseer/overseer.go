package overseer

import (
	"context"
	"fmt"

	"moneymarket/core"
	"moneymarket/pkg/resthttp"

	"github.com/shopspring/decimal"
)

type overseerService struct {
	endpoint string
}

// New new overseer client
func New(endpoint string) core.IOverseerService {
	return &overseerService{endpoint: endpoint}
}

func (s *overseerService) TargetDepositRate(ctx context.Context) (decimal.Decimal, error) {
	rates, err := s.EpochRates(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	return rates.TargetDepositRate, nil
}

func (s *overseerService) EpochRates(ctx context.Context) (*core.EpochRates, error) {
	var rates core.EpochRates

	url := fmt.Sprintf("%s/epoch_rates", s.endpoint)
	if _, err := resthttp.Execute(resthttp.Request(ctx), "GET", url, nil, &rates); err != nil {
		return nil, err
	}

	return &rates, nil
}
