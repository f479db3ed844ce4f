package interestmodel

import (
	"context"
	"fmt"

	"moneymarket/core"
	"moneymarket/internal/moneymarket"
	"moneymarket/pkg/resthttp"

	"github.com/shopspring/decimal"
)

type httpModel struct {
	endpoint string
}

// New new interest-rate model backed by an external endpoint
func New(endpoint string) core.IInterestRateModel {
	return &httpModel{endpoint: endpoint}
}

func (m *httpModel) BorrowRate(ctx context.Context, balance, liabilities, reserves decimal.Decimal) (decimal.Decimal, error) {
	var body struct {
		Rate decimal.Decimal `json:"rate"`
	}

	url := fmt.Sprintf("%s/borrow_rate", m.endpoint)
	req := resthttp.Request(ctx).SetQueryParams(map[string]string{
		"balance":           balance.String(),
		"total_liabilities": liabilities.String(),
		"total_reserves":    reserves.String(),
	})

	if _, err := resthttp.Execute(req, "GET", url, nil, &body); err != nil {
		return decimal.Zero, err
	}

	return body.Rate, nil
}

type jumpRateModel struct {
	baseRate       decimal.Decimal
	multiplier     decimal.Decimal
	jumpMultiplier decimal.Decimal
	kink           decimal.Decimal
}

// NewJumpRate local kinked-rate model used when no endpoint is configured.
// All rate params are annual.
func NewJumpRate(baseRate, multiplier, jumpMultiplier, kink decimal.Decimal) core.IInterestRateModel {
	return &jumpRateModel{
		baseRate:       baseRate,
		multiplier:     multiplier,
		jumpMultiplier: jumpMultiplier,
		kink:           kink,
	}
}

func (m *jumpRateModel) BorrowRate(ctx context.Context, balance, liabilities, reserves decimal.Decimal) (decimal.Decimal, error) {
	utilization := moneymarket.UtilizationRate(balance, liabilities, reserves)
	rate := moneymarket.GetBorrowRatePerSecond(utilization, m.baseRate, m.multiplier, m.jumpMultiplier, m.kink)
	return rate, nil
}
