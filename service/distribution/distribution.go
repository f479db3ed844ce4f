package distribution

import (
	"context"
	"fmt"

	"moneymarket/core"
	"moneymarket/pkg/number"
	"moneymarket/pkg/resthttp"

	"github.com/shopspring/decimal"
)

type httpModel struct {
	endpoint string
}

// New new distribution model backed by an external endpoint
func New(endpoint string) core.IDistributionModel {
	return &httpModel{endpoint: endpoint}
}

func (m *httpModel) EmissionRate(ctx context.Context, depositRate, targetDepositRate, thresholdDepositRate, currentRate decimal.Decimal) (decimal.Decimal, error) {
	var body struct {
		EmissionRate decimal.Decimal `json:"emission_rate"`
	}

	url := fmt.Sprintf("%s/emission_rate", m.endpoint)
	req := resthttp.Request(ctx).SetQueryParams(map[string]string{
		"deposit_rate":           depositRate.String(),
		"target_deposit_rate":    targetDepositRate.String(),
		"threshold_deposit_rate": thresholdDepositRate.String(),
		"current_emission_rate":  currentRate.String(),
	})

	if _, err := resthttp.Execute(req, "GET", url, nil, &body); err != nil {
		return decimal.Zero, err
	}

	return body.EmissionRate, nil
}

type localModel struct {
	emissionCap         decimal.Decimal
	emissionFloor       decimal.Decimal
	incrementMultiplier decimal.Decimal
	decrementMultiplier decimal.Decimal
}

// NewLocal threshold-based emission control: raise emission while the
// deposit rate sits under the threshold, decay it once the yield is
// healthy again.
func NewLocal(emissionCap, emissionFloor, incrementMultiplier, decrementMultiplier decimal.Decimal) core.IDistributionModel {
	return &localModel{
		emissionCap:         emissionCap,
		emissionFloor:       emissionFloor,
		incrementMultiplier: incrementMultiplier,
		decrementMultiplier: decrementMultiplier,
	}
}

func (m *localModel) EmissionRate(ctx context.Context, depositRate, targetDepositRate, thresholdDepositRate, currentRate decimal.Decimal) (decimal.Decimal, error) {
	if depositRate.LessThan(thresholdDepositRate) {
		return number.Min(m.emissionCap, currentRate.Mul(m.incrementMultiplier)), nil
	}

	next := currentRate.Mul(m.decrementMultiplier)
	if next.LessThan(m.emissionFloor) {
		next = m.emissionFloor
	}

	return next, nil
}
