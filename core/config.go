package core

import (
	"github.com/fox-one/mixin-sdk-go"
	"github.com/fox-one/pkg/store/db"
)

// Config moneymarket config
type Config struct {
	App               App            `json:"app"`
	DB                db.Config      `json:"db"`
	MainWallet        MainWallet     `json:"main_wallet"`
	InterestModel     ModelEndpoint  `json:"interest_model"`
	DistributionModel ModelEndpoint  `json:"distribution_model"`
	Overseer          OverseerConfig `json:"overseer"`
	Admins            []string       `json:"admins"`
}

// IsAdmin check if the user is admin
func (c *Config) IsAdmin(userID string) bool {
	if len(c.Admins) <= 0 {
		return false
	}

	for _, a := range c.Admins {
		if a == userID {
			return true
		}
	}

	return false
}

// App app config
type App struct {
	Genesis  int64  `json:"genesis"`
	Location string `json:"location"`
	// EpochSpec cron spec of the epoch worker, e.g. "@every 60s"
	EpochSpec string `json:"epoch_spec"`
	// NetworkAPI mixin network endpoint used by the supply oracle
	NetworkAPI string `json:"network_api" valid:"url,optional"`
}

// MainWallet market dapp wallet
type MainWallet struct {
	mixin.Keystore
	ClientSecret string `json:"client_secret"`
	Pin          string `json:"pin"`
}

// ModelEndpoint external rate-model endpoint; empty means use the local model
type ModelEndpoint struct {
	EndPoint string `json:"end_point" valid:"url,optional"`
}

// OverseerConfig overseer endpoint and its caller identity
type OverseerConfig struct {
	EndPoint string `json:"end_point" valid:"url,optional"`
	ClientID string `json:"client_id"`
}
