package config

import (
	"time"

	"github.com/spf13/viper"
)

type Escrow struct {
	// Fixed destination address holding funds until release conditions are met
	Address string

	// Minimum asking price a channel owner may set, in TON
	MinPriceTon float64

	// Max time confirm-payment is retried right after a successful transfer
	ConfirmMaxElapsedTime time.Duration

	// Max time between confirm-payment retries
	ConfirmMaxInterval time.Duration
}

func setEscrowDefaults() {
	viper.SetDefault("Escrow.Address", "0QAJL7gE0xCaJnHJ5gjzC1W4-pplRdLoxSxnJcUq43tSW4IR")
	viper.SetDefault("Escrow.MinPriceTon", 0.1)
	viper.SetDefault("Escrow.ConfirmMaxElapsedTime", "30s")
	viper.SetDefault("Escrow.ConfirmMaxInterval", "10s")
}
