package config

import (
	"time"

	"github.com/spf13/viper"
)

type Gateway struct {
	// Base URL of the marketplace ledger REST API
	Url string

	// How long to wait for a single request to finish
	RequestTimeout time.Duration

	// How many times a failed idempotent request is retried
	RetryCount int

	// Requests per second the client is allowed to send
	RateLimit float64

	// Max burst above the sustained rate
	RateBurst int
}

func setGatewayDefaults() {
	viper.SetDefault("Gateway.Url", "http://localhost:8000")
	viper.SetDefault("Gateway.RequestTimeout", "30s")
	viper.SetDefault("Gateway.RetryCount", 1)
	viper.SetDefault("Gateway.RateLimit", 10)
	viper.SetDefault("Gateway.RateBurst", 20)
}
