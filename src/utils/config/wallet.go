package config

import (
	"time"

	"github.com/spf13/viper"
)

type Wallet struct {
	// Websocket URL of the signer bridge
	BridgeUrl string

	// How long a sent transfer request stays valid.
	// Matches the transaction's own expiry.
	TransferValidity time.Duration

	// How long to wait for the user to approve a connection
	ConnectTimeout time.Duration

	// Size of the session event queue
	EventQueueSize int
}

func setWalletDefaults() {
	viper.SetDefault("Wallet.BridgeUrl", "ws://localhost:8081/bridge")
	viper.SetDefault("Wallet.TransferValidity", "5m")
	viper.SetDefault("Wallet.ConnectTimeout", "2m")
	viper.SetDefault("Wallet.EventQueueSize", 16)
}
