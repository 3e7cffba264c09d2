package config

import (
	"time"

	"github.com/spf13/viper"
)

type Reconciler struct {
	// How often each polling loop re-fetches its scope
	Interval time.Duration

	// How long a single refresh query may take
	FetchTimeout time.Duration

	// Maximum number of scope refreshes running in parallel
	MaxParallelFetches int

	// Max refreshes waiting in the worker queue
	WorkerQueueSize int

	// How long the cached marketplace channel listing stays fresh
	ChannelCacheTTL time.Duration
}

func setReconcilerDefaults() {
	viper.SetDefault("Reconciler.Interval", "5s")
	viper.SetDefault("Reconciler.FetchTimeout", "15s")
	viper.SetDefault("Reconciler.MaxParallelFetches", 4)
	viper.SetDefault("Reconciler.WorkerQueueSize", 16)
	viper.SetDefault("Reconciler.ChannelCacheTTL", "30s")
}
