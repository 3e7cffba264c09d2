package config

import (
	"github.com/spf13/viper"
)

type Monitor struct {
	// Number of samples kept for moving averages
	MaxHistorySize int
}

func setMonitorDefaults() {
	viper.SetDefault("Monitor.MaxHistorySize", 30)
}
