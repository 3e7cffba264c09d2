package config

import (
	"time"

	"github.com/spf13/viper"
)

type Journal struct {
	// Switch off the local payment receipts journal.
	// Without it an unacknowledged transfer is only ever reported to the user.
	Disabled bool

	// Cron spec for re-submitting unacknowledged receipts
	SweepSchedule string

	// How long a single sweep may take
	SweepTimeout time.Duration

	// Receipts are abandoned to manual reconciliation after this many attempts
	MaxAttempts int
}

func setJournalDefaults() {
	viper.SetDefault("Journal.Disabled", "false")
	viper.SetDefault("Journal.SweepSchedule", "@every 1m")
	viper.SetDefault("Journal.SweepTimeout", "30s")
	viper.SetDefault("Journal.MaxAttempts", 30)
}
