package config

import (
	"time"

	"github.com/spf13/viper"
)

type Redis struct {
	// Switch off publishing deal events
	Disabled bool

	Host     string
	Port     int
	User     string
	Password string
	DB       int

	// Pub/sub channel deal events are published to
	ChannelName string

	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
	MinIdleConns    int
	MaxIdleConns    int
	MaxOpenConns    int

	// Workers publishing in parallel
	MaxWorkers int

	// Max events waiting in the queue
	MaxQueueSize int

	// Max time between retries to publish an event
	BackoffMaxInterval time.Duration

	// Max time a publish is retried. 0 means no limit.
	BackoffMaxElapsedTime time.Duration
}

func setRedisDefaults() {
	viper.SetDefault("Redis.Disabled", "false")
	viper.SetDefault("Redis.Host", "127.0.0.1")
	viper.SetDefault("Redis.Port", "6379")
	viper.SetDefault("Redis.User", "")
	viper.SetDefault("Redis.Password", "")
	viper.SetDefault("Redis.DB", 0)
	viper.SetDefault("Redis.ChannelName", "deal_events")
	viper.SetDefault("Redis.ConnMaxIdleTime", "5m")
	viper.SetDefault("Redis.ConnMaxLifetime", "1h")
	viper.SetDefault("Redis.MinIdleConns", 1)
	viper.SetDefault("Redis.MaxIdleConns", 4)
	viper.SetDefault("Redis.MaxOpenConns", 10)
	viper.SetDefault("Redis.MaxWorkers", 2)
	viper.SetDefault("Redis.MaxQueueSize", 100)
	viper.SetDefault("Redis.BackoffMaxInterval", "10s")
	viper.SetDefault("Redis.BackoffMaxElapsedTime", "2m")
}
