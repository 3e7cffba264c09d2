package config

import (
	"time"

	"github.com/spf13/viper"
)

type Database struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SslMode  string

	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
	MaxIdleConns    int
	MaxOpenConns    int
}

func setDatabaseDefaults() {
	viper.SetDefault("Database.Host", "127.0.0.1")
	viper.SetDefault("Database.Port", "5432")
	viper.SetDefault("Database.User", "adtgram")
	viper.SetDefault("Database.Password", "adtgram")
	viper.SetDefault("Database.Name", "adtgram")
	viper.SetDefault("Database.SslMode", "disable")
	viper.SetDefault("Database.ConnMaxIdleTime", "30m")
	viper.SetDefault("Database.ConnMaxLifetime", "1h")
	viper.SetDefault("Database.MaxIdleConns", 2)
	viper.SetDefault("Database.MaxOpenConns", 10)
}
