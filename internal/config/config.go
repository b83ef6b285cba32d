package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort    string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	JWTSecret     string
	SweepInterval time.Duration
}

func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "inkwell")
	v.SetDefault("DB_PASSWORD", "inkwell_dev_password")
	v.SetDefault("DB_NAME", "inkwell")
	v.SetDefault("JWT_SECRET", "dev-secret-change-me")
	v.SetDefault("SWEEP_INTERVAL", "1m")

	return &Config{
		ServerPort:    v.GetString("SERVER_PORT"),
		DBHost:        v.GetString("DB_HOST"),
		DBPort:        v.GetString("DB_PORT"),
		DBUser:        v.GetString("DB_USER"),
		DBPassword:    v.GetString("DB_PASSWORD"),
		DBName:        v.GetString("DB_NAME"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		SweepInterval: v.GetDuration("SWEEP_INTERVAL"),
	}
}
