package main

import (
	"fmt"
	"os"
)

// Config holds all configuration for the deposit service.
type Config struct {
	Port string

	// Flutterwave
	FlutterwaveSecretKey  string
	FlutterwaveSecretHash string // verif-hash value for webhook verification; empty disables the check
	Currency              string
	CallbackURL           string

	// Kafka deposit events; empty brokers disables publishing
	KafkaBrokers      string
	DepositEventTopic string

	// Redis status cache; empty disables caching
	RedisURL string
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:                  getEnv("PORT", "5000"),
		FlutterwaveSecretKey:  os.Getenv("FLW_SECRET_KEY"),
		FlutterwaveSecretHash: os.Getenv("FLW_SECRET_HASH"),
		Currency:              getEnv("DEPOSIT_CURRENCY", "RWF"),
		CallbackURL:           os.Getenv("WEBHOOK_CALLBACK_URL"),
		KafkaBrokers:          os.Getenv("KAFKA_BROKERS"),
		DepositEventTopic:     getEnv("DEPOSIT_EVENT_TOPIC", "deposit-events"),
		RedisURL:              os.Getenv("REDIS_URL"),
	}

	if cfg.FlutterwaveSecretKey == "" {
		return nil, fmt.Errorf("FLW_SECRET_KEY environment variable not set")
	}
	if cfg.CallbackURL == "" {
		return nil, fmt.Errorf("WEBHOOK_CALLBACK_URL environment variable not set")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
