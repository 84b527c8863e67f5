package cmd

import (
	"fmt"
	"strconv"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	AMQPURL            string
	AMQPEventsExchange string
	AMQPPaymentQueue   string

	DispatchMaxAttempts int
	ReleaseMaxAttempts  int
	StaleRetryMax       int

	DispatchRetrySchedule   string
	CourierRecoverySchedule string
	OutboxRelaySchedule     string
}

const (
	defaultHTTPPort           = "8080"
	defaultAMQPEventsExchange = "delivery.events"
	defaultAMQPPaymentQueue   = "delivery.payment_updates"
	defaultStaleRetryMax      = 3
)

// LoadConfig reads the configuration through getenv. Empty numeric and schedule keys
// fall back to defaults; zero attempt limits select the handlers' own defaults.
func LoadConfig(getenv func(string) string) (Config, error) {
	config := Config{
		HTTPPort:                withDefault(getenv("HTTP_PORT"), defaultHTTPPort),
		DBHost:                  getenv("DB_HOST"),
		DBPort:                  getenv("DB_PORT"),
		DBUser:                  getenv("DB_USER"),
		DBPassword:              getenv("DB_PASSWORD"),
		DBName:                  getenv("DB_NAME"),
		DBSslMode:               withDefault(getenv("DB_SSLMODE"), "disable"),
		AMQPURL:                 getenv("AMQP_URL"),
		AMQPEventsExchange:      withDefault(getenv("AMQP_EVENTS_EXCHANGE"), defaultAMQPEventsExchange),
		AMQPPaymentQueue:        withDefault(getenv("AMQP_PAYMENT_QUEUE"), defaultAMQPPaymentQueue),
		DispatchRetrySchedule:   getenv("DISPATCH_RETRY_SCHEDULE"),
		CourierRecoverySchedule: getenv("COURIER_RECOVERY_SCHEDULE"),
		OutboxRelaySchedule:     getenv("OUTBOX_RELAY_SCHEDULE"),
	}

	var err error
	if config.DispatchMaxAttempts, err = intValue(getenv, "DISPATCH_MAX_ATTEMPTS", 0); err != nil {
		return Config{}, err
	}
	if config.ReleaseMaxAttempts, err = intValue(getenv, "RELEASE_MAX_ATTEMPTS", 0); err != nil {
		return Config{}, err
	}
	if config.StaleRetryMax, err = intValue(getenv, "STALE_RETRY_MAX", defaultStaleRetryMax); err != nil {
		return Config{}, err
	}

	return config, nil
}

// DSN is the PostgreSQL connection string for gorm.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func withDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func intValue(getenv func(string) string, key string, fallback int) (int, error) {
	raw := getenv(key)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("%s: %d is negative", key, value)
	}
	return value, nil
}
