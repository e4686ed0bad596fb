package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Dispatch DispatchConfig
	Kafka    KafkaConfig
	Redis    RedisConfig

	// Timezone is the single process-wide zone event dates and times are
	// interpreted in.
	Timezone string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	// SQLitePath is the default storage engine. PostgresDSN, when set,
	// switches the record store to Postgres.
	SQLitePath  string
	PostgresDSN string
	AutoMigrate bool
	SeedData    bool
}

type DispatchConfig struct {
	// Interval is the dispatch loop's tick period.
	Interval time.Duration
	Enabled  bool
}

type KafkaConfig struct {
	Brokers []string
	Enabled bool
	Topics  TopicConfig
}

type TopicConfig struct {
	Email string
	SMS   string
	Push  string
}

type RedisConfig struct {
	Addr    string
	Enabled bool
	// Channel is the pub/sub channel in-app notifications are published on.
	Channel string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", ":8085"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database: DatabaseConfig{
			SQLitePath:  getEnv("SQLITE_PATH", "reminders.db"),
			PostgresDSN: getEnv("POSTGRES_DSN", ""),
			AutoMigrate: getEnvBool("AUTO_MIGRATE", true),
			SeedData:    getEnvBool("SEED_DATA", false),
		},
		Dispatch: DispatchConfig{
			Interval: time.Duration(getEnvInt("DISPATCH_INTERVAL_SECONDS", 60)) * time.Second,
			Enabled:  getEnvBool("DISPATCH_ENABLED", true),
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Enabled: getEnvBool("KAFKA_ENABLED", false),
			Topics: TopicConfig{
				Email: getEnv("KAFKA_TOPIC_EMAIL", "reminders.notify.email"),
				SMS:   getEnv("KAFKA_TOPIC_SMS", "reminders.notify.sms"),
				Push:  getEnv("KAFKA_TOPIC_PUSH", "reminders.notify.push"),
			},
		},
		Redis: RedisConfig{
			Addr:    getEnv("REDIS_ADDR", "localhost:6379"),
			Enabled: getEnvBool("REDIS_ENABLED", false),
			Channel: getEnv("REDIS_NOTIFY_CHANNEL", "reminders:in-app"),
		},
		Timezone: getEnv("TIMEZONE", "UTC"),
	}
}

// Location resolves the configured timezone, falling back to UTC on a bad
// zone name.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
