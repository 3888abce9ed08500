package config

import (
	"os"
	"strconv"
	"time"

	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/database"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/messaging"
)

// Config holds the full application configuration, loaded from environment
// variables with sensible local-development defaults.
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	Database database.Config
	NATS     messaging.Config
	Redis    RedisConfig
	Search   SearchConfig
	Auth     AuthConfig
}

// RedisConfig configures the read-through cache. The cache is optional:
// an unreachable server degrades lookups to the database.
type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	TrainsTTL    time.Duration
	PNRLookupTTL time.Duration
}

// SearchConfig configures the Elasticsearch train index.
type SearchConfig struct {
	Enabled    bool
	URL        string
	Index      string
	Username   string
	Password   string
	MaxRetries int
}

// AuthConfig configures JWT issuance and verification.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// Load reads configuration from the environment.
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "5000"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "railbook"),
			Password:           getEnv("DB_PASSWORD", "railbook"),
			DBName:             getEnv("DB_NAME", "train_booking"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "railbook"),
			ClientID:  getEnv("NATS_CLIENT_ID", "railbook-api"),
		},

		Redis: RedisConfig{
			Addr:         getEnv("REDIS_ADDR", "localhost:6379"),
			Password:     os.Getenv("REDIS_PASSWORD"),
			DB:           getEnvInt("REDIS_DB", 0),
			TrainsTTL:    time.Duration(getEnvInt("REDIS_TRAINS_TTL_SEC", 60)) * time.Second,
			PNRLookupTTL: time.Duration(getEnvInt("REDIS_PNR_TTL_SEC", 30)) * time.Second,
		},

		Search: SearchConfig{
			Enabled:    getEnv("ELASTICSEARCH_ENABLED", "false") == "true",
			URL:        getEnv("ELASTICSEARCH_URL", "http://localhost:9200"),
			Index:      getEnv("ELASTICSEARCH_INDEX", "trains"),
			Username:   os.Getenv("ELASTICSEARCH_USERNAME"),
			Password:   os.Getenv("ELASTICSEARCH_PASSWORD"),
			MaxRetries: getEnvInt("ELASTICSEARCH_MAX_RETRIES", 3),
		},

		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "change-me-in-production"),
			TokenTTL:  time.Duration(getEnvInt("JWT_TTL_HOURS", 24*30)) * time.Hour,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
