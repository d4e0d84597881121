package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	ServerPort     string
	ServerHost     string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestBody int64
	SecretKey      string

	// Database
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Kafka
	KafkaBrokers  []string
	KafkaGroupID  string
	HubEventTopic string

	// Facebook page adaptor
	FBAppID     string
	FBAppSecret string
	FBPageID    string
	FBGraphURL  string

	// Email webhook adaptor
	EmailAPIID     string
	EmailAPIKey    string
	EmailSignature string
	EmailAddress   string

	// Harvesting
	HarvestInterval time.Duration
	AdaptorTimeout  time.Duration

	// Content pool
	PoolCacheTTL time.Duration

	// Topic catalog
	TopicCatalogPath string

	// Feature flags
	Debug   bool
	Testing bool
}

func Load() *Config {
	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		ServerHost:     getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:    getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:   getDuration("WRITE_TIMEOUT", 30*time.Second),
		MaxRequestBody: int64(getIntEnv("MAX_REQUEST_BODY_BYTES", 4*1024*1024)),
		SecretKey:      getEnv("SECRET_KEY", ""),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "aircast"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "aircast123"),
		PostgresDB:       getEnv("POSTGRES_DB", "aircast"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		KafkaBrokers:  getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaGroupID:  getEnv("KAFKA_GROUP_ID", "aircast-hub"),
		HubEventTopic: getEnv("HUB_EVENT_TOPIC", "hub-events"),

		FBAppID:     getEnv("FB_APP_ID", ""),
		FBAppSecret: getEnv("FB_APP_SECRET", ""),
		FBPageID:    getEnv("FB_PAGE_ID", ""),
		FBGraphURL:  getEnv("FB_GRAPH_URL", "https://graph.facebook.com"),

		EmailAPIID:     getEnv("EMAIL_API_ID", ""),
		EmailAPIKey:    getEnv("EMAIL_API_KEY", ""),
		EmailSignature: getEnv("EMAIL_API_SIGNATURE", ""),
		EmailAddress:   getEnv("EMAIL_ADDRESS", "request@aircast.example"),

		HarvestInterval: getDuration("HARVEST_INTERVAL", 6*time.Hour),
		AdaptorTimeout:  getDuration("ADAPTOR_TIMEOUT", 10*time.Second),

		PoolCacheTTL: getDuration("POOL_CACHE_TTL", 30*time.Second),

		TopicCatalogPath: getEnv("TOPIC_CATALOG_PATH", ""),

		Debug:   getBoolEnv("DEBUG", false),
		Testing: getBoolEnv("TESTING", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
