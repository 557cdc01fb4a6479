package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageFirestore = "firestore"
	StorageMemory    = "memory"
)

type Config struct {
	ServerPort  string
	Environment string

	StorageDriver           string
	FirebaseProject         string
	FirebaseCredentialsJSON string
	FirebaseCredentialsPath string
	StorageBucket           string

	JWTSecret    string
	JWTExpiry    int64
	BcryptCost   int
	CookieSecure bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	RabbitMQURL string

	AuthRateLimit    float64
	MessageRateLimit int
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		StorageDriver:           strings.ToLower(getEnv("STORAGE_DRIVER", StorageFirestore)),
		FirebaseProject:         getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentialsJSON: getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
		FirebaseCredentialsPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
		StorageBucket:           getEnv("STORAGE_BUCKET", ""),

		JWTSecret:    getEnv("JWT_SECRET", "your-secret-key"),
		JWTExpiry:    getEnvAsInt64("JWT_EXPIRY", 24*60*60), // 24 hours
		BcryptCost:   int(getEnvAsInt64("BCRYPT_COST", 10)),
		CookieSecure: getEnvAsBool("COOKIE_SECURE", false),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       int(getEnvAsInt64("REDIS_DB", 0)),
		CacheTTL:      getEnvAsDuration("CACHE_TTL", 30*time.Second),

		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		AuthRateLimit:    float64(getEnvAsInt64("AUTH_RATE_LIMIT", 10)),
		MessageRateLimit: int(getEnvAsInt64("MESSAGE_RATE_LIMIT", 30)),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case StorageFirestore:
		if c.FirebaseProject == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required for the %s storage driver", StorageFirestore)
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.Environment == "production" && c.JWTSecret == "your-secret-key" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if c.JWTExpiry <= 0 {
		return fmt.Errorf("JWT_EXPIRY must be positive")
	}
	return nil
}

// TokenTTL is the lifetime of issued access tokens.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpiry) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		boolValue, err := strconv.ParseBool(value)
		if err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return defaultValue
}
