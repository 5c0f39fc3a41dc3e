package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server
	ServerPort string
	ServerEnv  string
	ServerHost string

	// Database
	DatabaseURL string

	// JWT
	JWTSecretKey              string
	JWTAccessTokenExpireMin   int
	JWTRefreshTokenExpireDays int

	// Places provider
	PlacesAPIKey  string
	PlacesBaseURL string
	PlacesTimeout time.Duration

	// Search result cache
	SearchCacheTTL time.Duration

	// Credits & favorites
	InitialCredits       int64
	RewardCredits        int64
	DefaultFavoriteSlots int
	RewardFavoriteSlots  int
	RemovalRetention     time.Duration

	// SigNoz
	SigNozEndpoint string
}

func Load() *Config {
	return &Config{
		// Server
		ServerPort: getEnv("SERVER_PORT", "3000"),
		ServerEnv:  getEnv("SERVER_ENV", "development"),
		ServerHost: getEnv("SERVER_HOST", "localhost:3000"),

		// Database - DATABASE_URL wins, individual env vars as fallback
		DatabaseURL: getDatabaseURL(),

		// JWT
		JWTSecretKey:              getEnv("JWT_SECRET_KEY", ""),
		JWTAccessTokenExpireMin:   getEnvAsInt("JWT_ACCESS_TOKEN_EXPIRE_MINUTES", 15),
		JWTRefreshTokenExpireDays: getEnvAsInt("JWT_REFRESH_TOKEN_EXPIRE_DAYS", 7),

		// Places provider
		PlacesAPIKey:  getEnv("PLACES_API_KEY", ""),
		PlacesBaseURL: getEnv("PLACES_BASE_URL", "https://maps.googleapis.com/maps/api/place"),
		PlacesTimeout: getEnvAsDuration("PLACES_TIMEOUT", 15*time.Second),

		// Search result cache
		SearchCacheTTL: getEnvAsDuration("SEARCH_CACHE_TTL", 24*time.Hour),

		// Credits & favorites
		InitialCredits:       int64(getEnvAsInt("INITIAL_CREDITS", 3)),
		RewardCredits:        int64(getEnvAsInt("REWARD_CREDITS", 1)),
		DefaultFavoriteSlots: getEnvAsInt("DEFAULT_FAVORITE_SLOTS", 2),
		RewardFavoriteSlots:  getEnvAsInt("REWARD_FAVORITE_SLOTS", 1),
		RemovalRetention:     getEnvAsDuration("REMOVAL_RETENTION", 6*30*24*time.Hour),

		// SigNoz
		SigNozEndpoint: getEnv("SIGNOZ_ENDPOINT", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration parses values like "24h" or "15s"
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getDatabaseURL returns DATABASE_URL or builds it from individual env vars
func getDatabaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := getEnv("POSTGRES_HOST", "localhost")
	port := getEnv("POSTGRES_PORT", "5432")
	user := getEnv("POSTGRES_USER", "postgres")
	password := getEnv("POSTGRES_PASSWORD", "")
	dbname := getEnv("POSTGRES_DB", "brewfinder")
	sslmode := getEnv("POSTGRES_SSLMODE", "disable")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		user, password, host, port, dbname, sslmode)
}
