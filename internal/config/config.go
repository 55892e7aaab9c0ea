package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	// Server
	ServerPort string
	ServerEnv  string
	ServerHost string // Swagger host 설정용

	// Database
	DatabaseURL string

	// JWT
	JWTSecretKey              string
	JWTAccessTokenExpireMin   int
	JWTRefreshTokenExpireDays int

	// Suggestion agent
	AgentEndpoint       string
	AgentAPIKey         string
	AgentTimeoutSeconds int
	SuggestionTTLHours  int

	// Weather
	WeatherAPIURL string
	WeatherAPIKey string

	// News
	NewsAPIURL string
	NewsAPIKey string

	// Hotels
	HotelsAPIURL string
	HotelsAPIKey string

	// Redis (외부 API 응답 캐시용, 비어있으면 비활성화)
	RedisAddr     string
	RedisPassword string

	// Internal API (catalog import)
	InternalAPIKey string

	// SigNoz
	SigNozEndpoint string
}

func Load() *Config {
	return &Config{
		// Server
		ServerPort: getEnv("SERVER_PORT", "3000"),
		ServerEnv:  getEnv("SERVER_ENV", "development"),
		ServerHost: getEnv("SERVER_HOST", "localhost:3000"),

		// Database - DATABASE_URL 우선, 없으면 개별 환경변수로 구성
		DatabaseURL: getDatabaseURL(),

		// JWT
		JWTSecretKey:              getEnv("JWT_SECRET_KEY", ""),
		JWTAccessTokenExpireMin:   getEnvAsInt("JWT_ACCESS_TOKEN_EXPIRE_MINUTES", 15),
		JWTRefreshTokenExpireDays: getEnvAsInt("JWT_REFRESH_TOKEN_EXPIRE_DAYS", 7),

		// Suggestion agent (AGENT_API_KEY 우선, OPENAI_API_KEY fallback - k8s secret 호환)
		AgentEndpoint:       getEnv("AGENT_ENDPOINT", ""),
		AgentAPIKey:         getEnvWithFallback("AGENT_API_KEY", "OPENAI_API_KEY", ""),
		AgentTimeoutSeconds: getEnvAsInt("AGENT_TIMEOUT_SECONDS", 8),
		SuggestionTTLHours:  getEnvAsInt("SUGGESTION_TTL_HOURS", 24),

		// Weather
		WeatherAPIURL: getEnv("WEATHER_API_URL", "https://api.openweathermap.org/data/2.5"),
		WeatherAPIKey: getEnv("WEATHER_API_KEY", ""),

		// News
		NewsAPIURL: getEnv("NEWS_API_URL", "https://newsapi.org/v2"),
		NewsAPIKey: getEnv("NEWS_API_KEY", ""),

		// Hotels
		HotelsAPIURL: getEnv("HOTELS_API_URL", ""),
		HotelsAPIKey: getEnv("HOTELS_API_KEY", ""),

		// Redis
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		// Internal API
		InternalAPIKey: getEnv("INTERNAL_API_KEY", ""),

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

// getEnvWithFallback tries primary key first, then fallback key
func getEnvWithFallback(primary, fallback, defaultValue string) string {
	if value, exists := os.LookupEnv(primary); exists && value != "" {
		return value
	}
	if value, exists := os.LookupEnv(fallback); exists && value != "" {
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

// getDatabaseURL returns DATABASE_URL or builds it from individual env vars
func getDatabaseURL() string {
	// 1. DATABASE_URL이 있으면 그대로 사용
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	// 2. 개별 환경변수로 구성 (k8s secret 키 이름과 일치)
	host := getEnv("POSTGRES_HOST", "localhost")
	port := getEnv("POSTGRES_PORT", "5432")
	user := getEnv("POSTGRES_USER", "postgres")
	password := getEnv("POSTGRES_PASSWORD", "")
	dbname := getEnv("POSTGRES_DB", "wayfarer")
	sslmode := getEnv("POSTGRES_SSLMODE", "disable")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		user, password, host, port, dbname, sslmode)
}
