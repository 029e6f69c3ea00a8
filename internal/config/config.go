package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Auth        AuthConfig
	CORS        CORSConfig
	RateLimit   RateLimitConfig
	Logging     LoggingConfig
	Environment string
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	URL            string
	MigrationsPath string
}

type AuthConfig struct {
	APIKey  string
	Require bool
}

type CORSConfig struct {
	AllowAllOrigins bool
	AllowedOrigins  []string
}

type RateLimitConfig struct {
	IngestPerMinute int
	PublicPerMinute int
}

type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables once at startup.
// Required values are validated here so the process fails fast instead of
// degrading at request time.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			MigrationsPath: getEnv("MIGRATIONS_PATH", ""),
		},
		Auth: AuthConfig{
			APIKey:  getEnv("API_KEY", ""),
			Require: getEnvBool("REQUIRE_API_KEY", true),
		},
		CORS: parseCORS(getEnv("ALLOWED_ORIGINS", "*")),
		RateLimit: RateLimitConfig{
			IngestPerMinute: getEnvInt("RATE_LIMIT_INGEST", 300),
			PublicPerMinute: getEnvInt("RATE_LIMIT_PUBLIC", 60),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Environment: getEnv("ENVIRONMENT", "production"),
	}

	if cfg.Database.URL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.Auth.Require && cfg.Auth.APIKey == "" {
		return Config{}, fmt.Errorf("API_KEY is required while REQUIRE_API_KEY is enabled")
	}
	return cfg, nil
}

func parseCORS(raw string) CORSConfig {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "*" {
		return CORSConfig{AllowAllOrigins: true}
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	return CORSConfig{AllowedOrigins: origins}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	switch strings.ToLower(value) {
	case "0", "false", "no", "off":
		return false
	default:
		return true
	}
}
