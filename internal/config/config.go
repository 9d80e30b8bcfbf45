// Package config centralizes environment-driven configuration, modeled on
// original_source/src/infrastructure/config.rs's Config{Database,Server,
// Jwt,Cors} shape, adapted to the teacher's getEnv(key, default) idiom.
package config

import (
	"os"
	"strconv"
	"strings"

	"costengine/internal/database"
)

// Config is the process-wide configuration assembled once at startup.
type Config struct {
	Database database.Config
	Server   ServerConfig
	Jwt      JwtConfig
	Cors     CorsConfig
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Port    string
	GinMode string
}

// JwtConfig mirrors original_source's JwtConfig (access_token_ttl_minutes
// becomes a time.Duration once parsed by internal/middleware).
type JwtConfig struct {
	Secret              string
	Issuer              string
	AccessTokenTTLMins  int
	RefreshTokenTTLDays int
}

// CorsConfig lists the origins allowed to call the API.
type CorsConfig struct {
	AllowedOrigins []string
}

// Load reads Config from the environment, applying the same defaults the
// teacher's main.go inlined before this package existed.
func Load() Config {
	return Config{
		Database: database.Config{
			Host:     getEnv("DB_HOST", "postgres"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres123"),
			DBName:   getEnv("DB_NAME", "costengine"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "release"),
		},
		Jwt: JwtConfig{
			Secret:              getEnv("JWT_SECRET", "development-secret-change-me-in-production"),
			Issuer:              getEnv("JWT_ISSUER", "pos-system"),
			AccessTokenTTLMins:  getEnvInt("ACCESS_TOKEN_TTL_MINUTES", 15),
			RefreshTokenTTLDays: getEnvInt("REFRESH_TOKEN_TTL_DAYS", 30),
		},
		Cors: CorsConfig{
			AllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:4000,http://localhost:3001,http://localhost:5173")),
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
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}
