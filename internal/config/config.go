package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr          string
	DatabaseURL       string
	AccessTokenSecret string
	AccessTokenTTL    time.Duration
	JWTIssuer         string
	RedisAddr         string
	RedisPassword     string
	CORSOrigins       []string
	Environment       string
	UsersCountTTL     time.Duration
}

func Load() Config {
	return Config{
		HTTPAddr:          httpAddr(),
		DatabaseURL:       databaseURL(),
		AccessTokenSecret: getenv("ACCESS_TOKEN_SECRET", ""),
		AccessTokenTTL:    getenvDuration("ACCESS_TOKEN_TTL", time.Hour),
		JWTIssuer:         getenv("JWT_ISSUER", "collab-study-server"),
		RedisAddr:         getenv("REDIS_ADDR", ""),
		RedisPassword:     getenv("REDIS_PASSWORD", ""),
		CORSOrigins:       splitList(getenv("CORS_ORIGINS", "http://localhost:5173,http://localhost:5174")),
		Environment:       getenv("ENV", "development"),
		UsersCountTTL:     getenvDuration("USERS_COUNT_TTL", time.Minute),
	}
}

func httpAddr() string {
	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		return addr
	}
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return ":9000"
}

// databaseURL prefers a full DSN and falls back to composing one from
// the individual DB_* variables.
func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	user := getenv("DB_USER", "postgres")
	pass := getenv("DB_PASS", "postgres")
	host := getenv("DB_HOST", "127.0.0.1:5432")
	name := getenv("DB_NAME", "studyhouse")
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable", user, pass, host, name)
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
