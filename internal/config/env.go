package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr  string
	GinMode  string
	LogLevel string

	// StoreDriver is "memory" or "mysql"; LockDriver is "local", "mysql" or "redis".
	StoreDriver string
	LockDriver  string
	LockTimeout time.Duration
	DBDSN       string

	RedisAddr     string
	RedisPassword string

	JWTSecret         string
	AdminUsername     string
	AdminPasswordHash string

	CORSAllowedOrigins []string

	ReserveRatePerSec float64
	ReserveRateBurst  int

	SeedFile string
}

// LoadEnv reads the process environment. A .env file in the working directory,
// when present, fills variables that are not already set.
func LoadEnv() Env {
	_ = godotenv.Load()

	env := Env{
		AppAddr:            getenv("APP_ADDR", ":8080"),
		GinMode:            getenv("GIN_MODE", ""),
		LogLevel:           getenv("LOG_LEVEL", "info"),
		StoreDriver:        strings.ToLower(getenv("STORE_DRIVER", "memory")),
		LockDriver:         strings.ToLower(getenv("LOCK_DRIVER", "local")),
		LockTimeout:        time.Duration(getenvInt("LOCK_TIMEOUT_SECONDS", 5)) * time.Second,
		DBDSN:              getenv("DB_DSN", ""),
		RedisAddr:          getenv("REDIS_ADDR", ""),
		RedisPassword:      getenv("REDIS_PASSWORD", ""),
		JWTSecret:          getenv("JWT_SECRET", ""),
		AdminUsername:      getenv("ADMIN_USERNAME", "admin"),
		AdminPasswordHash:  getenv("ADMIN_PASSWORD_HASH", ""),
		CORSAllowedOrigins: splitList(getenv("CORS_ALLOWED_ORIGINS", "")),
		ReserveRatePerSec:  getenvFloat("RESERVE_RATE_PER_SEC", 5),
		ReserveRateBurst:   getenvInt("RESERVE_RATE_BURST", 10),
		SeedFile:           getenv("SEED_FILE", ""),
	}
	return env
}

func getenv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func getenvInt(key string, fallback int) int {
	n, err := strconv.Atoi(getenv(key, ""))
	if err != nil {
		return fallback
	}
	return n
}

func getenvFloat(key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(getenv(key, ""), 64)
	if err != nil {
		return fallback
	}
	return f
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
