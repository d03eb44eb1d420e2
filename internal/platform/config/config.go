package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SessionStoreRedis    = "redis"
	SessionStorePostgres = "postgres"
	SessionStoreMemory   = "memory"
)

type Config struct {
	AppPort        string
	BackendURL     string
	BackendTimeout time.Duration

	SessionSecret     []byte
	SessionCookieName string
	SessionTTL        time.Duration
	SessionStore      string
	CookieSecure      bool
	SessionPurgeEvery time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MemoryRestrictionMin int
	MemoryRestrictionMax int
	UploadMaxBytes       int64
	AlertDismissMs       int
	InFlightLockTTL      time.Duration
}

// DefaultSessionSecret signs sessions when SESSION_SECRET is unset. Any
// deployment using it accepts tokens forged with the public value.
const DefaultSessionSecret = "defaultsecret"

var AppConfig *Config

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	AppConfig = FromEnv()
}

// FromEnv builds a Config from the process environment without touching
// the global.
func FromEnv() *Config {
	cfg := &Config{
		AppPort:        getEnv("APP_PORT", "3000"),
		BackendURL:     strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:8000"), "/"),
		BackendTimeout: time.Duration(getEnvAsInt("BACKEND_TIMEOUT_SECONDS", 30)) * time.Second,

		SessionSecret:     sessionSecret(),
		SessionCookieName: getEnv("SESSION_COOKIE_NAME", "judge_session"),
		SessionTTL:        time.Duration(getEnvAsInt("SESSION_TTL_HOURS", 72)) * time.Hour,
		SessionStore:      strings.ToLower(getEnv("SESSION_STORE", SessionStoreRedis)),
		CookieSecure:      getEnv("COOKIE_SECURE", "false") == "true",
		SessionPurgeEvery: time.Duration(getEnvAsInt("SESSION_PURGE_INTERVAL_MINUTES", 15)) * time.Minute,

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "user"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "judge_web"),
		DBSslMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		MemoryRestrictionMin: getEnvAsInt("MEMORY_RESTRICTION_MIN", 6),
		MemoryRestrictionMax: getEnvAsInt("MEMORY_RESTRICTION_MAX", 512),
		UploadMaxBytes:       int64(getEnvAsInt("UPLOAD_MAX_MB", 32)) << 20,
		AlertDismissMs:       getEnvAsInt("ALERT_DISMISS_MS", 2000),
		InFlightLockTTL:      time.Duration(getEnvAsInt("INFLIGHT_LOCK_TTL_SECONDS", 120)) * time.Second,
	}

	cfg.DBConnStr = "host=" + cfg.DBHost +
		" port=" + cfg.DBPort +
		" user=" + cfg.DBUser +
		" password=" + cfg.DBPassword +
		" dbname=" + cfg.DBName +
		" sslmode=" + cfg.DBSslMode
	return cfg
}

func sessionSecret() []byte {
	secret := getEnv("SESSION_SECRET", "")
	if secret == "" {
		log.Println("WARN: SESSION_SECRET is not set, signing sessions with the built-in default")
		secret = DefaultSessionSecret
	}
	return []byte(secret)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
