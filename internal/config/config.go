package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Token store backends.
const (
	TokenBackendFile  = "file"
	TokenBackendRedis = "redis"
)

// Config aggregates runtime configuration for the console client and the
// local stub backend.
type Config struct {
	Client     ClientConfig
	TokenStore TokenStoreConfig
	Redis      RedisConfig
	Logger     LoggerConfig
	Stub       StubConfig
}

// ClientConfig controls the outbound API gateway client.
type ClientConfig struct {
	ServerURL             string
	RequestTimeoutSeconds int
}

// TokenStoreConfig selects where the bearer token is persisted.
type TokenStoreConfig struct {
	Backend string
	Path    string
}

// RedisConfig holds Redis connection values for the redis token backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level    string
	Encoding string
}

// StubConfig configures the local development backend.
type StubConfig struct {
	Host            string
	Port            string
	JWTSecret       string
	TokenTTLMinutes int
	BcryptCost      int
	AdminName       string
	AdminEmail      string
	AdminPassword   string
}

// Load reads configuration from environment variables, applying defaults
// where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	backend := getEnv("CRM_TOKEN_BACKEND", TokenBackendFile)
	if backend != TokenBackendFile && backend != TokenBackendRedis {
		return nil, fmt.Errorf("invalid CRM_TOKEN_BACKEND %q", backend)
	}

	cfg := &Config{
		Client: ClientConfig{
			ServerURL:             getEnv("CRM_SERVER_URL", "https://customer-relationship-backend.vercel.app"),
			RequestTimeoutSeconds: getEnvAsInt("CRM_REQUEST_TIMEOUT_SECONDS", 30),
		},
		TokenStore: TokenStoreConfig{
			Backend: backend,
			Path:    os.Getenv("CRM_TOKEN_PATH"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
			Key:      getEnv("CRM_TOKEN_REDIS_KEY", "crm:token"),
		},
		Logger: LoggerConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: getEnv("LOG_ENCODING", "json"),
		},
		Stub: StubConfig{
			Host:            getEnv("STUB_HOST", "127.0.0.1"),
			Port:            getEnv("STUB_PORT", "8080"),
			JWTSecret:       getEnv("STUB_JWT_SECRET", "dev-secret"),
			TokenTTLMinutes: getEnvAsInt("STUB_TOKEN_TTL_MINUTES", 60),
			BcryptCost:      getEnvAsInt("STUB_BCRYPT_COST", 10),
			AdminName:       getEnv("STUB_ADMIN_NAME", "Administrator"),
			AdminEmail:      getEnv("STUB_ADMIN_EMAIL", "admin@example.com"),
			AdminPassword:   getEnv("STUB_ADMIN_PASSWORD", "admin123"),
		},
	}

	return cfg, nil
}

// Addr returns the stub backend bind address.
func (s StubConfig) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

// RequestTimeout returns the configured gateway timeout duration.
func (c ClientConfig) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
