package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Supported values for MENU_STORE_BACKEND.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds the configuration for the application.
type Config struct {
	StoreBackend   string
	StoreTimeout   time.Duration
	DataDir        string
	DatabasePath   string
	RedisAddr      string
	RedisKeyPrefix string
	SeedFile       string
	LogMode        string

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	Port                   string
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	backend := strings.ToLower(strings.TrimSpace(os.Getenv("MENU_STORE_BACKEND")))
	if backend == "" {
		backend = BackendFile
	}
	switch backend {
	case BackendFile, BackendSQLite, BackendRedis, BackendMemory:
	default:
		return nil, fmt.Errorf("MENU_STORE_BACKEND environment variable has invalid value %q", backend)
	}

	dataDir := getenvDefault("MENU_DATA_DIR", "data")
	dbPath := getenvDefault("MENU_DB_PATH", filepath.Join(dataDir, "menu.db"))

	redisAddr := os.Getenv("REDIS_ADDR")
	if backend == BackendRedis && redisAddr == "" {
		return nil, fmt.Errorf("REDIS_ADDR environment variable not set")
	}

	timeout := 5 * time.Second
	if raw := os.Getenv("MENU_STORE_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("MENU_STORE_TIMEOUT environment variable has invalid value %q", raw)
		}
		timeout = d
	}

	allowed, err := parseUserIDs(os.Getenv("TELEGRAM_ALLOWED_USER_IDS"))
	if err != nil {
		return nil, err
	}

	return &Config{
		StoreBackend:           backend,
		StoreTimeout:           timeout,
		DataDir:                dataDir,
		DatabasePath:           dbPath,
		RedisAddr:              redisAddr,
		RedisKeyPrefix:         getenvDefault("REDIS_KEY_PREFIX", "menu:"),
		SeedFile:               os.Getenv("MENU_SEED_FILE"),
		LogMode:                getenvDefault("LOG_MODE", "development"),
		TelegramBotToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:     os.Getenv("TELEGRAM_WEBHOOK_URL"),
		TelegramAllowedUserIDs: allowed,
		Port:                   getenvDefault("PORT", "8080"),
	}, nil
}

// ValidateTelegram checks the settings only the bot binary needs.
func (c *Config) ValidateTelegram() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	if len(c.TelegramAllowedUserIDs) == 0 {
		return fmt.Errorf("TELEGRAM_ALLOWED_USER_IDS environment variable not set")
	}
	return nil
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseUserIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_ALLOWED_USER_IDS environment variable has invalid value %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
