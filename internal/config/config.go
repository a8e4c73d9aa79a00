package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/sngm3741/makoto-diary/api/internal/platform/logging"
)

// ErrJWTSecretMissing は AUTH_JWT_SECRET が未設定のときに返す。
var ErrJWTSecretMissing = errors.New("AUTH_JWT_SECRET must be configured")

// JWTConfig はアクセストークン検証に使う issuer/secret/audience。
type JWTConfig struct {
	Issuer   string
	Secret   []byte
	Audience string
}

// OpenAIConfig は生成 API の接続設定。APIKey が空なら生成は無効。
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                 string
	MongoURI             string
	MongoDatabase        string
	SettingsCollection   string
	DiaryCollection      string
	SalesCollection      string
	AttendanceCollection string
	Timeout              time.Duration
	Timezone             string
	AllowedOrigins       []string
	JWT                  JWTConfig
	OpenAI               OpenAIConfig
	PromptDetailLevel    string
	ThemeStrategy        string
	CacheSize            int
	LogLevel             string
	Logger               *zap.Logger
}

// Load は .env（存在すれば）と環境変数から Config を組み立てる。
// 既に設定済みの環境変数は .env で上書きしない。
func Load() (Config, error) {
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}

	secret := strings.TrimSpace(os.Getenv("AUTH_JWT_SECRET"))
	if secret == "" {
		return Config{}, ErrJWTSecretMissing
	}

	logLevel := envOrDefault("LOG_LEVEL", "info")
	logger, err := logging.New(logLevel)
	if err != nil {
		return Config{}, fmt.Errorf("build logger: %w", err)
	}

	cfg := Config{
		Addr:                 envOrDefault("HTTP_ADDR", ":8080"),
		MongoURI:             envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:        envOrDefault("MONGO_DB", "makoto-diary"),
		SettingsCollection:   envOrDefault("SETTINGS_COLLECTION", "user_settings"),
		DiaryCollection:      envOrDefault("DIARY_COLLECTION", "diaries"),
		SalesCollection:      envOrDefault("SALES_COLLECTION", "sales"),
		AttendanceCollection: envOrDefault("ATTENDANCE_COLLECTION", "attendance"),
		Timeout:              parseDuration("MONGO_CONNECT_TIMEOUT", 10*time.Second),
		Timezone:             envOrDefault("TIMEZONE", "Asia/Tokyo"),
		AllowedOrigins:       parseList("API_ALLOWED_ORIGINS", []string{"*"}),
		JWT: JWTConfig{
			Issuer:   strings.TrimSpace(os.Getenv("AUTH_JWT_ISSUER")),
			Secret:   []byte(secret),
			Audience: strings.TrimSpace(os.Getenv("AUTH_JWT_AUDIENCE")),
		},
		OpenAI: OpenAIConfig{
			APIKey:      strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
			BaseURL:     strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")),
			Model:       envOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
			Temperature: float32(parseFloat("OPENAI_TEMPERATURE", 0.8)),
			MaxTokens:   parseInt("OPENAI_MAX_TOKENS", 800),
		},
		PromptDetailLevel: envOrDefault("PROMPT_DETAIL_LEVEL", "detailed"),
		ThemeStrategy:     envOrDefault("THEME_STRATEGY", "delegate"),
		CacheSize:         parseInt("CACHE_SIZE", 512),
		LogLevel:          logLevel,
		Logger:            logger,
	}

	logger.Info("loaded config",
		zap.String("addr", cfg.Addr),
		zap.String("mongoDatabase", cfg.MongoDatabase),
		zap.String("promptDetailLevel", cfg.PromptDetailLevel),
		zap.String("themeStrategy", cfg.ThemeStrategy),
		zap.Bool("generationEnabled", cfg.OpenAI.APIKey != ""),
	)
	return cfg, nil
}

// loadDotEnv は ENV_FILE（既定 .env）を読む。ファイルが無いのはエラーにしない。
func loadDotEnv() error {
	path := envOrDefault("ENV_FILE", ".env")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	if raw := strings.TrimSpace(os.Getenv(key)); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			return parsed
		}
	}
	return fallback
}

func parseInt(key string, fallback int) int {
	if raw := strings.TrimSpace(os.Getenv(key)); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func parseFloat(key string, fallback float64) float64 {
	if raw := strings.TrimSpace(os.Getenv(key)); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 32); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return fallback
}
