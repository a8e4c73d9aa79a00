package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HTTP_ADDR", "MONGO_URI", "MONGO_DB", "MONGO_CONNECT_TIMEOUT",
		"SETTINGS_COLLECTION", "DIARY_COLLECTION", "SALES_COLLECTION", "ATTENDANCE_COLLECTION",
		"TIMEZONE", "API_ALLOWED_ORIGINS",
		"AUTH_JWT_SECRET", "AUTH_JWT_ISSUER", "AUTH_JWT_AUDIENCE",
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_MODEL", "OPENAI_TEMPERATURE", "OPENAI_MAX_TOKENS",
		"PROMPT_DETAIL_LEVEL", "THEME_STRATEGY", "CACHE_SIZE", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	isolateEnv(t)
	_, err := Load()
	assert.ErrorIs(t, err, ErrJWTSecretMissing)
}

func TestLoadDefaults(t *testing.T) {
	isolateEnv(t)
	t.Setenv("AUTH_JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "makoto-diary", cfg.MongoDatabase)
	assert.Equal(t, "user_settings", cfg.SettingsCollection)
	assert.Equal(t, "diaries", cfg.DiaryCollection)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, []byte("secret"), cfg.JWT.Secret)
	assert.Empty(t, cfg.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.InDelta(t, 0.8, cfg.OpenAI.Temperature, 0.0001)
	assert.Equal(t, 800, cfg.OpenAI.MaxTokens)
	assert.Equal(t, "detailed", cfg.PromptDetailLevel)
	assert.Equal(t, "delegate", cfg.ThemeStrategy)
	assert.Equal(t, 512, cfg.CacheSize)
	assert.NotNil(t, cfg.Logger)
}

func TestLoadOverrides(t *testing.T) {
	isolateEnv(t)
	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("AUTH_JWT_ISSUER", "makoto-auth")
	t.Setenv("API_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("MONGO_CONNECT_TIMEOUT", "3s")
	t.Setenv("CACHE_SIZE", "not-a-number")
	t.Setenv("THEME_STRATEGY", "random")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "makoto-auth", cfg.JWT.Issuer)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, 512, cfg.CacheSize)
	assert.Equal(t, "random", cfg.ThemeStrategy)
}

func TestLoadReadsEnvFileWithoutOverriding(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("AUTH_JWT_SECRET=from-file\nOPENAI_MODEL=gpt-4o\n"), 0o600))
	t.Setenv("ENV_FILE", path)
	os.Unsetenv("AUTH_JWT_SECRET")
	os.Unsetenv("OPENAI_MODEL")
	t.Setenv("MONGO_DB", "from-env")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []byte("from-file"), cfg.JWT.Secret)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, "from-env", cfg.MongoDatabase)
}
