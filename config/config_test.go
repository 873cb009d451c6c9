package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("CI", "false")
	t.Setenv("ENV", "development")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "bite")
	t.Setenv("DB_PASSWORD", "hunter2")
	t.Setenv("DB_NAME", "bitefeed")
	t.Setenv("DB_SSL_MODE", "require")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("SERPAPI_KEY", "serp-test")

	cfg, err := LoadConfig()
	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	// Database configuration
	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "5433", cfg.DBPort)
	assert.Equal(t, "bite", cfg.DBUser)
	assert.Equal(t, "hunter2", cfg.DBPassword)
	assert.Equal(t, "bitefeed", cfg.DBName)
	assert.Equal(t, "require", cfg.DBSSLMode)

	// JWT configuration
	assert.Equal(t, "test-secret", cfg.JWTSecret)

	// Redis configuration
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)

	// External APIs
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, "serp-test", cfg.SerpAPIKey)
	assert.Equal(t, "https://api.openai.com/v1", cfg.OpenAIBaseURL)
	assert.Equal(t, "gpt-4", cfg.OpenAIModel)
	assert.Equal(t, "https://serpapi.com/search", cfg.SerpAPIBaseURL)

	assert.Equal(t, "host=db.internal port=5433 user=bite password=hunter2 dbname=bitefeed sslmode=require", cfg.DSN())
}

func TestLoadConfigWithDefaults(t *testing.T) {
	t.Setenv("CI", "false")
	t.Setenv("ENV", "development")
	for _, key := range []string{
		"SERVER_PORT", "SERVER_HOST",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL_MODE",
		"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_URL",
		"JWT_SECRET", "OPENAI_API_KEY", "SERPAPI_KEY",
	} {
		os.Unsetenv(key)
	}

	cfg, err := LoadConfig()
	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "swipebite", cfg.DBUser)
	assert.Equal(t, "swipebite", cfg.DBName)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, "dev-only-jwt-secret", cfg.JWTSecret)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
	assert.Equal(t, 4, cfg.ImageWorkerCount)
	assert.Equal(t, 256, cfg.ImageQueueSize)
}

func TestLoadConfigProductionSecrets(t *testing.T) {
	secretsDir := t.TempDir()
	secrets := map[string]string{
		"server_port":    "9090",
		"server_host":    "0.0.0.0",
		"db_host":        "db",
		"db_port":        "5432",
		"db_user":        "swipebite",
		"db_password":    "prod-password\n",
		"db_name":        "swipebite",
		"db_ssl_mode":    "require",
		"redis_host":     "redis",
		"redis_port":     "6379",
		"redis_password": "redis-pass",
		"redis_url":      "redis://redis:6379",
		"jwt_secret":     "prod-jwt-secret",
		"openai_api_key": "sk-prod",
		"serpapi_key":    "serp-prod",
	}
	for name, value := range secrets {
		require.NoError(t, os.WriteFile(filepath.Join(secretsDir, name), []byte(value), 0o600))
	}

	t.Setenv("CI", "false")
	t.Setenv("ENV", "production")
	t.Setenv("SECRETS_DIR", secretsDir)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "prod-password", cfg.DBPassword, "secret values should be trimmed")
	assert.Equal(t, "prod-jwt-secret", cfg.JWTSecret)
	assert.Equal(t, "sk-prod", cfg.OpenAIAPIKey)
	assert.Equal(t, "serp-prod", cfg.SerpAPIKey)
}

func TestLoadConfigProductionMissingSecrets(t *testing.T) {
	t.Setenv("CI", "false")
	t.Setenv("ENV", "production")
	t.Setenv("SECRETS_DIR", t.TempDir())

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateConfigRejectsBadWorkerSettings(t *testing.T) {
	t.Setenv("CI", "false")
	t.Setenv("ENV", "development")

	cfg := &Config{
		ServerPort: "8080", ServerHost: "0.0.0.0",
		DBHost: "localhost", DBPort: "5432", DBUser: "u", DBName: "d", DBSSLMode: "disable",
		RedisHost: "localhost", RedisPort: "6379",
		JWTSecret:        "s",
		ImageWorkerCount: 0,
		ImageQueueSize:   256,
	}
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "image worker count")
}
