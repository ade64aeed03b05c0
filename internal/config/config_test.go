package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "fs", cfg.Storage.Backend)
	assert.Equal(t, "data", cfg.Storage.DataDir)
	assert.Equal(t, "gemini-2.5-pro", cfg.LLM.DefaultModel())
	assert.Equal(t, "English", cfg.LLM.DefaultLanguage)
	assert.Equal(t, int64(64), cfg.MaxUploadMB)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_BACKEND", "sqlite")
	t.Setenv("LLM_MODELS", "gemini-2.5-flash, gemini-2.5-pro")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("LLM_BASE_URL", "http://proxy.test")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, []string{"gemini-2.5-flash", "gemini-2.5-pro"}, cfg.LLM.Models)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, "http://proxy.test", cfg.LLM.BaseURL)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paper-studio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "7000"
storage:
  backend: postgres
  postgres_dsn: postgres://localhost/papers
llm:
  default_language: Deutsch
`), 0o644))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, "postgres", cfg.Storage.Backend)
	assert.Equal(t, "postgres://localhost/papers", cfg.Storage.PostgresDSN)
	assert.Equal(t, "Deutsch", cfg.LLM.DefaultLanguage)
}

func TestLoad_UnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "s3")
	_, err := Load(viper.New(), "")
	assert.ErrorContains(t, err, "unknown storage backend")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
