package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all service configuration loaded from defaults, an optional
// YAML file and environment variables.
type Config struct {
	Port        string   `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
	MaxUploadMB int64    `mapstructure:"max_upload_mb"`

	SectionsFile string `mapstructure:"sections_file"`

	Storage Storage `mapstructure:"storage"`
	LLM     LLM     `mapstructure:"llm"`
	Log     Log     `mapstructure:"log"`
}

// Storage selects and configures the blob backend.
type Storage struct {
	Backend string `mapstructure:"backend"` // fs, sqlite, postgres, mongo, redis, minio
	DataDir string `mapstructure:"data_dir"`

	SQLitePath  string `mapstructure:"sqlite_path"`
	PostgresDSN string `mapstructure:"postgres_dsn"`

	MongoURI string `mapstructure:"mongo_uri"`
	MongoDB  string `mapstructure:"mongo_db"`

	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`

	MinioEndpoint  string `mapstructure:"minio_endpoint"`
	MinioAccessKey string `mapstructure:"minio_access_key"`
	MinioSecretKey string `mapstructure:"minio_secret_key"`
	MinioBucket    string `mapstructure:"minio_bucket"`
	MinioUseSSL    bool   `mapstructure:"minio_use_ssl"`
}

// LLM holds generation defaults. Credentials are supplied per request.
type LLM struct {
	Models          []string `mapstructure:"models"`
	DefaultLanguage string   `mapstructure:"default_language"`
	// BaseURL overrides the Gemini endpoint, e.g. for a proxy.
	BaseURL         string   `mapstructure:"base_url"`
}

// DefaultModel is the first configured model.
func (l LLM) DefaultModel() string {
	if len(l.Models) == 0 {
		return ""
	}
	return l.Models[0]
}

// Log configures the zap logger.
type Log struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// envNames binds config keys to the plain environment names the deployment
// files use.
var envNames = map[string]string{
	"port":                     "PORT",
	"cors_origins":             "CORS_ORIGINS",
	"max_upload_mb":            "MAX_UPLOAD_MB",
	"sections_file":            "SECTIONS_FILE",
	"storage.backend":          "STORAGE_BACKEND",
	"storage.data_dir":         "DATA_DIR",
	"storage.sqlite_path":      "SQLITE_PATH",
	"storage.postgres_dsn":     "POSTGRES_DSN",
	"storage.mongo_uri":        "MONGO_URI",
	"storage.mongo_db":         "MONGO_DB",
	"storage.redis_addr":       "REDIS_ADDR",
	"storage.redis_password":   "REDIS_PASSWORD",
	"storage.minio_endpoint":   "MINIO_ENDPOINT",
	"storage.minio_access_key": "MINIO_ACCESS_KEY",
	"storage.minio_secret_key": "MINIO_SECRET_KEY",
	"storage.minio_bucket":     "MINIO_BUCKET",
	"storage.minio_use_ssl":    "MINIO_USE_SSL",
	"llm.models":               "LLM_MODELS",
	"llm.default_language":     "DEFAULT_LANGUAGE",
	"llm.base_url":             "LLM_BASE_URL",
	"log.level":                "LOG_LEVEL",
	"log.development":          "LOG_DEVELOPMENT",
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("cors_origins", []string{"http://localhost:5173", "http://localhost:3000"})
	v.SetDefault("max_upload_mb", 64)
	v.SetDefault("sections_file", "")

	v.SetDefault("storage.backend", "fs")
	v.SetDefault("storage.data_dir", "data")
	v.SetDefault("storage.sqlite_path", "data/paper-studio.db")
	v.SetDefault("storage.postgres_dsn", "")
	v.SetDefault("storage.mongo_uri", "")
	v.SetDefault("storage.mongo_db", "paper_studio")
	v.SetDefault("storage.redis_addr", "redis:6379")
	v.SetDefault("storage.redis_password", "")
	v.SetDefault("storage.minio_endpoint", "minio:9000")
	v.SetDefault("storage.minio_access_key", "")
	v.SetDefault("storage.minio_secret_key", "")
	v.SetDefault("storage.minio_bucket", "paper-studio")
	v.SetDefault("storage.minio_use_ssl", false)

	v.SetDefault("llm.models", []string{
		"gemini-2.5-pro",
		"gemini-2.5-flash-preview-09-2025",
		"gemini-2.5-flash",
	})
	v.SetDefault("llm.default_language", "English")
	v.SetDefault("llm.base_url", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// Load builds a Config from v. When file is non-empty it is read as YAML
// first; environment variables override both file and defaults.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)
	for key, env := range envNames {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.CORSOrigins = splitList(cfg.CORSOrigins)
	cfg.LLM.Models = splitList(cfg.LLM.Models)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that would otherwise fail late at first use.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "fs", "sqlite", "postgres", "mongo", "redis", "minio":
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if len(c.LLM.Models) == 0 {
		return fmt.Errorf("llm.models must list at least one model")
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive, got %d", c.MaxUploadMB)
	}
	return nil
}

// splitList flattens comma-separated entries, which is how list values
// arrive from a single environment variable.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
