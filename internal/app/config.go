package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/recipe-backend/internal/platform/envutil"
	"github.com/yungbote/recipe-backend/internal/platform/gcp"
	"github.com/yungbote/recipe-backend/internal/pkg/logger"
)

const (
	StorageModeLocal = "local"

	defaultJWTSecret = "defaultsecret"
)

type Config struct {
	Port    string `yaml:"port"`
	LogMode string `yaml:"log_mode"`

	DBDriver         string `yaml:"db_driver"`
	PostgresHost     string `yaml:"postgres_host"`
	PostgresPort     string `yaml:"postgres_port"`
	PostgresUser     string `yaml:"postgres_user"`
	PostgresPassword string `yaml:"postgres_password"`
	PostgresName     string `yaml:"postgres_name"`
	PostgresSSLMode  string `yaml:"postgres_sslmode"`
	SQLitePath       string `yaml:"sqlite_path"`

	JWTSecretKey   string        `yaml:"jwt_secret_key"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl"`

	ObjectStorageMode          string `yaml:"object_storage_mode"`
	MediaRoot                  string `yaml:"media_root"`
	MediaBaseURL               string `yaml:"media_base_url"`
	MediaPrefix                string `yaml:"media_prefix"`
	RecipeImageBucket          string `yaml:"recipe_image_gcs_bucket_name"`
	RecipeImageCDNDomain       string `yaml:"recipe_image_cdn_domain"`
	ObjectStoragePublicBaseURL string `yaml:"object_storage_public_base_url"`
	StorageEmulatorHost        string `yaml:"storage_emulator_host"`
	GoogleCredentials          string `yaml:"google_application_credentials"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	RateLimitRPS   float64  `yaml:"rate_limit_rps"`
	RateLimitBurst int      `yaml:"rate_limit_burst"`
	CORSOrigins    []string `yaml:"cors_allow_origins"`

	OtelEnabled     bool    `yaml:"otel_enabled"`
	OtelEndpoint    string  `yaml:"otel_endpoint"`
	OtelHeaders     string  `yaml:"otel_headers"`
	OtelInsecure    bool    `yaml:"otel_insecure"`
	OtelSampleRatio float64 `yaml:"otel_sample_ratio"`
	ServiceName     string  `yaml:"service_name"`
	Environment     string  `yaml:"environment"`
	Version         string  `yaml:"version"`
}

func defaultConfig() Config {
	return Config{
		Port:            "8080",
		LogMode:         "development",
		DBDriver:        "postgres",
		PostgresHost:    "localhost",
		PostgresPort:    "5432",
		PostgresUser:    "postgres",
		PostgresName:    "recipes",
		PostgresSSLMode: "disable",
		SQLitePath:      "recipes.db",
		JWTSecretKey:    defaultJWTSecret,
		AccessTokenTTL:  time.Hour,

		ObjectStorageMode: StorageModeLocal,
		MediaRoot:         "media",
		MediaBaseURL:      "http://localhost:8080/media",
		MediaPrefix:       "/media",

		RateLimitRPS:   20,
		RateLimitBurst: 40,

		OtelSampleRatio: 1,
		ServiceName:     "recipe-backend",
		Environment:     "development",
	}
}

// LoadConfig starts from defaults, applies the YAML file at path when given, then lets
// environment variables override individual keys.
func LoadConfig(log *logger.Logger, path string) (Config, error) {
	cfg := defaultConfig()
	if path = strings.TrimSpace(path); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
		log.Info("Loaded config file", "path", path)
	}

	cfg.Port = envutil.String("PORT", cfg.Port, log)
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode, log)

	cfg.DBDriver = strings.ToLower(envutil.String("DB_DRIVER", cfg.DBDriver, log))
	cfg.PostgresHost = envutil.String("POSTGRES_HOST", cfg.PostgresHost, log)
	cfg.PostgresPort = envutil.String("POSTGRES_PORT", cfg.PostgresPort, log)
	cfg.PostgresUser = envutil.String("POSTGRES_USER", cfg.PostgresUser, log)
	cfg.PostgresPassword = envutil.String("POSTGRES_PASSWORD", cfg.PostgresPassword, nil)
	cfg.PostgresName = envutil.String("POSTGRES_NAME", cfg.PostgresName, log)
	cfg.PostgresSSLMode = envutil.String("POSTGRES_SSLMODE", cfg.PostgresSSLMode, log)
	cfg.SQLitePath = envutil.String("SQLITE_PATH", cfg.SQLitePath, log)

	cfg.JWTSecretKey = envutil.String("JWT_SECRET_KEY", cfg.JWTSecretKey, nil)
	cfg.AccessTokenTTL = envutil.Duration("ACCESS_TOKEN_TTL", cfg.AccessTokenTTL, log)

	cfg.ObjectStorageMode = strings.ToLower(envutil.String("OBJECT_STORAGE_MODE", cfg.ObjectStorageMode, log))
	cfg.MediaRoot = envutil.String("MEDIA_ROOT", cfg.MediaRoot, log)
	cfg.MediaBaseURL = envutil.String("MEDIA_BASE_URL", cfg.MediaBaseURL, log)
	cfg.MediaPrefix = envutil.String("MEDIA_PREFIX", cfg.MediaPrefix, log)
	cfg.RecipeImageBucket = envutil.String("RECIPE_IMAGE_GCS_BUCKET_NAME", cfg.RecipeImageBucket, log)
	cfg.RecipeImageCDNDomain = envutil.String("RECIPE_IMAGE_CDN_DOMAIN", cfg.RecipeImageCDNDomain, log)
	cfg.ObjectStoragePublicBaseURL = envutil.String("OBJECT_STORAGE_PUBLIC_BASE_URL", cfg.ObjectStoragePublicBaseURL, log)
	cfg.StorageEmulatorHost = envutil.String("STORAGE_EMULATOR_HOST", cfg.StorageEmulatorHost, log)
	cfg.GoogleCredentials = envutil.String("GOOGLE_APPLICATION_CREDENTIALS_JSON", cfg.GoogleCredentials, nil)
	cfg.GoogleCredentials = envutil.String("GOOGLE_APPLICATION_CREDENTIALS", cfg.GoogleCredentials, nil)

	cfg.RedisAddr = envutil.String("REDIS_ADDR", cfg.RedisAddr, log)
	cfg.RedisPassword = envutil.String("REDIS_PASSWORD", cfg.RedisPassword, nil)
	cfg.RedisDB = envutil.Int("REDIS_DB", cfg.RedisDB, log)

	cfg.RateLimitRPS = envutil.Float("RATE_LIMIT_RPS", cfg.RateLimitRPS, log)
	cfg.RateLimitBurst = envutil.Int("RATE_LIMIT_BURST", cfg.RateLimitBurst, log)
	cfg.CORSOrigins = envutil.List("CORS_ALLOW_ORIGINS", cfg.CORSOrigins)

	cfg.OtelEnabled = envutil.Bool("OTEL_ENABLED", cfg.OtelEnabled, log)
	cfg.OtelEndpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OtelEndpoint, log)
	cfg.OtelHeaders = envutil.String("OTEL_EXPORTER_OTLP_HEADERS", cfg.OtelHeaders, nil)
	cfg.OtelInsecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", cfg.OtelInsecure, log)
	cfg.OtelSampleRatio = envutil.Float("OTEL_SAMPLE_RATIO", cfg.OtelSampleRatio, log)
	cfg.ServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.ServiceName, log)
	cfg.Environment = envutil.String("APP_ENV", cfg.Environment, log)
	cfg.Version = envutil.String("APP_VERSION", cfg.Version, log)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	if cfg.JWTSecretKey == defaultJWTSecret {
		log.Warn("JWT_SECRET_KEY is not set, using the insecure default")
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("invalid DB_DRIVER=%q (allowed: postgres, sqlite)", c.DBDriver)
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL must be positive")
	}
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if !c.LocalStorage() {
		if _, err := c.StorageTarget(); err != nil {
			return fmt.Errorf("OBJECT_STORAGE_MODE: %w", err)
		}
	}
	return nil
}

// LocalStorage reports whether images are kept under MediaRoot.
func (c Config) LocalStorage() bool {
	return strings.ToLower(strings.TrimSpace(c.ObjectStorageMode)) == StorageModeLocal
}

// StorageTarget resolves the bucket endpoint for the gcs modes.
func (c Config) StorageTarget() (gcp.Target, error) {
	return gcp.ParseTarget(c.ObjectStorageMode, c.StorageEmulatorHost)
}

// Addr is the listen address derived from Port.
func (c Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}
