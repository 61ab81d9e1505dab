package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkglogger "github.com/getyourdepa/depa-cms/pkg/logger"
	"gopkg.in/yaml.v3"
)

// Supported backends.
const (
	DriverFirestore = "firestore"
	DriverMongo     = "mongo"
	DriverMySQL     = "mysql"
	DriverSQLite    = "sqlite"

	StorageGCS = "gcs"
	StorageS3  = "s3"

	AuthFirebase = "firebase"
	AuthJWKS     = "jwks"
	AuthHMAC     = "hmac"
)

// Config is the full application configuration. Values come from the YAML
// file and are then overridden by environment variables.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	Firebase  FirebaseConfig  `yaml:"firebase"`
	Storage   StorageConfig   `yaml:"storage"`
	Auth      AuthConfig      `yaml:"auth"`
	Redis     RedisConfig     `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors"`
	Rebuild   RebuildConfig   `yaml:"rebuild"`
	ShortLink ShortLinkConfig `yaml:"shortlink"`
	I18n      I18nConfig      `yaml:"i18n"`
}

type ServerConfig struct {
	Port         int           `yaml:"port" env:"PORT"`
	Mode         string        `yaml:"mode" env:"GIN_MODE"`
	Env          string        `yaml:"env" env:"APP_ENV"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	MaxUploadMB  int64         `yaml:"max_upload_mb" env:"MAX_UPLOAD_MB"`
}

type LogConfig struct {
	Level      string `yaml:"level" env:"LOG_LEVEL"`
	File       string `yaml:"file" env:"LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

type DatabaseConfig struct {
	Driver        string `yaml:"driver" env:"DATABASE_DRIVER"`
	DSN           string `yaml:"dsn" env:"DATABASE_DSN"`
	MongoURI      string `yaml:"mongo_uri" env:"MONGODB_URI"`
	MongoDatabase string `yaml:"mongo_database" env:"MONGODB_DATABASE"`
}

// ServiceAccount holds the fields of a Google service account key that the
// Firebase Admin SDK needs.
type ServiceAccount struct {
	ProjectID   string `yaml:"project_id" env:"PROJECT_ID"`
	ClientEmail string `yaml:"client_email" env:"CLIENT_EMAIL"`
	PrivateKey  string `yaml:"private_key" env:"PRIVATE_KEY"`
}

// Complete reports whether every field is set.
func (s ServiceAccount) Complete() bool {
	return s.ProjectID != "" && s.ClientEmail != "" && s.PrivateKey != ""
}

// Key returns the private key with escaped newlines expanded.
func (s ServiceAccount) Key() string {
	return strings.ReplaceAll(s.PrivateKey, `\n`, "\n")
}

type FirebaseConfig struct {
	Documents ServiceAccount `yaml:"documents" envPrefix:"FIREBASE_"`
	Storage   ServiceAccount `yaml:"storage" envPrefix:"STORAGE_FIREBASE_"`
}

type StorageConfig struct {
	Driver string   `yaml:"driver" env:"STORAGE_DRIVER"`
	Bucket string   `yaml:"bucket" env:"STORAGE_BUCKET"`
	S3     S3Config `yaml:"s3"`
}

type S3Config struct {
	Endpoint        string `yaml:"endpoint" env:"S3_ENDPOINT"`
	Region          string `yaml:"region" env:"S3_REGION"`
	AccessKeyID     string `yaml:"access_key_id" env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"AWS_SECRET_ACCESS_KEY"`
	CDNURL          string `yaml:"cdn_url" env:"S3_CDN_URL"`
	BasePath        string `yaml:"base_path"`
	ForcePathStyle  bool   `yaml:"force_path_style"`
	SkipACL         bool   `yaml:"skip_acl"`
}

type AuthConfig struct {
	Provider   string     `yaml:"provider" env:"AUTH_PROVIDER"`
	AdminUID   string     `yaml:"admin_uid" env:"ADMIN_UID"`
	JWKS       JWKSConfig `yaml:"jwks"`
	HMACSecret string     `yaml:"hmac_secret" env:"AUTH_HMAC_SECRET"`
	HMACIssuer string     `yaml:"hmac_issuer"`
}

type JWKSConfig struct {
	URL      string        `yaml:"url" env:"AUTH_JWKS_URL"`
	Issuer   string        `yaml:"issuer" env:"AUTH_JWKS_ISSUER"`
	Audience string        `yaml:"audience" env:"AUTH_JWKS_AUDIENCE"`
	Leeway   time.Duration `yaml:"leeway"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled" env:"REDIS_ENABLED"`
	Host     string `yaml:"host" env:"REDIS_HOST"`
	Port     int    `yaml:"port" env:"REDIS_PORT"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type RateLimitConfig struct {
	Requests int           `yaml:"requests" env:"RATE_LIMIT_REQUESTS"`
	Window   time.Duration `yaml:"window"`
}

type CORSConfig struct {
	AllowOrigins string `yaml:"allow_origins" env:"CORS_ALLOW_ORIGINS"`
}

type RebuildConfig struct {
	HookURL string        `yaml:"hook_url" env:"NETLIFY_BUILD_HOOK"`
	Timeout time.Duration `yaml:"timeout"`
}

type ShortLinkConfig struct {
	BaseURL string `yaml:"base_url" env:"SHORTLINK_BASE_URL"`
}

// Host returns the host of BaseURL, which must never be a shortening target.
func (s ShortLinkConfig) Host() string {
	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

type I18nConfig struct {
	Dir string `yaml:"dir"`
}

// Load reads the YAML file at path, applies environment overrides and
// defaults, and validates the result. A missing file is not an error; the
// configuration then comes from the environment alone.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Env == "" {
		c.Server.Env = "local"
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "debug"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = 20
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverFirestore
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageGCS
	}
	if c.Storage.Bucket == "" && c.Firebase.Storage.ProjectID != "" {
		c.Storage.Bucket = c.Firebase.Storage.ProjectID + ".appspot.com"
	}
	if c.Auth.Provider == "" {
		c.Auth.Provider = AuthFirebase
	}
	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 10
	}
	if c.RateLimit.Requests == 0 {
		c.RateLimit.Requests = 120
	}
	if c.RateLimit.Window == 0 {
		c.RateLimit.Window = time.Minute
	}
	if c.Rebuild.Timeout == 0 {
		c.Rebuild.Timeout = 10 * time.Second
	}
	if c.ShortLink.BaseURL == "" {
		c.ShortLink.BaseURL = "https://getyourdepa.com"
	}
}

// Validate checks that every field required by the selected backends is set.
func (c *Config) Validate() error {
	var errs []error

	if c.Auth.AdminUID == "" {
		errs = append(errs, errors.New("auth.admin_uid is required"))
	}

	switch c.Database.Driver {
	case DriverFirestore:
		if !c.Firebase.Documents.Complete() {
			errs = append(errs, errors.New("firebase.documents credentials are required for the firestore driver"))
		}
	case DriverMongo:
		if c.Database.MongoURI == "" || c.Database.MongoDatabase == "" {
			errs = append(errs, errors.New("database.mongo_uri and database.mongo_database are required for the mongo driver"))
		}
	case DriverMySQL, DriverSQLite:
		if c.Database.DSN == "" {
			errs = append(errs, fmt.Errorf("database.dsn is required for the %s driver", c.Database.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown database.driver %q", c.Database.Driver))
	}

	switch c.Storage.Driver {
	case StorageGCS:
		if !c.Firebase.Storage.Complete() {
			errs = append(errs, errors.New("firebase.storage credentials are required for the gcs driver"))
		}
		if c.Storage.Bucket == "" {
			errs = append(errs, errors.New("storage.bucket is required"))
		}
	case StorageS3:
		if c.Storage.Bucket == "" {
			errs = append(errs, errors.New("storage.bucket is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.driver %q", c.Storage.Driver))
	}

	switch c.Auth.Provider {
	case AuthFirebase:
		if !c.Firebase.Documents.Complete() {
			errs = append(errs, errors.New("firebase.documents credentials are required for the firebase auth provider"))
		}
	case AuthJWKS:
		if c.Auth.JWKS.URL == "" {
			errs = append(errs, errors.New("auth.jwks.url is required for the jwks auth provider"))
		}
	case AuthHMAC:
		if c.Auth.HMACSecret == "" {
			errs = append(errs, errors.New("auth.hmac_secret is required for the hmac auth provider"))
		} else if c.IsProduction() {
			errs = append(errs, errors.New("the hmac auth provider is not allowed in production"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown auth.provider %q", c.Auth.Provider))
	}

	if c.Redis.Enabled && c.Redis.Host == "" {
		errs = append(errs, errors.New("redis.host is required when redis is enabled"))
	}

	return errors.Join(errs...)
}

// IsDevelopment reports whether the app runs locally.
func (c *Config) IsDevelopment() bool {
	switch c.Server.Env {
	case "", "local", "dev", "development":
		return true
	}
	return false
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// LogResolved logs the effective backend selection without secrets.
func LogResolved(c *Config) {
	pkglogger.GetLogger().Info().
		Str("env", c.Server.Env).
		Int("port", c.Server.Port).
		Str("database", c.Database.Driver).
		Str("storage", c.Storage.Driver).
		Str("bucket", c.Storage.Bucket).
		Str("auth", c.Auth.Provider).
		Bool("redis", c.Redis.Enabled).
		Bool("rebuild_hook", c.Rebuild.HookURL != "").
		Msg("configuration resolved")
}
