package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "BLOG_"

// nestedEnvPrefixes name the sub-sections below the top level. Every other
// variable splits at its first underscore.
var nestedEnvPrefixes = []string{"storage_s3_"}

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	JWT       JWTConfig       `koanf:"jwt"`
	Storage   StorageConfig   `koanf:"storage"`
	Media     MediaConfig     `koanf:"media"`
	Preview   PreviewConfig   `koanf:"preview"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
	Log       LogConfig       `koanf:"log"`
}

type ServerConfig struct {
	Port            string        `koanf:"port"`
	Mode            string        `koanf:"mode"` // debug, release, test
	BaseURL         string        `koanf:"base_url"`
	FrontendOrigin  string        `koanf:"frontend_origin"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	User         string        `koanf:"user"`
	Password     string        `koanf:"password"`
	Name         string        `koanf:"name"`
	SSLMode      string        `koanf:"sslmode"`
	LogLevel     string        `koanf:"log_level"` // silent, error, warn, info
	MaxOpenConns int           `koanf:"max_open_conns"`
	MaxIdleConns int           `koanf:"max_idle_conns"`
	MaxLifetime  time.Duration `koanf:"max_lifetime"`
	Migrate      bool          `koanf:"migrate"`
}

// RedisConfig with an empty Addr selects the in-process cache.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

type JWTConfig struct {
	Secret     string        `koanf:"secret"`
	Expiration time.Duration `koanf:"expiration"`
}

type StorageConfig struct {
	Driver    string   `koanf:"driver"` // local, s3
	LocalDir  string   `koanf:"local_dir"`
	PublicURL string   `koanf:"public_url"`
	S3        S3Config `koanf:"s3"`
}

type S3Config struct {
	Bucket          string `koanf:"bucket"`
	Region          string `koanf:"region"`
	Endpoint        string `koanf:"endpoint"`
	AccessKeyID     string `koanf:"access_key_id"`
	SecretAccessKey string `koanf:"secret_access_key"`
	UsePathStyle    bool   `koanf:"use_path_style"`
}

type MediaConfig struct {
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`
}

type PreviewConfig struct {
	TTL time.Duration `koanf:"ttl"`
}

// SchedulerConfig drives the in-process sweeper. A zero interval disables it.
type SchedulerConfig struct {
	Interval time.Duration `koanf:"interval"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, pretty
}

// Default returns the configuration used when no file or env override is present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8080",
			Mode:            "debug",
			BaseURL:         "http://localhost:8080",
			FrontendOrigin:  "http://localhost:5173",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Host:         "localhost",
			Port:         5432,
			User:         "postgres",
			Password:     "postgres",
			Name:         "blog_cms",
			SSLMode:      "disable",
			LogLevel:     "warn",
			MaxOpenConns: 25,
			MaxIdleConns: 5,
			MaxLifetime:  time.Hour,
			Migrate:      true,
		},
		JWT: JWTConfig{
			Secret:     "your-secret-key-change-this-in-production",
			Expiration: 24 * time.Hour,
		},
		Storage: StorageConfig{
			Driver:    "local",
			LocalDir:  "./storage/app/public",
			PublicURL: "http://localhost:8080/storage",
		},
		Media: MediaConfig{
			MaxUploadBytes: 10 << 20,
		},
		Preview: PreviewConfig{
			TTL: 24 * time.Hour,
		},
		Scheduler: SchedulerConfig{
			Interval: time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load layers defaults, an optional YAML file and BLOG_* environment variables.
// BLOG_SERVER_BASE_URL maps to server.base_url and BLOG_STORAGE_S3_BUCKET to
// storage.s3.bucket.
func Load(configPath string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	k := koanf.New(".")

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(name string) string {
	key := strings.ToLower(strings.TrimPrefix(name, envPrefix))
	for _, prefix := range nestedEnvPrefixes {
		if rest, ok := strings.CutPrefix(key, prefix); ok {
			return strings.ReplaceAll(prefix, "_", ".") + rest
		}
	}
	return strings.Replace(key, "_", ".", 1)
}

func (c *Config) Validate() error {
	if c.Database.Host == "" || c.Database.Name == "" {
		return errors.New("database host and name are required")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unknown server mode %q", c.Server.Mode)
	}
	if c.Server.FrontendOrigin == "" {
		return errors.New("server.frontend_origin is required")
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt secret is required")
	}
	if c.Server.Mode == "release" && c.JWT.Secret == Default().JWT.Secret {
		return errors.New("jwt secret must be changed in release mode")
	}
	switch c.Storage.Driver {
	case "local":
	case "s3":
		if c.Storage.S3.Bucket == "" {
			return errors.New("storage.s3.bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Media.MaxUploadBytes <= 0 {
		return errors.New("media.max_upload_bytes must be positive")
	}
	if c.Preview.TTL <= 0 {
		return errors.New("preview.ttl must be positive")
	}
	return nil
}

// DSN is the gorm/pgx connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// URL is the lib/pq connection URL used by the migrator.
func (c *DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}
