// Package config loads the payments viewer configuration from flags,
// PAYMENTS_* environment variables and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Sternrassler/payments-view/pkg/logging"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. PAYMENTS_API_URL.
const EnvPrefix = "PAYMENTS"

// Config is the resolved configuration.
type Config struct {
	API      APIConfig
	PageSize int
	Cache    CacheConfig
	Redis    RedisConfig
	Server   ServerConfig
	Export   ExportConfig
	Log      LogConfig
}

// APIConfig describes the payments search endpoint.
type APIConfig struct {
	URL         string
	Timeout     time.Duration
	UserAgent   string
	MaxAttempts int
}

// CacheConfig controls response caching.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// RedisConfig enables the shared cache layer when Addr is set.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ServerConfig configures the HTML view.
type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// ExportConfig configures batch export.
type ExportConfig struct {
	Workers     int
	PageSize    int
	PageTimeout time.Duration
}

// LogConfig configures zerolog.
type LogConfig struct {
	Level  string
	Pretty bool
	// File receives logs instead of stderr. The terminal view always needs
	// one, since stderr shares the screen.
	File string
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api.url", "http://localhost:3000/api/payments/search")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.user_agent", "payments-view/0.1.0")
	v.SetDefault("api.max_attempts", 1)

	v.SetDefault("page_size", 5)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", 5*time.Minute)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("export.workers", 4)
	v.SetDefault("export.page_size", 50)
	v.SetDefault("export.page_timeout", 15*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("log.file", "")
}

// Init prepares v for Load: defaults, environment binding and, when found,
// the config file. An explicit cfgFile must exist; otherwise config.yaml is
// looked up in $HOME/.config/payments-view and the working directory.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "payments-view"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	return nil
}

// Load resolves v into a validated Config.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		API: APIConfig{
			URL:         v.GetString("api.url"),
			Timeout:     v.GetDuration("api.timeout"),
			UserAgent:   v.GetString("api.user_agent"),
			MaxAttempts: v.GetInt("api.max_attempts"),
		},
		PageSize: v.GetInt("page_size"),
		Cache: CacheConfig{
			Enabled: v.GetBool("cache.enabled"),
			TTL:     v.GetDuration("cache.ttl"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Server: ServerConfig{
			Addr:            v.GetString("server.addr"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Export: ExportConfig{
			Workers:     v.GetInt("export.workers"),
			PageSize:    v.GetInt("export.page_size"),
			PageTimeout: v.GetDuration("export.page_timeout"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Pretty: v.GetBool("log.pretty"),
			File:   v.GetString("log.file"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.API.URL)
	switch {
	case c.API.URL == "":
		errs = append(errs, errors.New("api.url is required"))
	case err != nil:
		errs = append(errs, fmt.Errorf("api.url: %w", err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, fmt.Errorf("api.url must be http or https (got %q)", c.API.URL))
	case u.Host == "":
		errs = append(errs, fmt.Errorf("api.url has no host (got %q)", c.API.URL))
	}

	if c.API.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("api.timeout must be positive (got %s)", c.API.Timeout))
	}
	if c.API.UserAgent == "" {
		errs = append(errs, errors.New("api.user_agent is required"))
	}
	if c.API.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("api.max_attempts must be >= 1 (got %d)", c.API.MaxAttempts))
	}
	if c.PageSize < 1 {
		errs = append(errs, fmt.Errorf("page_size must be >= 1 (got %d)", c.PageSize))
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		errs = append(errs, fmt.Errorf("cache.ttl must be positive (got %s)", c.Cache.TTL))
	}
	if c.Redis.DB < 0 {
		errs = append(errs, fmt.Errorf("redis.db must be >= 0 (got %d)", c.Redis.DB))
	}
	if c.Export.Workers < 1 {
		errs = append(errs, fmt.Errorf("export.workers must be >= 1 (got %d)", c.Export.Workers))
	}
	if c.Export.PageSize < 1 {
		errs = append(errs, fmt.Errorf("export.page_size must be >= 1 (got %d)", c.Export.PageSize))
	}
	if !logging.ValidLevel(logging.LogLevel(c.Log.Level)) {
		errs = append(errs, fmt.Errorf("log.level must be one of debug, info, warn, error (got %q)", c.Log.Level))
	}

	return errors.Join(errs...)
}

// RedisEnabled reports whether the shared cache layer is configured.
func (c *Config) RedisEnabled() bool {
	return c.Cache.Enabled && c.Redis.Addr != ""
}
