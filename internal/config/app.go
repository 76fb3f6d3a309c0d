package config

import (
	"errors"
	"fmt"
	"io/fs"
	"itinsort/internal/domain"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultConfigPath = "config.yaml"

// ConfigError describes a single invalid configuration value.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: field %q: %s", e.Field, e.Message)
}

type HTTPServer struct {
	Port                  string `mapstructure:"port"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds"`
}

type HTTPClient struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

type ExchangeRateAPI struct {
	BaseURL             string `mapstructure:"base_url"`
	FetchTimeoutSeconds int    `mapstructure:"fetch_timeout_seconds"`
}

type RateCache struct {
	TTLSeconds int   `mapstructure:"ttl_seconds"`
	MaxBases   int64 `mapstructure:"max_bases"`
}

type DbServer struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Pass     string `mapstructure:"pass"`
	Name     string `mapstructure:"name"`
	MaxConns int32  `mapstructure:"max_conns"`
}

// Enabled reports whether snapshot persistence is configured.
func (config *DbServer) Enabled() bool { return strings.TrimSpace(config.Host) != "" }

// GetURL returns the DSN in URL form, accepted by both pgxpool and goose.
func (config *DbServer) GetURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(config.User, config.Pass),
		Host:     net.JoinHostPort(config.Host, config.Port),
		Path:     "/" + config.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

type Scheduler struct {
	RefreshIntervalSec int      `mapstructure:"refresh_interval_sec"`
	WarmBases          []string `mapstructure:"warm_bases"`
}

type Sorting struct {
	TargetCurrency string `mapstructure:"target_currency"`
	MaxItineraries int    `mapstructure:"max_itineraries"`
}

type Logging struct {
	Level string `mapstructure:"level"`
}

type CORS struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type AppConfig struct {
	HTTPServer      HTTPServer      `mapstructure:"http_server"`
	HTTPClient      HTTPClient      `mapstructure:"http_client"`
	ExchangeRateAPI ExchangeRateAPI `mapstructure:"exchange_rate_api"`
	RateCache       RateCache       `mapstructure:"rate_cache"`
	DbServer        DbServer        `mapstructure:"db_server"`
	Scheduler       Scheduler       `mapstructure:"scheduler"`
	Sorting         Sorting         `mapstructure:"sorting"`
	Logging         Logging         `mapstructure:"logging"`
	CORS            CORS            `mapstructure:"cors"`
}

func (c *AppConfig) RequestTimeout() time.Duration {
	return time.Duration(c.HTTPServer.RequestTimeoutSeconds) * time.Second
}

func (c *AppConfig) HTTPClientTimeout() time.Duration {
	return time.Duration(c.HTTPClient.TimeoutSeconds) * time.Second
}

func (c *AppConfig) FetchTimeout() time.Duration {
	return time.Duration(c.ExchangeRateAPI.FetchTimeoutSeconds) * time.Second
}

func (c *AppConfig) RateTTL() time.Duration {
	return time.Duration(c.RateCache.TTLSeconds) * time.Second
}

func (c *AppConfig) RefreshInterval() time.Duration {
	return time.Duration(c.Scheduler.RefreshIntervalSec) * time.Second
}

// Init loads .env (if present) and the YAML file named by CONFIG_PATH.
func Init() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}
	return Load(path)
}

// Load builds the config from defaults, the optional YAML file at path and
// environment overrides, then validates it.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)
	bindEnv(v)

	if path != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		} else if !errors.Is(statErr, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", statErr)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_server.port", "8080")
	v.SetDefault("http_server.request_timeout_seconds", 30)
	v.SetDefault("http_client.timeout_seconds", 10)
	v.SetDefault("exchange_rate_api.base_url", "https://open.er-api.com/v6/latest")
	v.SetDefault("exchange_rate_api.fetch_timeout_seconds", 5)
	v.SetDefault("rate_cache.ttl_seconds", 3600)
	v.SetDefault("rate_cache.max_bases", 64)
	v.SetDefault("db_server.port", "5432")
	v.SetDefault("db_server.max_conns", 10)
	v.SetDefault("scheduler.refresh_interval_sec", 600)
	v.SetDefault("scheduler.warm_bases", []string{})
	v.SetDefault("sorting.target_currency", "USD")
	v.SetDefault("sorting.max_itineraries", 1000)
	v.SetDefault("logging.level", "info")
	v.SetDefault("cors.allowed_origins", []string{"*"})
}

func bindEnv(v *viper.Viper) {
	// http server env vars
	_ = v.BindEnv("http_server.port", "HTTP_PORT")
	_ = v.BindEnv("http_server.request_timeout_seconds", "HTTP_REQUEST_TIMEOUT_SECONDS")

	// http client env vars
	_ = v.BindEnv("http_client.timeout_seconds", "HTTP_CLIENT_TIMEOUT_SECONDS")

	// rate source env vars
	_ = v.BindEnv("exchange_rate_api.base_url", "EXCHANGE_RATE_API_BASE_URL")
	_ = v.BindEnv("exchange_rate_api.fetch_timeout_seconds", "EXCHANGE_RATE_API_FETCH_TIMEOUT_SECONDS")
	_ = v.BindEnv("rate_cache.ttl_seconds", "RATE_CACHE_TTL_SECONDS")
	_ = v.BindEnv("rate_cache.max_bases", "RATE_CACHE_MAX_BASES")

	// db server env vars
	_ = v.BindEnv("db_server.host", "DB_HOST")
	_ = v.BindEnv("db_server.port", "DB_PORT")
	_ = v.BindEnv("db_server.user", "DB_USER")
	_ = v.BindEnv("db_server.pass", "DB_PASS")
	_ = v.BindEnv("db_server.name", "DB_NAME")
	_ = v.BindEnv("db_server.max_conns", "DB_MAX_CONNS")

	_ = v.BindEnv("scheduler.refresh_interval_sec", "SCHEDULER_REFRESH_INTERVAL_SEC")
	_ = v.BindEnv("scheduler.warm_bases", "SCHEDULER_WARM_BASES")
	_ = v.BindEnv("sorting.target_currency", "SORTING_TARGET_CURRENCY")
	_ = v.BindEnv("sorting.max_itineraries", "SORTING_MAX_ITINERARIES")
	_ = v.BindEnv("logging.level", "LOG_LEVEL")
	_ = v.BindEnv("cors.allowed_origins", "CORS_ALLOWED_ORIGINS")
}

func (c *AppConfig) normalize() {
	c.Sorting.TargetCurrency = strings.ToUpper(strings.TrimSpace(c.Sorting.TargetCurrency))
	bases := make([]string, 0, len(c.Scheduler.WarmBases))
	for _, b := range c.Scheduler.WarmBases {
		if b = strings.ToUpper(strings.TrimSpace(b)); b != "" {
			bases = append(bases, b)
		}
	}
	c.Scheduler.WarmBases = bases
}

// Validate returns every invalid field joined into one error.
func (c *AppConfig) Validate() error {
	var errs []error
	check := func(ok bool, field, msg string) {
		if !ok {
			errs = append(errs, &ConfigError{Field: field, Message: msg})
		}
	}

	check(c.HTTPServer.Port != "", "http_server.port", "required but not set")
	check(c.HTTPServer.RequestTimeoutSeconds > 0, "http_server.request_timeout_seconds", "must be positive")
	check(c.HTTPClient.TimeoutSeconds > 0, "http_client.timeout_seconds", "must be positive")
	check(c.ExchangeRateAPI.BaseURL != "", "exchange_rate_api.base_url", "required but not set")
	check(c.ExchangeRateAPI.FetchTimeoutSeconds > 0, "exchange_rate_api.fetch_timeout_seconds", "must be positive")
	check(c.RateCache.TTLSeconds > 0, "rate_cache.ttl_seconds", "must be positive")
	check(c.RateCache.MaxBases > 0, "rate_cache.max_bases", "must be positive")
	check(c.Scheduler.RefreshIntervalSec > 0, "scheduler.refresh_interval_sec", "must be positive")
	check(domain.IsCurrencyCode(c.Sorting.TargetCurrency), "sorting.target_currency", "must be a 3-letter currency code")
	check(c.Sorting.MaxItineraries > 0, "sorting.max_itineraries", "must be positive")
	for _, b := range c.Scheduler.WarmBases {
		check(domain.IsCurrencyCode(b), "scheduler.warm_bases", fmt.Sprintf("%q is not a 3-letter currency code", b))
	}
	if c.DbServer.Enabled() {
		check(c.DbServer.Name != "", "db_server.name", "required when db_server.host is set")
		check(c.DbServer.User != "", "db_server.user", "required when db_server.host is set")
	}

	return errors.Join(errs...)
}
