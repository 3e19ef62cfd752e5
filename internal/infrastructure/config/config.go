package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Log          LogConfig
	HTTP         HTTPConfig
	Marketplace  MarketplaceConfig
	BankFeed     BankFeedConfig
	Catalog      CatalogConfig
	Notification NotificationConfig
	Settlement   SettlementConfig
	Tracker      TrackerConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	MaxBodySize      int64
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// MarketplaceConfig holds the purchasing marketplace API settings
type MarketplaceConfig struct {
	BaseURL   string
	APIKey    string
	APISecret string
	Timeout   time.Duration
}

// BankFeedConfig holds the virtual account deposit feed settings
type BankFeedConfig struct {
	BaseURL       string
	APIKey        string
	PollInterval  time.Duration
	Timeout       time.Duration
	WebhookSecret string
}

// CatalogConfig holds the beneficiary item catalog service settings
type CatalogConfig struct {
	BaseURL string
	Timeout time.Duration
}

// NotificationConfig holds donor notification settings
type NotificationConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// SettlementConfig holds settlement batch settings
type SettlementConfig struct {
	WeeklyEnabled    bool
	MonthlyEnabled   bool
	WeeklySchedule   time.Duration // how often the weekly trigger wakes up
	MonthlySchedule  time.Duration
	PaymentTermsDays int
}

// TrackerConfig holds shipping tracker settings
type TrackerConfig struct {
	Enabled      bool
	PollInterval time.Duration
	ScanLimit    int
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with GIVEBRIDGE_ prefix (e.g., GIVEBRIDGE_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("GIVEBRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Marketplace: MarketplaceConfig{
			BaseURL:   v.GetString("marketplace.base_url"),
			APIKey:    v.GetString("marketplace.api_key"),
			APISecret: v.GetString("marketplace.api_secret"),
			Timeout:   v.GetDuration("marketplace.timeout"),
		},
		BankFeed: BankFeedConfig{
			BaseURL:       v.GetString("bank_feed.base_url"),
			APIKey:        v.GetString("bank_feed.api_key"),
			PollInterval:  v.GetDuration("bank_feed.poll_interval"),
			Timeout:       v.GetDuration("bank_feed.timeout"),
			WebhookSecret: v.GetString("bank_feed.webhook_secret"),
		},
		Catalog: CatalogConfig{
			BaseURL: v.GetString("catalog.base_url"),
			Timeout: v.GetDuration("catalog.timeout"),
		},
		Notification: NotificationConfig{
			BaseURL: v.GetString("notification.base_url"),
			APIKey:  v.GetString("notification.api_key"),
			Timeout: v.GetDuration("notification.timeout"),
		},
		Settlement: SettlementConfig{
			WeeklyEnabled:    v.GetBool("settlement.weekly_enabled"),
			MonthlyEnabled:   v.GetBool("settlement.monthly_enabled"),
			WeeklySchedule:   v.GetDuration("settlement.weekly_schedule"),
			MonthlySchedule:  v.GetDuration("settlement.monthly_schedule"),
			PaymentTermsDays: v.GetInt("settlement.payment_terms_days"),
		},
		Tracker: TrackerConfig{
			Enabled:      v.GetBool("tracker.enabled"),
			PollInterval: v.GetDuration("tracker.poll_interval"),
			ScanLimit:    v.GetInt("tracker.scan_limit"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "givebridge-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "givebridge"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20 // 1MB, the API carries no uploads
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}
	if cfg.Marketplace.Timeout == 0 {
		cfg.Marketplace.Timeout = 10 * time.Second
	}
	if cfg.BankFeed.PollInterval == 0 {
		cfg.BankFeed.PollInterval = 30 * time.Second
	}
	if cfg.BankFeed.Timeout == 0 {
		cfg.BankFeed.Timeout = 10 * time.Second
	}
	if cfg.Catalog.Timeout == 0 {
		cfg.Catalog.Timeout = 5 * time.Second
	}
	if cfg.Notification.Timeout == 0 {
		cfg.Notification.Timeout = 5 * time.Second
	}
	if cfg.Settlement.WeeklySchedule == 0 {
		cfg.Settlement.WeeklySchedule = time.Hour
	}
	if cfg.Settlement.MonthlySchedule == 0 {
		cfg.Settlement.MonthlySchedule = 6 * time.Hour
	}
	if cfg.Settlement.PaymentTermsDays == 0 {
		cfg.Settlement.PaymentTermsDays = 14
	}
	if cfg.Tracker.PollInterval == 0 {
		cfg.Tracker.PollInterval = 5 * time.Minute
	}
	if cfg.Tracker.ScanLimit == 0 {
		cfg.Tracker.ScanLimit = 200
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.App.Env == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		if c.Marketplace.APIKey == "" || c.Marketplace.APISecret == "" {
			return fmt.Errorf("marketplace.api_key and marketplace.api_secret are required in production")
		}
		if c.BankFeed.WebhookSecret == "" {
			return fmt.Errorf("bank_feed.webhook_secret is required in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Addr returns the host:port address for the Redis connection
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
