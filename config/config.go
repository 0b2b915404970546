package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment Configuration
	Environment EnvironmentConfig

	// Server Configuration
	Server ServerConfig
	Logger LoggerConfig

	// Storage Configuration
	Postgres PostgresConfig
	Redis    RedisConfig
	MinIO    MinIOConfig

	// Pipeline Configuration
	Webhook  WebhookConfig
	Dispatch DispatchConfig

	// Channel Configuration
	Slack           SlackConfig
	Email           EmailConfig
	OutboundWebhook OutboundWebhookConfig

	// Monitoring Configuration
	Metrics MetricsConfig
}

// EnvironmentConfig is the configuration for the deployment environment.
type EnvironmentConfig struct {
	Name string
}

// ServerConfig is the configuration for the HTTP server
type ServerConfig struct {
	Host            string
	Port            int
	Mode            string
	ShutdownTimeout time.Duration
	CORSOrigins     []string
}

// LoggerConfig is the configuration for the logger
type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// PostgresConfig is the configuration for PostgreSQL
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig is the configuration for Redis
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	UseTLS   bool

	// Connection pool settings
	MaxRetries      int
	MinIdleConns    int
	PoolSize        int
	ConnMaxIdleTime time.Duration
}

// MinIOConfig is the configuration for the raw payload archive
type MinIOConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string
	Bucket    string
}

// PlatformCredentials are the shared secrets of one ad platform.
type PlatformCredentials struct {
	AppSecret   string
	VerifyToken string
}

// WebhookConfig is the configuration for inbound platform webhooks
type WebhookConfig struct {
	Meta         PlatformCredentials
	Google       PlatformCredentials
	MaxBodyBytes int64
	MaxInFlight  int
}

// DispatchConfig is the configuration for the dispatch coordinator
type DispatchConfig struct {
	// Guard is "memory" or "redis".
	Guard       string
	DedupWindow time.Duration
	RateLimit   int
	RateWindow  time.Duration
	MaxAttempts int
	RetryDelay  time.Duration
}

// SlackConfig is the configuration for Slack delivery and ops reports
type SlackConfig struct {
	OpsWebhookURL string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
}

// EmailConfig is the configuration for the email channel
type EmailConfig struct {
	Provider string
	From     string
	SMTP     SMTPConfig
	Resend   ResendConfig
	SES      SESConfig
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

type ResendConfig struct {
	APIKey string
}

type SESConfig struct {
	Region string
}

// OutboundWebhookConfig is the configuration for the generic HTTP callback channel
type OutboundWebhookConfig struct {
	SigningSecret string
	Timeout       time.Duration
}

// MetricsConfig is the configuration for the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// Load loads configuration using Viper
func Load() (*Config, error) {
	viper.SetConfigName("adalert-config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/adalert/")

	// Enable environment variable override
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	// Read config file (optional - will use env vars if file not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment
	cfg.Environment.Name = viper.GetString("environment.name")

	// Server
	cfg.Server.Host = viper.GetString("server.host")
	cfg.Server.Port = viper.GetInt("server.port")
	cfg.Server.Mode = viper.GetString("server.mode")
	cfg.Server.ShutdownTimeout = viper.GetDuration("server.shutdown_timeout")
	cfg.Server.CORSOrigins = viper.GetStringSlice("server.cors_origins")

	// Logger
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Postgres
	cfg.Postgres.Host = viper.GetString("postgres.host")
	cfg.Postgres.Port = viper.GetInt("postgres.port")
	cfg.Postgres.User = viper.GetString("postgres.user")
	cfg.Postgres.Password = viper.GetString("postgres.password")
	cfg.Postgres.DBName = viper.GetString("postgres.dbname")
	cfg.Postgres.SSLMode = viper.GetString("postgres.sslmode")
	cfg.Postgres.MaxOpenConns = viper.GetInt("postgres.max_open_conns")
	cfg.Postgres.MaxIdleConns = viper.GetInt("postgres.max_idle_conns")
	cfg.Postgres.ConnMaxLifetime = viper.GetDuration("postgres.conn_max_lifetime")

	// Redis
	cfg.Redis.Enabled = viper.GetBool("redis.enabled")
	cfg.Redis.Host = viper.GetString("redis.host")
	cfg.Redis.Port = viper.GetInt("redis.port")
	cfg.Redis.Password = viper.GetString("redis.password")
	cfg.Redis.DB = viper.GetInt("redis.db")
	cfg.Redis.UseTLS = viper.GetBool("redis.use_tls")
	cfg.Redis.MaxRetries = viper.GetInt("redis.max_retries")
	cfg.Redis.MinIdleConns = viper.GetInt("redis.min_idle_conns")
	cfg.Redis.PoolSize = viper.GetInt("redis.pool_size")
	cfg.Redis.ConnMaxIdleTime = viper.GetDuration("redis.conn_max_idle_time")

	// MinIO
	cfg.MinIO.Enabled = viper.GetBool("minio.enabled")
	cfg.MinIO.Endpoint = viper.GetString("minio.endpoint")
	cfg.MinIO.AccessKey = viper.GetString("minio.access_key")
	cfg.MinIO.SecretKey = viper.GetString("minio.secret_key")
	cfg.MinIO.UseSSL = viper.GetBool("minio.use_ssl")
	cfg.MinIO.Region = viper.GetString("minio.region")
	cfg.MinIO.Bucket = viper.GetString("minio.bucket")

	// Webhook
	cfg.Webhook.Meta.AppSecret = viper.GetString("webhook.meta.app_secret")
	cfg.Webhook.Meta.VerifyToken = viper.GetString("webhook.meta.verify_token")
	cfg.Webhook.Google.AppSecret = viper.GetString("webhook.google.app_secret")
	cfg.Webhook.Google.VerifyToken = viper.GetString("webhook.google.verify_token")
	cfg.Webhook.MaxBodyBytes = viper.GetInt64("webhook.max_body_bytes")
	cfg.Webhook.MaxInFlight = viper.GetInt("webhook.max_in_flight")

	// Dispatch
	cfg.Dispatch.Guard = viper.GetString("dispatch.guard")
	cfg.Dispatch.DedupWindow = viper.GetDuration("dispatch.dedup_window")
	cfg.Dispatch.RateLimit = viper.GetInt("dispatch.rate_limit")
	cfg.Dispatch.RateWindow = viper.GetDuration("dispatch.rate_window")
	cfg.Dispatch.MaxAttempts = viper.GetInt("dispatch.max_attempts")
	cfg.Dispatch.RetryDelay = viper.GetDuration("dispatch.retry_delay")

	// Slack
	cfg.Slack.OpsWebhookURL = viper.GetString("slack.ops_webhook_url")
	cfg.Slack.Timeout = viper.GetDuration("slack.timeout")
	cfg.Slack.RatePerSecond = viper.GetFloat64("slack.rate_per_second")
	cfg.Slack.Burst = viper.GetInt("slack.burst")

	// Email
	cfg.Email.Provider = viper.GetString("email.provider")
	cfg.Email.From = viper.GetString("email.from")
	cfg.Email.SMTP.Host = viper.GetString("email.smtp.host")
	cfg.Email.SMTP.Port = viper.GetInt("email.smtp.port")
	cfg.Email.SMTP.Username = viper.GetString("email.smtp.username")
	cfg.Email.SMTP.Password = viper.GetString("email.smtp.password")
	cfg.Email.Resend.APIKey = viper.GetString("email.resend.api_key")
	cfg.Email.SES.Region = viper.GetString("email.ses.region")

	// Outbound webhook
	cfg.OutboundWebhook.SigningSecret = viper.GetString("outbound_webhook.signing_secret")
	cfg.OutboundWebhook.Timeout = viper.GetDuration("outbound_webhook.timeout")

	// Metrics
	cfg.Metrics.Enabled = viper.GetBool("metrics.enabled")
	cfg.Metrics.Path = viper.GetString("metrics.path")

	// Validate required fields
	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults() {
	// Environment
	viper.SetDefault("environment.name", "production")

	// Server
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("server.shutdown_timeout", 30*time.Second)

	// Logger
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.mode", "production")
	viper.SetDefault("logger.encoding", "json")
	viper.SetDefault("logger.color_enabled", false)

	// Postgres
	viper.SetDefault("postgres.host", "localhost")
	viper.SetDefault("postgres.port", 5432)
	viper.SetDefault("postgres.sslmode", "disable")
	viper.SetDefault("postgres.max_open_conns", 20)
	viper.SetDefault("postgres.max_idle_conns", 10)
	viper.SetDefault("postgres.conn_max_lifetime", 30*time.Minute)

	// Redis
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.use_tls", false)
	viper.SetDefault("redis.max_retries", 3)
	viper.SetDefault("redis.min_idle_conns", 10)
	viper.SetDefault("redis.pool_size", 100)
	viper.SetDefault("redis.conn_max_idle_time", 5*time.Minute)

	// MinIO
	viper.SetDefault("minio.enabled", false)
	viper.SetDefault("minio.region", "us-east-1")
	viper.SetDefault("minio.bucket", "adalert-webhooks")

	// Webhook
	viper.SetDefault("webhook.max_body_bytes", 1<<20)
	viper.SetDefault("webhook.max_in_flight", 64)

	// Dispatch
	viper.SetDefault("dispatch.guard", "memory")
	viper.SetDefault("dispatch.dedup_window", 5*time.Minute)
	viper.SetDefault("dispatch.rate_limit", 10)
	viper.SetDefault("dispatch.rate_window", time.Minute)
	viper.SetDefault("dispatch.max_attempts", 2)
	viper.SetDefault("dispatch.retry_delay", time.Second)

	// Slack
	viper.SetDefault("slack.timeout", 10*time.Second)
	viper.SetDefault("slack.rate_per_second", 1)
	viper.SetDefault("slack.burst", 3)

	// Email
	viper.SetDefault("email.smtp.port", 587)

	// Outbound webhook
	viper.SetDefault("outbound_webhook.timeout", 10*time.Second)

	// Metrics
	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.path", "/metrics")
}

func validate(cfg *Config) error {
	// Validate Postgres
	if cfg.Postgres.Host == "" {
		return fmt.Errorf("postgres.host is required")
	}
	if cfg.Postgres.DBName == "" {
		return fmt.Errorf("postgres.dbname is required")
	}

	// Validate Webhook
	if cfg.Webhook.Meta.AppSecret == "" && cfg.Webhook.Google.AppSecret == "" {
		return fmt.Errorf("webhook.meta.app_secret or webhook.google.app_secret is required")
	}
	if cfg.Webhook.MaxBodyBytes <= 0 {
		return fmt.Errorf("webhook.max_body_bytes must be positive")
	}
	if cfg.Webhook.MaxInFlight <= 0 {
		return fmt.Errorf("webhook.max_in_flight must be positive")
	}

	// Validate Dispatch
	switch cfg.Dispatch.Guard {
	case "memory":
	case "redis":
		if !cfg.Redis.Enabled {
			return fmt.Errorf("dispatch.guard=redis requires redis.enabled")
		}
	default:
		return fmt.Errorf("dispatch.guard must be memory or redis, got %q", cfg.Dispatch.Guard)
	}

	// Validate Redis
	if cfg.Redis.Enabled {
		if cfg.Redis.Host == "" {
			return fmt.Errorf("redis.host is required")
		}
		if cfg.Redis.Port == 0 {
			return fmt.Errorf("redis.port is required")
		}
	}

	// Validate MinIO
	if cfg.MinIO.Enabled && cfg.MinIO.Endpoint == "" {
		return fmt.Errorf("minio.endpoint is required when minio.enabled")
	}

	return nil
}
