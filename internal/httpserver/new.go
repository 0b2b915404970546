package httpserver

import (
	"database/sql"
	"errors"
	"time"

	"adalert-srv/config"
	"adalert-srv/internal/dispatch/guard"
	"adalert-srv/internal/webhook"
	pkgEmail "adalert-srv/pkg/email"
	pkgLog "adalert-srv/pkg/log"
	pkgMinio "adalert-srv/pkg/minio"
	pkgRedis "adalert-srv/pkg/redis"
	pkgSlack "adalert-srv/pkg/slack"

	"github.com/gin-gonic/gin"
)

// HTTPServer represents the HTTP server with all dependencies.
// New() only wires dependencies and validates them.
// Run() (in httpserver.go) is responsible for serving and graceful shutdown.
type HTTPServer struct {
	// Server configuration
	gin             *gin.Engine
	l               pkgLog.Logger
	host            string
	port            int
	environment     string
	shutdownTimeout time.Duration
	corsOrigins     []string

	// Pipeline configuration
	webhookCfg         config.WebhookConfig
	dispatchCfg        config.DispatchConfig
	outboundWebhookCfg config.OutboundWebhookConfig
	metricsCfg         config.MetricsConfig
	archiveBucket      string

	// External services
	db      *sql.DB
	redis   pkgRedis.IRedis
	archive pkgMinio.MinIO
	slack   pkgSlack.ISlack
	mailer  pkgEmail.Mailer

	// Wired in mapHandlers
	webhookUC webhook.UseCase
	memGuard  *guard.Memory
}

// Config is the constructor input for HTTPServer.
// Redis, Archive and Mailer are optional.
type Config struct {
	// Server configuration
	Host            string
	Port            int
	Mode            string
	Environment     string
	ShutdownTimeout time.Duration
	CORSOrigins     []string

	// Pipeline configuration
	Webhook         config.WebhookConfig
	Dispatch        config.DispatchConfig
	OutboundWebhook config.OutboundWebhookConfig
	Metrics         config.MetricsConfig
	ArchiveBucket   string

	// External services
	DB      *sql.DB
	Redis   pkgRedis.IRedis
	Archive pkgMinio.MinIO
	Slack   pkgSlack.ISlack
	Mailer  pkgEmail.Mailer
}

// New creates a new HTTPServer instance with the provided configuration.
// Note: This does NOT start any goroutines. Use (*HTTPServer).Run() to start the service.
func New(l pkgLog.Logger, cfg Config) (*HTTPServer, error) {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	srv := &HTTPServer{
		// Server configuration
		gin:             gin.New(),
		l:               l,
		host:            cfg.Host,
		port:            cfg.Port,
		environment:     cfg.Environment,
		shutdownTimeout: cfg.ShutdownTimeout,
		corsOrigins:     cfg.CORSOrigins,

		// Pipeline configuration
		webhookCfg:         cfg.Webhook,
		dispatchCfg:        cfg.Dispatch,
		outboundWebhookCfg: cfg.OutboundWebhook,
		metricsCfg:         cfg.Metrics,
		archiveBucket:      cfg.ArchiveBucket,

		// External services
		db:      cfg.DB,
		redis:   cfg.Redis,
		archive: cfg.Archive,
		slack:   cfg.Slack,
		mailer:  cfg.Mailer,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	return srv, nil
}

// validate ensures all required dependencies are provided.
func (s *HTTPServer) validate() error {
	if s.l == nil {
		return errors.New("logger is required")
	}
	if s.port == 0 {
		return errors.New("port is required")
	}
	if s.db == nil {
		return errors.New("PostgreSQL client is required")
	}
	if s.slack == nil {
		return errors.New("Slack client is required")
	}
	if s.dispatchCfg.Guard == "redis" && s.redis == nil {
		return errors.New("Redis client is required for the redis dispatch guard")
	}

	return nil
}
