package main

import (
	"context"
	"fmt"

	"adalert-srv/config"
	"adalert-srv/config/minio"
	"adalert-srv/config/postgre"
	"adalert-srv/config/redis"
	"adalert-srv/internal/httpserver"
	pkgEmail "adalert-srv/pkg/email"
	"adalert-srv/pkg/log"
	pkgMinio "adalert-srv/pkg/minio"
	pkgRedis "adalert-srv/pkg/redis"
	pkgSlack "adalert-srv/pkg/slack"
)

// @title AdAlert Webhook Service
// @description Receives ad platform change webhooks, matches them against alert rules and dispatches notifications.
// @version 1
// @host localhost:8080
// @schemes http
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// Initialize logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
		Service:      "adalert-srv",
	})

	ctx := context.Background()

	// Initialize PostgreSQL
	postgresDB, err := postgre.Connect(ctx, cfg.Postgres)
	if err != nil {
		logger.Error(ctx, "Failed to connect to PostgreSQL: ", err)
		return
	}
	defer postgre.Disconnect(ctx, postgresDB)
	logger.Infof(ctx, "PostgreSQL connected successfully to %s:%d/%s", cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.DBName)

	// Initialize Redis (optional, required by the redis dispatch guard)
	var redisClient pkgRedis.IRedis
	if cfg.Redis.Enabled {
		redisClient, err = redis.Connect(ctx, cfg.Redis)
		if err != nil {
			logger.Error(ctx, "Failed to connect to Redis: ", err)
			return
		}
		defer redis.Disconnect()
		logger.Infof(ctx, "Redis connected successfully to %s:%d", cfg.Redis.Host, cfg.Redis.Port)
	}

	// Initialize MinIO (optional payload archive)
	var archive pkgMinio.MinIO
	if cfg.MinIO.Enabled {
		archive, err = minio.Connect(ctx, cfg.MinIO)
		if err != nil {
			// The archive is best effort; run without it.
			logger.Warnf(ctx, "MinIO unavailable, payload archive disabled: %v", err)
		} else {
			defer minio.Disconnect()
			logger.Infof(ctx, "MinIO connected successfully to %s", cfg.MinIO.Endpoint)
		}
	}

	// Initialize Slack
	slackClient := pkgSlack.New(logger, pkgSlack.Config{
		Timeout:       cfg.Slack.Timeout,
		RatePerSecond: cfg.Slack.RatePerSecond,
		Burst:         cfg.Slack.Burst,
		OpsWebhookURL: cfg.Slack.OpsWebhookURL,
		RetryCount:    pkgSlack.DefaultConfig().RetryCount,
	})
	defer slackClient.Close()

	// Initialize email (optional)
	var mailer pkgEmail.Mailer
	if cfg.Email.Provider != "" {
		mailer, err = pkgEmail.New(ctx, pkgEmail.Config{
			Provider: cfg.Email.Provider,
			From:     cfg.Email.From,
			SMTP: pkgEmail.SMTPConfig{
				Host:     cfg.Email.SMTP.Host,
				Port:     cfg.Email.SMTP.Port,
				Username: cfg.Email.SMTP.Username,
				Password: cfg.Email.SMTP.Password,
			},
			Resend: pkgEmail.ResendConfig{APIKey: cfg.Email.Resend.APIKey},
			SES:    pkgEmail.SESConfig{Region: cfg.Email.SES.Region},
		})
		if err != nil {
			logger.Error(ctx, "Failed to initialize email provider: ", err)
			return
		}
		logger.Infof(ctx, "Email provider %s initialized", mailer.Provider())
	}

	// Initialize HTTP server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		// Server Configuration
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		Mode:            cfg.Server.Mode,
		Environment:     cfg.Environment.Name,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		CORSOrigins:     cfg.Server.CORSOrigins,

		// Pipeline Configuration
		Webhook:         cfg.Webhook,
		Dispatch:        cfg.Dispatch,
		OutboundWebhook: cfg.OutboundWebhook,
		Metrics:         cfg.Metrics,
		ArchiveBucket:   cfg.MinIO.Bucket,

		// External services
		DB:      postgresDB,
		Redis:   redisClient,
		Archive: archive,
		Slack:   slackClient,
		Mailer:  mailer,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	if err := httpServer.Run(); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}
}
