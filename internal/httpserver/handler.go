package httpserver

import (
	"context"

	accountPostgres "adalert-srv/internal/account/repository/postgre"
	"adalert-srv/internal/channel"
	emailChannel "adalert-srv/internal/channel/email"
	slackChannel "adalert-srv/internal/channel/slack"
	webhookChannel "adalert-srv/internal/channel/webhook"
	"adalert-srv/internal/dispatch"
	"adalert-srv/internal/dispatch/guard"
	dispatchUC "adalert-srv/internal/dispatch/usecase"
	integrationPostgres "adalert-srv/internal/integration/repository/postgre"
	"adalert-srv/internal/matcher"
	"adalert-srv/internal/middleware"
	"adalert-srv/internal/model"
	"adalert-srv/internal/normalizer"
	logPostgres "adalert-srv/internal/notificationlog/repository/postgre"
	rulePostgres "adalert-srv/internal/rule/repository/postgre"
	"adalert-srv/internal/webhook"
	webhookHTTP "adalert-srv/internal/webhook/delivery/http"
	webhookUC "adalert-srv/internal/webhook/usecase"
	pkgErrors "adalert-srv/pkg/errors"
	"adalert-srv/pkg/response"

	// Import this to execute the init function in docs.go which setups the Swagger docs.
	_ "adalert-srv/docs"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const guardKeyPrefix = "adalert:"

func (srv *HTTPServer) mapHandlers() error {
	mw := middleware.New(srv.l, srv.slack)

	srv.gin.Use(gin.Logger(), mw.Recovery())
	srv.gin.Use(middleware.CORS(middleware.DefaultCORSConfig(srv.corsOrigins)))

	srv.gin.NoRoute(func(c *gin.Context) {
		response.HttpError(c, pkgErrors.NewNotFoundHTTPError())
	})

	// Health check endpoints
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	// Swagger UI
	srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if srv.metricsCfg.Enabled {
		srv.gin.GET(srv.metricsCfg.Path, gin.WrapH(promhttp.Handler()))
	}

	// Repositories
	accountRepo := accountPostgres.New(srv.l, srv.db)
	ruleRepo := rulePostgres.New(srv.l, srv.db)
	integrationRepo := integrationPostgres.New(srv.l, srv.db)
	logRepo := logPostgres.New(srv.l, srv.db)

	// Channel senders
	senders := []channel.Sender{
		slackChannel.New(srv.slack),
		webhookChannel.New(webhookChannel.Config{
			SigningSecret: srv.outboundWebhookCfg.SigningSecret,
			Timeout:       srv.outboundWebhookCfg.Timeout,
		}),
	}
	if srv.mailer != nil {
		senders = append(senders, emailChannel.New(srv.mailer))
	} else {
		srv.l.Warnf(context.Background(), "internal.httpserver.mapHandlers: email provider not configured, email channel disabled")
	}

	// Dispatch
	dispatchUseCase := dispatchUC.New(
		srv.l,
		srv.newGuard(),
		integrationRepo,
		logRepo,
		channel.NewRegistry(senders...),
		dispatch.Options{
			DedupWindow: srv.dispatchCfg.DedupWindow,
			RateLimit:   srv.dispatchCfg.RateLimit,
			RateWindow:  srv.dispatchCfg.RateWindow,
			MaxAttempts: srv.dispatchCfg.MaxAttempts,
			RetryDelay:  srv.dispatchCfg.RetryDelay,
		},
	)

	// Webhook
	var archiveBucket string
	if srv.archive != nil {
		archiveBucket = srv.archiveBucket
	}
	srv.webhookUC = webhookUC.New(
		srv.l,
		normalizer.New(srv.l, accountRepo, normalizer.NewFieldDiffDetector()),
		ruleRepo,
		matcher.New(srv.l),
		dispatchUseCase,
		srv.archive,
		webhook.Options{
			Credentials: map[model.Platform]webhook.Credentials{
				model.PlatformMeta: {
					AppSecret:   srv.webhookCfg.Meta.AppSecret,
					VerifyToken: srv.webhookCfg.Meta.VerifyToken,
				},
				model.PlatformGoogle: {
					AppSecret:   srv.webhookCfg.Google.AppSecret,
					VerifyToken: srv.webhookCfg.Google.VerifyToken,
				},
			},
			MaxInFlight:   srv.webhookCfg.MaxInFlight,
			ArchiveBucket: archiveBucket,
		},
	)

	webhookHTTP.New(srv.l, srv.webhookUC, srv.webhookCfg.MaxBodyBytes).RegisterRoutes(srv.gin.Group(""), mw)

	return nil
}

func (srv *HTTPServer) newGuard() dispatch.Guard {
	if srv.dispatchCfg.Guard == "redis" {
		return guard.NewRedis(srv.redis, guardKeyPrefix)
	}
	srv.memGuard = guard.NewMemory()
	return srv.memGuard
}
