package httpserver

import (
	"context"
	"net/http"
	"time"

	"adalert-srv/pkg/errors"
	"adalert-srv/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	serviceName    = "adalert-srv"
	serviceVersion = "1.0.0"
	checkTimeout   = 2 * time.Second

	statusUp       = "up"
	statusDown     = "down"
	statusDisabled = "disabled"
)

// dependencyStatus pings every configured dependency.
func (srv *HTTPServer) dependencyStatus(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	status := map[string]string{
		"postgres": statusUp,
		"redis":    statusDisabled,
		"minio":    statusDisabled,
	}
	healthy := true

	if err := srv.db.PingContext(ctx); err != nil {
		srv.l.Warnf(ctx, "internal.httpserver.dependencyStatus.postgres: %v", err)
		status["postgres"] = statusDown
		healthy = false
	}

	if srv.redis != nil {
		status["redis"] = statusUp
		if err := srv.redis.Ping(ctx); err != nil {
			srv.l.Warnf(ctx, "internal.httpserver.dependencyStatus.redis: %v", err)
			status["redis"] = statusDown
			healthy = false
		}
	}

	if srv.archive != nil {
		status["minio"] = statusUp
		// The archive is best effort; a failing bucket never makes the service unready.
		if err := srv.archive.HealthCheck(ctx); err != nil {
			srv.l.Warnf(ctx, "internal.httpserver.dependencyStatus.minio: %v", err)
			status["minio"] = statusDown
		}
	}

	return status, healthy
}

// healthCheck handles health check requests
// @Summary Health Check
// @Description Report the status of the service and its dependencies
// @Tags Health
// @Produce json
// @Success 200 {object} response.Resp "Service health"
// @Router /health [get]
func (srv *HTTPServer) healthCheck(c *gin.Context) {
	deps, healthy := srv.dependencyStatus(c.Request.Context())

	status := "healthy"
	if !healthy {
		status = "degraded"
	}

	response.OK(c, gin.H{
		"status":       status,
		"version":      serviceVersion,
		"service":      serviceName,
		"environment":  srv.environment,
		"dependencies": deps,
	})
}

// readyCheck handles readiness check requests
// @Summary Readiness Check
// @Description Check if the service is ready to accept webhooks
// @Tags Health
// @Produce json
// @Success 200 {object} response.Resp "Service is ready"
// @Failure 503 {object} response.Resp "Service is not ready"
// @Router /ready [get]
func (srv *HTTPServer) readyCheck(c *gin.Context) {
	deps, healthy := srv.dependencyStatus(c.Request.Context())
	if !healthy {
		response.HttpError(c, errors.NewHTTPError(http.StatusServiceUnavailable, "Dependency not available", http.StatusServiceUnavailable))
		return
	}

	response.OK(c, gin.H{
		"status":       "ready",
		"version":      serviceVersion,
		"service":      serviceName,
		"dependencies": deps,
	})
}

// liveCheck handles liveness check requests
// @Summary Liveness Check
// @Description Check if the process is alive
// @Tags Health
// @Produce json
// @Success 200 {object} response.Resp "Service is alive"
// @Router /live [get]
func (srv *HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "alive",
		"version": serviceVersion,
		"service": serviceName,
	})
}
