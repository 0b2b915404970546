package http

import (
	"adalert-srv/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the platform webhook routes.
// Platforms authenticate with the verify token and HMAC signature, not with middleware.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, mw middleware.Middleware) {
	wh := r.Group("/webhooks")
	{
		wh.GET("/:platform", h.VerifySubscription)
		wh.POST("/:platform", mw.MaxBodySize(h.maxBodyBytes), h.Receive)
	}
}
