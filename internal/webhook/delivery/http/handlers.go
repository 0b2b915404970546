package http

import (
	stdErrors "errors"
	"io"
	"net/http"

	"adalert-srv/internal/webhook"
	"adalert-srv/pkg/errors"
	"adalert-srv/pkg/response"
	"adalert-srv/pkg/signature"

	"github.com/gin-gonic/gin"
)

// VerifySubscription answers the platform subscription handshake.
// @Summary Verify webhook subscription
// @Description Echo hub.challenge when hub.verify_token matches the platform's configured token.
// @Tags Webhook
// @Produce plain
// @Param platform path string true "Ad platform" Enums(meta, google)
// @Param hub.mode query string false "Subscription mode, must be subscribe when present"
// @Param hub.verify_token query string true "Verify token"
// @Param hub.challenge query string true "Challenge to echo"
// @Success 200 {string} string "The challenge"
// @Failure 400 {object} response.Resp "Missing challenge"
// @Failure 403 {object} response.Resp "Verification failed"
// @Failure 404 {object} response.Resp "Unknown platform"
// @Router /webhooks/{platform} [GET]
func (h *Handler) VerifySubscription(c *gin.Context) {
	ctx := c.Request.Context()

	var req verifyReq
	if err := c.ShouldBindQuery(&req); err != nil {
		h.l.Warnf(ctx, "internal.webhook.delivery.http.VerifySubscription.ShouldBindQuery: %v", err)
		response.Error(c, errors.NewValidationError(http.StatusBadRequest, "query", err.Error()), nil)
		return
	}
	if err := req.validate(); err != nil {
		response.Error(c, err, nil)
		return
	}

	challenge, err := h.uc.VerifySubscription(ctx, req.toInput(c.Param("platform")))
	if err != nil {
		response.Error(c, h.mapError(err), nil)
		return
	}

	c.String(http.StatusOK, challenge)
}

// Receive accepts a change notification delivery.
// @Summary Receive webhook delivery
// @Description Verify the X-Hub-Signature-256 header, normalize the body into change events and process them in the background.
// @Tags Webhook
// @Accept json
// @Produce json
// @Param platform path string true "Ad platform" Enums(meta, google)
// @Param X-Hub-Signature-256 header string true "sha256=<hex HMAC of the raw body>"
// @Success 200 {object} response.Resp{data=deliverResp} "Accepted"
// @Failure 400 {object} response.Resp "Malformed or oversized payload"
// @Failure 401 {object} response.Resp "Invalid signature"
// @Failure 404 {object} response.Resp "Unknown platform"
// @Router /webhooks/{platform} [POST]
func (h *Handler) Receive(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stdErrors.As(err, &tooLarge) {
			h.l.Warnf(ctx, "internal.webhook.delivery.http.Receive: body exceeds %d bytes", tooLarge.Limit)
			response.Error(c, h.mapError(webhook.ErrBodyTooLarge), nil)
			return
		}
		h.l.Warnf(ctx, "internal.webhook.delivery.http.Receive.ReadAll: %v", err)
		response.Error(c, h.mapError(webhook.ErrMalformedPayload), nil)
		return
	}

	out, err := h.uc.Deliver(ctx, webhook.DeliverInput{
		Platform:  c.Param("platform"),
		Signature: c.GetHeader(signature.Header),
		Body:      body,
	})
	if err != nil {
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, newDeliverResp(out))
}
