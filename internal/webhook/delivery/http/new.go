package http

import (
	"adalert-srv/internal/webhook"
	pkgLog "adalert-srv/pkg/log"
)

type Handler struct {
	l            pkgLog.Logger
	uc           webhook.UseCase
	maxBodyBytes int64
}

func New(l pkgLog.Logger, uc webhook.UseCase, maxBodyBytes int64) *Handler {
	return &Handler{
		l:            l,
		uc:           uc,
		maxBodyBytes: maxBodyBytes,
	}
}
