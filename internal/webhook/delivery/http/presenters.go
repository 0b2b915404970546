package http

import (
	"net/http"

	"adalert-srv/internal/webhook"
	"adalert-srv/pkg/errors"
)

// maxQueryValueLen caps handshake values; platforms send short numeric challenges.
const maxQueryValueLen = 512

// --- Request DTOs ---

type verifyReq struct {
	Mode      string `form:"hub.mode"`
	Token     string `form:"hub.verify_token"`
	Challenge string `form:"hub.challenge"`
}

func (r verifyReq) validate() error {
	return errors.NewValidationErrorCollector().
		Check(len(r.Mode) <= maxQueryValueLen, http.StatusBadRequest, "hub.mode", "is too long").
		Check(len(r.Token) <= maxQueryValueLen, http.StatusBadRequest, "hub.verify_token", "is too long").
		Check(len(r.Challenge) <= maxQueryValueLen, http.StatusBadRequest, "hub.challenge", "is too long").
		Err()
}

func (r verifyReq) toInput(platform string) webhook.VerifyInput {
	return webhook.VerifyInput{
		Platform:  platform,
		Mode:      r.Mode,
		Token:     r.Token,
		Challenge: r.Challenge,
	}
}

// --- Response DTOs ---

type deliverResp struct {
	Received int `json:"received"`
}

func newDeliverResp(out webhook.DeliverOutput) deliverResp {
	return deliverResp{Received: out.Received}
}
