package webhook

import "adalert-srv/internal/model"

// ModeSubscribe is the only hub.mode the handshake accepts.
const ModeSubscribe = "subscribe"

// Credentials are the shared secrets of one platform.
type Credentials struct {
	AppSecret   string
	VerifyToken string
}

// Options configures the webhook use case.
type Options struct {
	Credentials map[model.Platform]Credentials
	// MaxInFlight bounds the number of events processed at once across deliveries.
	MaxInFlight int
	// ArchiveBucket receives raw verified bodies when an archive client is configured.
	ArchiveBucket string
}

type VerifyInput struct {
	Platform  string
	Mode      string
	Token     string
	Challenge string
}

type DeliverInput struct {
	Platform  string
	Signature string
	Body      []byte
}

type DeliverOutput struct {
	Received int
}
