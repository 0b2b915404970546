// Package signature implements the X-Hub-Signature-256 scheme used by ad
// platform webhooks: an HMAC-SHA256 of the raw request body, hex encoded and
// prefixed with "sha256=".
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	// Header is the request header carrying the signature.
	Header = "X-Hub-Signature-256"
	// Prefix precedes the hex digest in the header value.
	Prefix = "sha256="
)

// Sign returns the header value for body under secret.
func Sign(body []byte, secret string) string {
	return Prefix + hex.EncodeToString(digest(body, secret))
}

// Verify reports whether header is a valid signature of rawBody under secret.
// It fails closed: an empty header or secret never verifies.
func Verify(rawBody []byte, header, secret string) bool {
	if header == "" || secret == "" {
		return false
	}
	if !strings.HasPrefix(header, Prefix) {
		return false
	}

	got, err := hex.DecodeString(strings.TrimPrefix(header, Prefix))
	if err != nil || len(got) != sha256.Size {
		return false
	}

	return hmac.Equal(got, digest(rawBody, secret))
}

func digest(body []byte, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return mac.Sum(nil)
}
