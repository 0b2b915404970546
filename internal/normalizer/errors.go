package normalizer

import "errors"

var (
	ErrMalformedPayload = errors.New("malformed webhook payload")
)
