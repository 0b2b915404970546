package errors

import "net/http"

// HTTPError is an error with a client-facing code and message. StatusCode is
// the HTTP status; Code is echoed as error_code in the response body.
type HTTPError struct {
	Code       int
	Message    string
	StatusCode int
}

// NewHTTPError returns a new HTTPError with the given code, message, and status code.
// If statusCode is 0, it defaults to http.StatusBadRequest.
func NewHTTPError(code int, message string, statusCode int) *HTTPError {
	if statusCode == 0 {
		statusCode = http.StatusBadRequest
	}
	return &HTTPError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewNotFoundHTTPError is returned for routes the server does not serve.
func NewNotFoundHTTPError() *HTTPError {
	return &HTTPError{
		Code:       StatusNotFound,
		Message:    MessageNotFound,
		StatusCode: StatusNotFound,
	}
}

// Error returns the error message.
func (e *HTTPError) Error() string {
	return e.Message
}
