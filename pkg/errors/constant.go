package errors

import "net/http"

const (
	StatusNotFound  = http.StatusNotFound
	MessageNotFound = "Not found"
)
