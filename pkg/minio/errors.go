package minio

import (
	"errors"
	"fmt"

	"github.com/minio/minio-go/v7"
)

// Error codes carried by StorageError.
const (
	ErrCodeConnection     = "CONNECTION_ERROR"
	ErrCodeBucketNotFound = "BUCKET_NOT_FOUND"
	ErrCodePermission     = "PERMISSION_DENIED"
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeUnavailable    = "UNAVAILABLE"
	ErrCodeRejected       = "REJECTED"
)

// StorageError is a classified MinIO failure.
type StorageError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Operation string `json:"operation"`
	Cause     error  `json:"-"`
}

func (e *StorageError) Error() string {
	msg := e.Message
	if e.Operation != "" {
		msg = e.Operation + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// ErrorCode returns the StorageError code found in err's chain, or "".
func ErrorCode(err error) string {
	var se *StorageError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

func NewConnectionError(err error) *StorageError {
	return &StorageError{Code: ErrCodeConnection, Message: "storage connection failed", Cause: err}
}

func NewBucketNotFoundError(bucketName string) *StorageError {
	return &StorageError{Code: ErrCodeBucketNotFound, Message: "bucket not found: " + bucketName}
}

func NewInvalidInputError(message string) *StorageError {
	return &StorageError{Code: ErrCodeInvalidInput, Message: message}
}

// classifyError maps a minio-go error to a StorageError. It must only be
// called with a non-nil err.
func classifyError(err error, operation string) error {
	var resp minio.ErrorResponse
	if !errors.As(err, &resp) {
		se := NewConnectionError(err)
		se.Operation = operation
		return se
	}

	if resp.Code == "NoSuchBucket" {
		se := NewBucketNotFoundError(resp.BucketName)
		se.Operation, se.Cause = operation, err
		return se
	}

	se := &StorageError{Operation: operation, Message: resp.Code, Cause: err}
	switch {
	case resp.Code == "AccessDenied" || resp.Code == "InvalidAccessKeyId" || resp.Code == "SignatureDoesNotMatch":
		se.Code = ErrCodePermission
	case resp.StatusCode == 503 || resp.Code == "SlowDown" || resp.Code == "ServiceUnavailable":
		se.Code = ErrCodeUnavailable
	default:
		se.Code = ErrCodeRejected
	}
	return se
}
