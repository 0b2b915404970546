package minio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
)

const (
	maxBackoff          = 10 * time.Second
	maxMetadataValueLen = 1024
)

// Connect probes the configured bucket rather than listing all buckets, so
// credentials scoped to the archive bucket are enough.
func (m *implMinIO) Connect(ctx context.Context) error {
	_, err := m.minioClient.BucketExists(ctx, m.config.Bucket)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = err == nil
	if err != nil {
		return classifyError(err, "connect")
	}
	return nil
}

func (m *implMinIO) ConnectWithRetry(ctx context.Context, attempts int) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("connect: %w (last error: %v)", ctx.Err(), err)
			case <-time.After(backoff(i)):
			}
		}
		if err = m.Connect(ctx); err == nil {
			return nil
		}
	}
	return fmt.Errorf("connect: gave up after %d attempts: %w", attempts, err)
}

// backoff returns 1s, 2s, 4s, ... capped at maxBackoff, for retry n >= 1.
func backoff(n int) time.Duration {
	d := time.Second << uint(n-1)
	if d <= 0 || d > maxBackoff {
		return maxBackoff
	}
	return d
}

func (m *implMinIO) HealthCheck(ctx context.Context) error {
	m.mu.RLock()
	connected := m.connected
	m.mu.RUnlock()

	if !connected {
		return NewConnectionError(errors.New("not connected"))
	}
	if _, err := m.minioClient.BucketExists(ctx, m.config.Bucket); err != nil {
		return classifyError(err, "health_check")
	}
	return nil
}

// Close marks the client disconnected. minio-go owns its connection pool.
func (m *implMinIO) Close() error {
	m.mu.Lock()
	m.connected = false
	m.mu.Unlock()
	return nil
}

func (m *implMinIO) EnsureBucket(ctx context.Context, bucketName string) error {
	exists, err := m.BucketExists(ctx, bucketName)
	if err != nil || exists {
		return err
	}

	err = m.minioClient.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: m.config.Region})
	if err == nil {
		return nil
	}
	var resp minio.ErrorResponse
	if errors.As(err, &resp) && (resp.Code == "BucketAlreadyOwnedByYou" || resp.Code == "BucketAlreadyExists") {
		return nil
	}
	return classifyError(err, "create_bucket")
}

func (m *implMinIO) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	if err := validateBucketName(bucketName); err != nil {
		return false, err
	}
	exists, err := m.minioClient.BucketExists(ctx, bucketName)
	if err != nil {
		return false, classifyError(err, "bucket_exists")
	}
	return exists, nil
}

func (m *implMinIO) UploadFile(ctx context.Context, req *UploadRequest) (*FileInfo, error) {
	if err := validateUploadRequest(req); err != nil {
		return nil, err
	}

	metadata := sanitizeMetadata(req.Metadata)
	info, err := m.minioClient.PutObject(ctx, req.BucketName, req.ObjectName, req.Reader, req.Size, minio.PutObjectOptions{
		ContentType:  req.ContentType,
		UserMetadata: metadata,
	})
	if err != nil {
		return nil, classifyError(err, "upload_file")
	}

	lastModified := info.LastModified
	if lastModified.IsZero() {
		lastModified = m.now()
	}
	return &FileInfo{
		BucketName:   info.Bucket,
		ObjectName:   info.Key,
		Size:         info.Size,
		ContentType:  req.ContentType,
		ETag:         info.ETag,
		LastModified: lastModified,
		Metadata:     metadata,
	}, nil
}

// sanitizeMetadata lowercases keys, turns spaces into underscores, drops
// empty values and caps value length. S3 user metadata travels as headers.
func sanitizeMetadata(metadata map[string]string) map[string]string {
	out := make(map[string]string, len(metadata))
	for k, v := range metadata {
		k = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(k), " ", "_"))
		if k == "" || v == "" {
			continue
		}
		if len(v) > maxMetadataValueLen {
			v = v[:maxMetadataValueLen]
		}
		out[k] = v
	}
	return out
}
