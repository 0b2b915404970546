package minio

import (
	"context"
	"net/http"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Archive traffic is a trickle of small objects to a single host.
const (
	maxIdleConnsPerHost = 8
	idleConnTimeout     = 90 * time.Second
)

// MinIO is the object storage client used for the payload archive.
type MinIO interface {
	// Connect checks that the configured bucket is reachable with the configured credentials.
	Connect(ctx context.Context) error
	// ConnectWithRetry calls Connect up to attempts times with capped exponential backoff.
	ConnectWithRetry(ctx context.Context, attempts int) error
	HealthCheck(ctx context.Context) error
	Close() error
	// EnsureBucket creates bucketName when missing. Losing a creation race is not an error.
	EnsureBucket(ctx context.Context, bucketName string) error
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	UploadFile(ctx context.Context, req *UploadRequest) (*FileInfo, error)
}

// NewMinIO creates a client without contacting the server.
func NewMinIO(cfg *Config) (MinIO, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConnsPerHost: maxIdleConnsPerHost,
			IdleConnTimeout:     idleConnTimeout,
			// Payloads are JSON; let the transport negotiate gzip.
			DisableCompression: false,
		},
	})
	if err != nil {
		return nil, NewConnectionError(err)
	}

	return &implMinIO{minioClient: client, config: cfg, now: time.Now}, nil
}
