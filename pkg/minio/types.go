package minio

import (
	"io"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
)

// Config is the connection configuration for a MinIO or S3 compatible endpoint.
// Endpoint may be host, host:port or a URL; see validateConfig.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string
	Bucket    string
}

// UploadRequest describes an object to store.
type UploadRequest struct {
	BucketName  string
	ObjectName  string
	Reader      io.Reader
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// FileInfo is the stored object's metadata.
type FileInfo struct {
	BucketName   string
	ObjectName   string
	Size         int64
	ContentType  string
	ETag         string
	LastModified time.Time
	Metadata     map[string]string
}

type implMinIO struct {
	minioClient *minio.Client
	config      *Config
	now         func() time.Time

	mu        sync.RWMutex
	connected bool
}
