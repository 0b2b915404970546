package minio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"adalert-srv/config"
	miniopkg "adalert-srv/pkg/minio"
)

const (
	// defaultConnectTimeout is the maximum time to wait for each connection attempt
	defaultConnectTimeout = 5 * time.Second
	// defaultMaxRetries is the default number of retry attempts
	defaultMaxRetries = 3
)

var (
	instance miniopkg.MinIO
	mu       sync.RWMutex
)

// Connect initializes the shared MinIO client and makes sure the archive bucket exists.
// It returns the existing client if already connected.
func Connect(ctx context.Context, cfg config.MinIOConfig) (miniopkg.MinIO, error) {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance, nil
	}

	fmt.Printf("[MinIO] Attempting to connect to %s (SSL: %v, Region: %s)...\n",
		cfg.Endpoint, cfg.UseSSL, cfg.Region)

	impl, err := miniopkg.NewMinIO(&miniopkg.Config{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		UseSSL:    cfg.UseSSL,
		Region:    cfg.Region,
		Bucket:    cfg.Bucket,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO implementation: %w", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, defaultConnectTimeout*defaultMaxRetries)
	defer cancel()

	if err := impl.ConnectWithRetry(connectCtx, defaultMaxRetries); err != nil {
		fmt.Printf("[MinIO] ERROR: Failed to verify connection: %v\n", err)
		return nil, fmt.Errorf("failed to connect to MinIO: %w", err)
	}

	if err := impl.EnsureBucket(connectCtx, cfg.Bucket); err != nil {
		fmt.Printf("[MinIO] ERROR: Failed to ensure bucket %s: %v\n", cfg.Bucket, err)
		return nil, fmt.Errorf("failed to ensure MinIO bucket: %w", err)
	}

	instance = impl
	fmt.Printf("[MinIO] Successfully connected to %s, bucket %s\n", cfg.Endpoint, cfg.Bucket)
	return instance, nil
}

// HealthCheck performs a health check on the shared MinIO client.
func HealthCheck(ctx context.Context) error {
	mu.RLock()
	defer mu.RUnlock()

	if instance == nil {
		return fmt.Errorf("MinIO client not initialized")
	}
	return instance.HealthCheck(ctx)
}

// Disconnect closes the MinIO connection and resets the shared client.
func Disconnect() error {
	mu.Lock()
	defer mu.Unlock()

	if instance == nil {
		return nil
	}
	err := instance.Close()
	instance = nil
	if err != nil {
		return fmt.Errorf("failed to close MinIO connection: %w", err)
	}
	fmt.Printf("[MinIO] Disconnected successfully\n")
	return nil
}
