package redis

import (
	"context"
	"fmt"
	"sync"

	"adalert-srv/config"
	pkgRedis "adalert-srv/pkg/redis"
)

var (
	instance pkgRedis.IRedis
	mu       sync.RWMutex
)

// Connect initializes the shared Redis client. It returns the existing client if already connected.
func Connect(ctx context.Context, cfg config.RedisConfig) (pkgRedis.IRedis, error) {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance, nil
	}

	fmt.Printf("[Redis] Attempting to connect to %s:%d (TLS: %v)...\n", cfg.Host, cfg.Port, cfg.UseTLS)

	client, err := pkgRedis.New(pkgRedis.RedisConfig{
		Host:            cfg.Host,
		Port:            cfg.Port,
		Password:        cfg.Password,
		DB:              cfg.DB,
		UseTLS:          cfg.UseTLS,
		MaxRetries:      cfg.MaxRetries,
		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.MinIdleConns,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
	})
	if err != nil {
		fmt.Printf("[Redis] ERROR: Failed to connect: %v\n", err)
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	instance = client
	fmt.Printf("[Redis] Successfully connected to %s:%d\n", cfg.Host, cfg.Port)
	return instance, nil
}

// HealthCheck pings the shared client.
func HealthCheck(ctx context.Context) error {
	mu.RLock()
	defer mu.RUnlock()

	if instance == nil {
		return fmt.Errorf("Redis client not initialized")
	}
	return instance.Ping(ctx)
}

// IsConnected checks if the Redis client instance exists.
func IsConnected() bool {
	mu.RLock()
	defer mu.RUnlock()

	return instance != nil
}

// Disconnect closes the Redis connection and resets the shared client.
func Disconnect() error {
	mu.Lock()
	defer mu.Unlock()

	if instance == nil {
		return nil
	}
	err := instance.Close()
	instance = nil
	if err != nil {
		return fmt.Errorf("failed to close Redis connection: %w", err)
	}
	fmt.Printf("[Redis] Disconnected successfully\n")
	return nil
}
