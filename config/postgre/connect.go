package postgre

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"sync"
	"time"

	"adalert-srv/config"

	_ "github.com/lib/pq"
)

const (
	connectTimeout  = 5 * time.Second
	applicationName = "adalert-srv"
)

var (
	instance *sql.DB
	mu       sync.Mutex
)

// Connect opens the shared pool and pings it. A failed attempt leaves no
// state behind, so Connect can simply be called again.
func Connect(ctx context.Context, cfg config.PostgresConfig) (*sql.DB, error) {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance, nil
	}

	fmt.Printf("[PostgreSQL] Connecting to %s:%d/%s (sslmode=%s)...\n", cfg.Host, cfg.Port, cfg.DBName, sslMode(cfg))

	db, err := sql.Open("postgres", dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("open PostgreSQL: %w", err)
	}
	configurePool(db, cfg)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		fmt.Printf("[PostgreSQL] ERROR: ping failed: %v\n", err)
		return nil, fmt.Errorf("ping PostgreSQL: %w", err)
	}

	instance = db
	fmt.Printf("[PostgreSQL] Connected\n")
	return instance, nil
}

// Disconnect closes db and forgets the shared pool.
func Disconnect(_ context.Context, db *sql.DB) error {
	mu.Lock()
	defer mu.Unlock()

	if db == nil {
		return nil
	}
	if db == instance {
		instance = nil
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("close PostgreSQL: %w", err)
	}
	fmt.Printf("[PostgreSQL] Disconnected\n")
	return nil
}

// dsn builds a postgres:// URL so credentials with spaces or quotes need no escaping rules.
func dsn(cfg config.PostgresConfig) string {
	q := url.Values{}
	q.Set("sslmode", sslMode(cfg))
	q.Set("application_name", applicationName)
	q.Set("connect_timeout", fmt.Sprint(int(connectTimeout.Seconds())))

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     "/" + cfg.DBName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func sslMode(cfg config.PostgresConfig) string {
	if cfg.SSLMode == "" {
		return "disable"
	}
	return cfg.SSLMode
}

func configurePool(db *sql.DB, cfg config.PostgresConfig) {
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)
}
