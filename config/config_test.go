package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Postgres: PostgresConfig{Host: "localhost", DBName: "adalert"},
		Webhook: WebhookConfig{
			Meta:         PlatformCredentials{AppSecret: "secret", VerifyToken: "token"},
			MaxBodyBytes: 1 << 20,
			MaxInFlight:  64,
		},
		Dispatch: DispatchConfig{Guard: "memory"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing postgres host", mutate: func(c *Config) { c.Postgres.Host = "" }, wantErr: true},
		{name: "no platform secret", mutate: func(c *Config) { c.Webhook.Meta.AppSecret = "" }, wantErr: true},
		{name: "google only", mutate: func(c *Config) {
			c.Webhook.Meta.AppSecret = ""
			c.Webhook.Google.AppSecret = "g"
		}},
		{name: "zero body cap", mutate: func(c *Config) { c.Webhook.MaxBodyBytes = 0 }, wantErr: true},
		{name: "zero in flight", mutate: func(c *Config) { c.Webhook.MaxInFlight = 0 }, wantErr: true},
		{name: "unknown guard", mutate: func(c *Config) { c.Dispatch.Guard = "etcd" }, wantErr: true},
		{name: "redis guard without redis", mutate: func(c *Config) { c.Dispatch.Guard = "redis" }, wantErr: true},
		{name: "redis guard", mutate: func(c *Config) {
			c.Dispatch.Guard = "redis"
			c.Redis = RedisConfig{Enabled: true, Host: "localhost", Port: 6379}
		}},
		{name: "minio without endpoint", mutate: func(c *Config) { c.MinIO.Enabled = true }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
