package redis

import (
	"time"

	goredis "github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Host            string
	Port            int
	Password        string
	DB              int
	UseTLS          bool
	MaxRetries      int
	PoolSize        int
	MinIdleConns    int
	ConnMaxIdleTime time.Duration
}

type redisImpl struct {
	client *goredis.Client
}
