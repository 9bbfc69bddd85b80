package config

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	RDB     *redis.Client
	redisMu sync.Mutex
)

// ConnectRedis initializes the shared Redis client used for the revoked
// token store and rate limiting. The server still boots when Redis is
// unreachable; dependents degrade to fail-open behavior.
func ConnectRedis(env Env) *redis.Client {
	redisMu.Lock()
	defer redisMu.Unlock()

	if RDB != nil {
		return RDB
	}

	client := redis.NewClient(&redis.Options{
		Addr:     env.RedisAddr,
		Password: env.RedisPass,
		DB:       env.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("warning: redis unreachable at %s: %v", env.RedisAddr, err)
	} else {
		log.Println("connected to Redis")
	}

	RDB = client
	return RDB
}

func CloseRedis() {
	redisMu.Lock()
	defer redisMu.Unlock()

	if RDB != nil {
		_ = RDB.Close()
		RDB = nil
	}
}
