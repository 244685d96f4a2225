// Package redis wraps [github.com/redis/go-redis/v9] with connection
// retry during startup, a health check compatible with pkg/health, and a
// graceful shutdown hook. Both redis:// and rediss:// (TLS) URL schemes
// are supported.
//
//	client, err := redis.Open(ctx, cfg.RedisURL,
//		redis.WithPoolSize(20),
//		redis.WithRetry(5, 3*time.Second),
//	)
package redis
