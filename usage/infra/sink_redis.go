package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"contact-converter/usage/domain"

	"github.com/redis/go-redis/v9"
)

// RedisUsageSink exporta cada incremento já contabilizado para hashes no Redis:
//
//	<prefix>:total            campo = operação
//	<prefix>:minute:YYYYMMDDHHMM  campo = operação (com TTL)
//	<prefix>:route            campo = "METHOD /template:operação"
//
// Os contadores em memória nunca são relidos daqui.
type RedisUsageSink struct {
	rdb *redis.Client

	prefix string
	// ttl aplica apenas nas chaves de série temporal.
	// total é cumulativo e não expira.
	ttl time.Duration

	bucket string // "minute" (padrão) ou "none"
}

type RedisSinkOption func(*RedisUsageSink)

func WithSinkPrefix(prefix string) RedisSinkOption {
	return func(s *RedisUsageSink) {
		s.prefix = strings.Trim(prefix, ":")
	}
}

func WithSinkTTL(d time.Duration) RedisSinkOption {
	return func(s *RedisUsageSink) { s.ttl = d }
}

func WithSinkBucket(bucket string) RedisSinkOption {
	return func(s *RedisUsageSink) { s.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

func NewRedisUsageSink(rdb *redis.Client, opts ...RedisSinkOption) *RedisUsageSink {
	s := &RedisUsageSink{
		rdb:    rdb,
		prefix: "tempconv:usage",
		ttl:    24 * time.Hour,
		bucket: "minute",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisUsageSink) Publish(ctx context.Context, ev domain.UsageEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}
	if !ev.Op.Valid() {
		return fmt.Errorf("publish: %w: %q", domain.ErrUnknownOperation, string(ev.Op))
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	field := string(ev.Op)

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, s.prefix+":total", field, 1)

	if s.bucket == "minute" {
		bucketKey := fmt.Sprintf("%s:minute:%s", s.prefix, at.UTC().Format("200601021504"))
		pipe.HIncrBy(ctx, bucketKey, field, 1)
		if s.ttl > 0 {
			pipe.Expire(ctx, bucketKey, s.ttl)
		}
	}

	route := strings.TrimSpace(strings.TrimSpace(ev.Method) + " " + strings.TrimSpace(ev.Path))
	if route != "" {
		pipe.HIncrBy(ctx, s.prefix+":route", route+":"+field, 1)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish usage event: %w", err)
	}
	return nil
}
