package lock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultLockTTL   = 15 * time.Second
	defaultRetryWait = 25 * time.Millisecond
)

// releaseScript borra la clave solo si todavía pertenece al token que la tomó.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisLocker locks distribuidos (SET NX PX + borrado condicionado) para varias instancias de la API.
type RedisLocker struct {
	client    *redis.Client
	prefix    string
	ttl       time.Duration
	retryWait time.Duration
}

// NewRedisLocker construye el locker. prefix se antepone a cada clave (ej. "almoxarifado:lock:").
func NewRedisLocker(client *redis.Client, prefix string) *RedisLocker {
	return &RedisLocker{client: client, prefix: prefix, ttl: defaultLockTTL, retryWait: defaultRetryWait}
}

// WithTTL cambia el tiempo máximo de retención de cada clave.
func (l *RedisLocker) WithTTL(ttl time.Duration) *RedisLocker {
	l.ttl = ttl
	return l
}

// Acquire toma todas las claves en orden; reintenta hasta que el contexto expire.
func (l *RedisLocker) Acquire(ctx context.Context, keys ...string) (func(), error) {
	token := uuid.NewString()
	keys = normalizeKeys(keys)
	held := make([]string, 0, len(keys))
	release := func() {
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		for i := len(held) - 1; i >= 0; i-- {
			_ = releaseScript.Run(rctx, l.client, []string{held[i]}, token).Err()
		}
	}
	for _, k := range keys {
		key := l.prefix + k
		if err := l.acquireOne(ctx, key, token); err != nil {
			release()
			return nil, err
		}
		held = append(held, key)
	}
	return release, nil
}

func (l *RedisLocker) acquireOne(ctx context.Context, key, token string) error {
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if ok {
			return nil
		}
		t := time.NewTimer(l.retryWait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}
