// Package redis implements cross-process locking on top of Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrLockTimeout is returned when a lock could not be acquired within MaxWait.
var ErrLockTimeout = errors.New("redis lock: timed out waiting for lock")

// releaseScript deletes the key only while it still holds our token, so an
// expired lock that someone else has since taken is left alone.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// refreshScript extends the key's expiry only while it still holds our token.
var refreshScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// Config holds lock tuning.
type Config struct {
	// KeyPrefix namespaces lock keys.
	KeyPrefix string

	// TTL bounds how long a crashed holder can block others. A live holder
	// extends it every TTL/3 until it unlocks.
	TTL time.Duration

	// RetryInterval is the pause between acquisition attempts.
	RetryInterval time.Duration

	// MaxWait caps the time spent waiting for a lock. Zero waits until ctx is done.
	MaxWait time.Duration
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		KeyPrefix:     "weighttogo:lock:achievements:",
		TTL:           10 * time.Second,
		RetryInterval: 50 * time.Millisecond,
		MaxWait:       15 * time.Second,
	}
}

// Locker serializes work per user across processes with SET NX PX.
type Locker struct {
	client goredis.Cmdable
	cfg    Config
	log    *zap.Logger
}

// NewLocker creates a Locker over client.
func NewLocker(client goredis.Cmdable, cfg Config, log *zap.Logger) *Locker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Locker{client: client, cfg: cfg, log: log}
}

// Lock blocks until the user's lock is held, ctx is done or MaxWait elapses.
func (l *Locker) Lock(ctx context.Context, userID int64) (func(), error) {
	key := fmt.Sprintf("%s%d", l.cfg.KeyPrefix, userID)
	token := uuid.NewString()

	var deadline <-chan time.Time
	if l.cfg.MaxWait > 0 {
		t := time.NewTimer(l.cfg.MaxWait)
		defer t.Stop()
		deadline = t.C
	}

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.cfg.TTL).Result()
		if err != nil {
			return nil, fmt.Errorf("redis lock %s: %w", key, err)
		}
		if ok {
			break
		}

		wait := time.NewTimer(l.cfg.RetryInterval)
		select {
		case <-ctx.Done():
			wait.Stop()
			return nil, ctx.Err()
		case <-deadline:
			wait.Stop()
			return nil, ErrLockTimeout
		case <-wait.C:
		}
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go l.keepAlive(key, token, stop, done)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done

			releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
				l.log.Warn("redis lock release failed", zap.String("key", key), zap.Error(err))
			}
		})
	}, nil
}

// keepAlive refreshes the lock's TTL until stop is closed or the lock is
// found to belong to someone else.
func (l *Locker) keepAlive(key, token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	interval := l.cfg.TTL / 3
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), interval)
		n, err := refreshScript.Run(ctx, l.client, []string{key}, token, l.cfg.TTL.Milliseconds()).Int64()
		cancel()
		switch {
		case err != nil:
			l.log.Warn("redis lock refresh failed", zap.String("key", key), zap.Error(err))
		case n == 0:
			l.log.Warn("redis lock lost", zap.String("key", key))
			return
		}
	}
}

// NewClient builds a go-redis client and checks connectivity.
func NewClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}
