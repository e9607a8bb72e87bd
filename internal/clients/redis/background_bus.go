// Package redis implements the background-change bus on redis pub/sub so
// editors on different instances see each other's background edits.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/youngclement/preziq-canvas-backend/internal/events"
	"github.com/youngclement/preziq-canvas-backend/internal/pkg/logger"
)

type BackgroundBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string

	mu          sync.RWMutex
	subscribers map[int]func(change events.BackgroundChange)
	nextID      int
	started     bool
}

var _ events.Bus = (*BackgroundBus)(nil)

func NewBackgroundBus(log *logger.Logger) (*BackgroundBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ch := strings.TrimSpace(os.Getenv("REDIS_BACKGROUND_CHANNEL"))
	if ch == "" {
		ch = "slide-background"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &BackgroundBus{
		log:         log.With("service", "RedisBackgroundBus"),
		rdb:         rdb,
		channel:     ch,
		subscribers: make(map[int]func(change events.BackgroundChange)),
	}, nil
}

func (b *BackgroundBus) Publish(ctx context.Context, change events.BackgroundChange) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis background bus not initialized")
	}
	raw, err := json.Marshal(change)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *BackgroundBus) Subscribe(fn func(change events.BackgroundChange)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subscribers[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subscribers, id)
		b.mu.Unlock()
	}
}

// Start consumes the redis channel and forwards changes to local
// subscribers. It returns once the subscription is confirmed; the forwarding
// loop runs until ctx is canceled.
func (b *BackgroundBus) Start(ctx context.Context) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis background bus not initialized")
	}
	b.mu.Lock()
	if b.started {
		b.mu.Unlock()
		return fmt.Errorf("redis background bus already started")
	}
	b.started = true
	b.mu.Unlock()

	sub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		defer func() { _ = sub.Close() }()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var change events.BackgroundChange
				if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
					b.log.Warn("dropping malformed background change", "error", err)
					continue
				}
				b.mu.RLock()
				fns := make([]func(change events.BackgroundChange), 0, len(b.subscribers))
				for _, fn := range b.subscribers {
					fns = append(fns, fn)
				}
				b.mu.RUnlock()
				for _, fn := range fns {
					fn(change)
				}
			}
		}
	}()
	return nil
}

func (b *BackgroundBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}
