package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/contactshare/internal/logging"
	goredis "github.com/redis/go-redis/v9"
)

const channelPrefix = "contacts:group:"

// Channel is the Redis Pub/Sub channel carrying a group's events.
func Channel(groupID string) string {
	return channelPrefix + groupID
}

// RedisBus publishes events as JSON over Redis Pub/Sub so every server
// instance sees them.
type RedisBus struct {
	log logging.Logger
	rdb *goredis.Client
}

// NewRedisBus connects to the Redis server at url (redis://host:port/db) and
// verifies the connection.
func NewRedisBus(ctx context.Context, url string, log logging.Logger) (*RedisBus, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 5 * time.Second
	}

	rdb := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewRedisBusFromClient(rdb, log), nil
}

func NewRedisBusFromClient(rdb *goredis.Client, log logging.Logger) *RedisBus {
	return &RedisBus{log: log.With("component", "redis_bus"), rdb: rdb}
}

func (b *RedisBus) Publish(ctx context.Context, e Event) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, Channel(e.GroupID), raw).Err()
}

func (b *RedisBus) Subscribe(ctx context.Context, groupID string) (<-chan Event, func(), error) {
	sub := b.rdb.Subscribe(ctx, Channel(groupID))

	// wait for the subscription confirmation
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("redis subscribe: %w", err)
	}

	out := make(chan Event, subscriberBuffer)
	stop := make(chan struct{})
	var once sync.Once
	cancel := func() { once.Do(func() { close(stop) }) }

	go func() {
		defer close(out)
		defer sub.Close()

		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				var e Event
				if err := json.Unmarshal([]byte(m.Payload), &e); err != nil {
					b.log.Warn(ctx, "bad event payload", "channel", m.Channel, "error", err)
					continue
				}
				select {
				case out <- e:
				default:
				}
			}
		}
	}()

	return out, cancel, nil
}

func (b *RedisBus) Close() error {
	return b.rdb.Close()
}
