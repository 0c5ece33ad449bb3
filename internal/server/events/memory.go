package events

import (
	"context"
	"errors"
	"sync"
)

var ErrBusClosed = errors.New("event bus closed")

const subscriberBuffer = 64

type subscriber struct {
	ch   chan Event
	done chan struct{}
	once sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() {
		close(s.ch)
		close(s.done)
	})
}

// MemoryBus is a process-local Bus. Delivery never blocks the publisher: a
// subscriber whose buffer is full misses the event.
type MemoryBus struct {
	mu     sync.Mutex
	topics map[string]map[*subscriber]struct{}
	closed bool
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{topics: make(map[string]map[*subscriber]struct{})}
}

func (b *MemoryBus) Publish(_ context.Context, e Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBusClosed
	}
	for s := range b.topics[e.GroupID] {
		select {
		case s.ch <- e:
		default:
		}
	}
	return nil
}

func (b *MemoryBus) Subscribe(ctx context.Context, groupID string) (<-chan Event, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, nil, ErrBusClosed
	}

	s := &subscriber{ch: make(chan Event, subscriberBuffer), done: make(chan struct{})}
	if b.topics[groupID] == nil {
		b.topics[groupID] = make(map[*subscriber]struct{})
	}
	b.topics[groupID][s] = struct{}{}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if subs, ok := b.topics[groupID]; ok {
				delete(subs, s)
				if len(subs) == 0 {
					delete(b.topics, groupID)
				}
			}
			s.close()
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-s.done:
		}
	}()

	return s.ch, cancel, nil
}

// Close ends every subscription. Publishing after Close fails with
// ErrBusClosed.
func (b *MemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for _, subs := range b.topics {
		for s := range subs {
			s.close()
		}
	}
	b.topics = make(map[string]map[*subscriber]struct{})
	return nil
}
