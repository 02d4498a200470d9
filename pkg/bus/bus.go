// Package bus carries note-change events from the edit screen to the list
// screen.
//
// A Bus is an explicit value passed to both controllers; there is no global
// instance. Every subscriber owns a buffered channel whose lifetime is bound
// to the context it subscribed with, so a slow list screen never blocks the
// edit screen until its buffer is full.
package bus

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/aretw0/introspection"
	"github.com/aretw0/lifecycle"

	"github.com/aretw0/notelin/pkg/core"
)

// DefaultBuffer is the per-subscriber buffer size.
const DefaultBuffer = 100

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("bus is closed")

// Option configures a Bus.
type Option func(*Bus)

// WithBuffer sets the per-subscriber buffer size. Zero or less means DefaultBuffer.
func WithBuffer(size int) Option {
	return func(b *Bus) {
		if size > 0 {
			b.buffer = size
		}
	}
}

// WithLogger sets the logger for the bus.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bus) {
		if logger != nil {
			b.logger = logger
		}
	}
}

type subscription struct {
	ch   chan core.Event
	done chan struct{}
}

// Bus is an in-process publish/subscribe channel for core.Event.
type Bus struct {
	mu     sync.RWMutex
	subs   map[uint64]*subscription
	next   uint64
	buffer int
	closed bool
	logger *slog.Logger
}

// New creates a Bus.
func New(opts ...Option) *Bus {
	b := &Bus{
		subs:   make(map[uint64]*subscription),
		buffer: DefaultBuffer,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a subscriber. The returned channel is closed when ctx
// ends or the bus is closed.
func (b *Bus) Subscribe(ctx context.Context) <-chan core.Event {
	sub := &subscription{
		ch:   make(chan core.Event, b.buffer),
		done: make(chan struct{}),
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(sub.ch)
		return sub.ch
	}
	id := b.next
	b.next++
	b.subs[id] = sub
	b.mu.Unlock()

	lifecycle.Go(ctx, func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			b.unsubscribe(id)
		case <-sub.done:
		}
		return nil
	})

	b.logger.Debug("subscriber added", "id", id)
	return sub.ch
}

func (b *Bus) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	sub, ok := b.subs[id]
	if !ok {
		return
	}
	delete(b.subs, id)
	close(sub.done)
	close(sub.ch)
	b.logger.Debug("subscriber removed", "id", id)
}

// Publish delivers e to every current subscriber. It blocks only while a
// subscriber's buffer is full, and gives up when ctx ends.
func (b *Bus) Publish(ctx context.Context, e core.Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}

	for _, sub := range b.subs {
		select {
		case sub.ch <- e:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	b.logger.Debug("event published", "event", e.String(), "subscribers", len(b.subs))
	return nil
}

// Close closes every subscriber channel. Later Publish calls fail with ErrClosed.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, sub := range b.subs {
		delete(b.subs, id)
		close(sub.done)
		close(sub.ch)
	}
}

// BusState exposes internal state for observability.
type BusState struct {
	Subscribers int  `json:"subscribers"`
	Buffer      int  `json:"buffer"`
	Closed      bool `json:"closed"`
}

// State implements introspection.Introspectable.
func (b *Bus) State() any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return BusState{
		Subscribers: len(b.subs),
		Buffer:      b.buffer,
		Closed:      b.closed,
	}
}

// ComponentType implements introspection.Component.
func (b *Bus) ComponentType() string {
	return "event-bus"
}

var _ introspection.Introspectable = (*Bus)(nil)
var _ introspection.Component = (*Bus)(nil)
