package hub

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Sender delivers a message through one channel.
type Sender interface {
	Send(ctx context.Context, message string) error
}

// SenderFunc adapts a plain function to Sender.
type SenderFunc func(ctx context.Context, message string) error

// Send calls f.
func (f SenderFunc) Send(ctx context.Context, message string) error { return f(ctx, message) }

// SenderFactory builds the sender for a channel. It is called on every resolve.
type SenderFactory func() Sender

// Resolver maps channel tags to sender factories.
type Resolver struct {
	mu        sync.RWMutex
	factories map[string]SenderFactory
}

func NewResolver() *Resolver {
	return &Resolver{factories: make(map[string]SenderFactory)}
}

// Register adds the factory for tag, replacing any previous one.
// Empty tags and nil factories are ignored.
func (r *Resolver) Register(tag string, f SenderFactory) {
	if tag == "" || f == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[tag] = f
}

// Resolve returns a sender for tag, or an error wrapping ErrChannelNotFound.
func (r *Resolver) Resolve(tag string) (Sender, error) {
	r.mu.RLock()
	f, ok := r.factories[tag]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrChannelNotFound, tag)
	}
	s := f()
	if s == nil {
		return nil, fmt.Errorf("%w: %s (factory returned nil)", ErrChannelNotFound, tag)
	}
	return s, nil
}

// Channels returns the registered tags in sorted order.
func (r *Resolver) Channels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories))
	for tag := range r.factories {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
