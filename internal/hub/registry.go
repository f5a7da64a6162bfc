package hub

import "sync"

// Subscriber receives a copy of every message dispatched on the channels it is
// registered for.
type Subscriber interface {
	Receive(message string)
}

// SubscriberFunc adapts a plain function to Subscriber.
type SubscriberFunc func(message string)

// Receive calls f.
func (f SubscriberFunc) Receive(message string) { f(message) }

// SubscriptionID identifies one registration. The zero value is never issued.
type SubscriptionID uint64

type subscription struct {
	id  SubscriptionID
	sub Subscriber
}

// Registry holds, per channel, the ordered list of subscribers.
//
// The registry only references subscribers; it does not own them. Callers must
// keep a subscriber usable for as long as it stays registered, or Unsubscribe it.
// Registering the same subscriber twice on a channel notifies it twice; callers
// that want de-duplication must do it themselves.
type Registry struct {
	mu     sync.RWMutex
	byChan map[string][]subscription
	nextID SubscriptionID
}

func NewRegistry() *Registry {
	return &Registry{byChan: make(map[string][]subscription)}
}

// Subscribe appends s to channel's list. A nil subscriber is ignored and the
// zero ID is returned.
func (r *Registry) Subscribe(channel string, s Subscriber) SubscriptionID {
	if s == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.byChan[channel] = append(r.byChan[channel], subscription{id: r.nextID, sub: s})
	return r.nextID
}

// SubscribersFor returns a snapshot of channel's subscribers in registration
// order. It never fails; an unknown channel yields an empty slice.
func (r *Registry) SubscribersFor(channel string) []Subscriber {
	r.mu.RLock()
	defer r.mu.RUnlock()
	subs := r.byChan[channel]
	out := make([]Subscriber, len(subs))
	for i, s := range subs {
		out[i] = s.sub
	}
	return out
}

// Unsubscribe removes the registration with the given id. It reports whether
// anything was removed.
func (r *Registry) Unsubscribe(id SubscriptionID) bool {
	if id == 0 {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for ch, subs := range r.byChan {
		for i, s := range subs {
			if s.id != id {
				continue
			}
			rest := append(subs[:i:i], subs[i+1:]...)
			if len(rest) == 0 {
				delete(r.byChan, ch)
			} else {
				r.byChan[ch] = rest
			}
			return true
		}
	}
	return false
}

// Len returns the number of registrations on channel.
func (r *Registry) Len(channel string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byChan[channel])
}
