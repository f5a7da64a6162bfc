// Package hub resolves a sender for a notification channel, sends the message
// and fans it out to the channel's subscribers.
//
// A dispatch runs synchronously: the sender is invoked first, then every
// subscriber of the channel in registration order, before Dispatch returns.
package hub

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/notihub/notihub/internal/logging"
	"github.com/notihub/notihub/internal/metrics"
)

// Result summarises one dispatch.
type Result struct {
	ID       string
	Channel  string
	OK       bool
	Notified int
	// Err wraps ErrChannelNotFound or ErrSendFailed when OK is false
	Err      error
	Duration time.Duration
}

// Hub ties a Resolver and a Registry together.
type Hub struct {
	resolver *Resolver
	registry *Registry
	now      func() time.Time
}

// Option configures a Hub.
type Option func(*Hub)

// WithResolver makes the hub use r instead of a fresh resolver.
func WithResolver(r *Resolver) Option {
	return func(h *Hub) {
		if r != nil {
			h.resolver = r
		}
	}
}

// WithRegistry makes the hub use r instead of a fresh registry.
func WithRegistry(r *Registry) Option {
	return func(h *Hub) {
		if r != nil {
			h.registry = r
		}
	}
}

// WithClock overrides the clock used for dispatch durations (tests).
func WithClock(now func() time.Time) Option {
	return func(h *Hub) {
		if now != nil {
			h.now = now
		}
	}
}

// New creates an independent hub with no channels and no subscribers.
func New(opts ...Option) *Hub {
	h := &Hub{resolver: NewResolver(), registry: NewRegistry(), now: time.Now}
	for _, o := range opts {
		o(h)
	}
	return h
}

// RegisterChannel adds or replaces the sender factory for tag.
func (h *Hub) RegisterChannel(tag string, f SenderFactory) {
	h.resolver.Register(tag, f)
	logging.Get().Debug().Str("channel", tag).Msg("channel registered")
}

// Channels lists the registered channel tags.
func (h *Hub) Channels() []string { return h.resolver.Channels() }

// Subscribe registers s on channel. Registering a channel that has no sender
// yet is allowed; its subscribers are only reached once a sender exists.
func (h *Hub) Subscribe(channel string, s Subscriber) SubscriptionID {
	return h.registry.Subscribe(channel, s)
}

// Unsubscribe removes one registration.
func (h *Hub) Unsubscribe(id SubscriptionID) bool { return h.registry.Unsubscribe(id) }

// SubscribersFor returns the channel's subscribers in notification order.
func (h *Hub) SubscribersFor(channel string) []Subscriber {
	return h.registry.SubscribersFor(channel)
}

// Dispatch sends message through channel's sender and, if that succeeds,
// delivers it to each subscriber of channel in registration order.
func (h *Hub) Dispatch(ctx context.Context, channel, message string) (res Result) {
	start := h.now()
	res = Result{ID: uuid.NewString(), Channel: channel}
	log := logging.Get().With().Str("dispatch_id", res.ID).Str("channel", channel).Logger()

	defer func() {
		res.Duration = h.now().Sub(start)
		metrics.ObserveDispatch(channel, outcome(res), res.Notified, res.Duration)
	}()

	sender, err := h.resolver.Resolve(channel)
	if err != nil {
		res.Err = err
		log.Warn().Err(err).Msg("invalid notification type")
		return res
	}

	if err := sender.Send(ctx, message); err != nil {
		res.Err = fmt.Errorf("%w: %s: %w", ErrSendFailed, channel, err)
		log.Error().Err(err).Msg("sender failed; subscribers not notified")
		return res
	}

	for _, s := range h.registry.SubscribersFor(channel) {
		s.Receive(message)
		res.Notified++
	}
	res.OK = true
	log.Info().Int("notified", res.Notified).Msg("notification dispatched")
	return res
}

func outcome(r Result) string {
	switch {
	case r.OK:
		return metrics.OutcomeOK
	case errors.Is(r.Err, ErrChannelNotFound):
		return metrics.OutcomeChannelNotFound
	default:
		return metrics.OutcomeSendFailed
	}
}
