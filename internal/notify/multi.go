package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/notihub/notihub/internal/hub"
	"github.com/notihub/notihub/internal/logging"
)

// Provider is a named sender.
type Provider interface {
	hub.Sender
	Name() string
}

// Multi sends through several providers of one channel, in the order they were
// added. Every provider is tried; the send fails if any of them failed.
type Multi struct {
	providers []Provider
}

func NewMulti(ps ...Provider) *Multi {
	m := &Multi{providers: make([]Provider, 0, len(ps))}
	for _, p := range ps {
		m.Add(p)
	}
	return m
}

func (m *Multi) Add(p Provider) {
	if p != nil {
		m.providers = append(m.providers, p)
	}
}

func (m *Multi) Len() int {
	return len(m.providers)
}

func (m *Multi) Name() string { return "Multi" }

// Send calls every provider with message and joins their errors.
func (m *Multi) Send(ctx context.Context, message string) error {
	if len(m.providers) == 0 {
		return errors.New("no providers configured")
	}
	var errs []error
	for _, p := range m.providers {
		name := p.Name()
		if err := p.Send(ctx, message); err != nil {
			logging.Get().Warn().Err(err).Str("provider", name).Msg("provider send failed")
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		logging.Get().Debug().Str("provider", name).Msg("provider send ok")
	}
	return errors.Join(errs...)
}
