package hub

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func nopSender() Sender { return SenderFunc(func(context.Context, string) error { return nil }) }

func TestResolveRegisteredAndUnknown(t *testing.T) {
	r := NewResolver()
	tags := []string{"email", "sms", "push", "slack", "webhook"}
	for _, tag := range tags {
		r.Register(tag, nopSender)
	}

	for _, tag := range tags {
		if s, err := r.Resolve(tag); err != nil || s == nil {
			t.Fatalf("resolve %q: got %v, %v", tag, s, err)
		}
	}

	for _, tag := range []string{"", "EMAIL", "fax", "carrier-pigeon"} {
		s, err := r.Resolve(tag)
		if !errors.Is(err, ErrChannelNotFound) {
			t.Fatalf("resolve %q: expected ErrChannelNotFound, got %v", tag, err)
		}
		if s != nil {
			t.Fatalf("resolve %q: expected nil sender", tag)
		}
	}
}

func TestResolveCallsFactoryEachTime(t *testing.T) {
	r := NewResolver()
	calls := 0
	r.Register("push", func() Sender {
		calls++
		return nopSender()
	})
	_, _ = r.Resolve("push")
	_, _ = r.Resolve("push")
	if calls != 2 {
		t.Fatalf("expected factory to run per resolve, ran %d times", calls)
	}
}

func TestRegisterReplaces(t *testing.T) {
	r := NewResolver()
	var used string
	r.Register("email", func() Sender {
		return SenderFunc(func(context.Context, string) error { used = "console"; return nil })
	})
	r.Register("email", func() Sender {
		return SenderFunc(func(context.Context, string) error { used = "smtp"; return nil })
	})
	s, err := r.Resolve("email")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	_ = s.Send(context.Background(), "m")
	if used != "smtp" {
		t.Fatalf("expected later registration to win, got %q", used)
	}
}

func TestRegisterIgnoresInvalid(t *testing.T) {
	r := NewResolver()
	r.Register("", nopSender)
	r.Register("push", nil)
	if len(r.Channels()) != 0 {
		t.Fatalf("expected no channels, got %v", r.Channels())
	}
}

func TestNilFactoryResult(t *testing.T) {
	r := NewResolver()
	r.Register("broken", func() Sender { return nil })
	if _, err := r.Resolve("broken"); !errors.Is(err, ErrChannelNotFound) {
		t.Fatalf("expected ErrChannelNotFound for nil sender, got %v", err)
	}
}

func TestChannelsSorted(t *testing.T) {
	r := NewResolver()
	for _, tag := range []string{"sms", "email", "push"} {
		r.Register(tag, nopSender)
	}
	if got := r.Channels(); !reflect.DeepEqual(got, []string{"email", "push", "sms"}) {
		t.Fatalf("unexpected channels %v", got)
	}
}
