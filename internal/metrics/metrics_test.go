package metrics

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestObserveDispatchCounters(t *testing.T) {
	s := GetSnapshot()

	ObserveDispatch("email", OutcomeOK, 2, time.Millisecond)
	ObserveDispatch("carrier-pigeon", OutcomeChannelNotFound, 0, time.Microsecond)
	ObserveDispatch("sms", OutcomeSendFailed, 0, time.Millisecond)

	s2 := GetSnapshot()
	if s2.Dispatches != s.Dispatches+3 {
		t.Fatalf("expected dispatches to increment by 3, got %d -> %d", s.Dispatches, s2.Dispatches)
	}
	if s2.DispatchesFailed != s.DispatchesFailed+2 {
		t.Fatalf("expected dispatches_failed to increment by 2, got %d -> %d", s.DispatchesFailed, s2.DispatchesFailed)
	}
	if s2.ChannelNotFound != s.ChannelNotFound+1 {
		t.Fatalf("expected channel_not_found to increment by 1, got %d", s2.ChannelNotFound)
	}
	if s2.SendFailures != s.SendFailures+1 {
		t.Fatalf("expected send_failures to increment by 1, got %d", s2.SendFailures)
	}
	if s2.SubscribersNotified != s.SubscribersNotified+2 {
		t.Fatalf("expected subscribers_notified to increment by 2, got %d", s2.SubscribersNotified)
	}
	if s2.LastDispatch == 0 || s2.LastDispatchHuman == "" {
		t.Fatalf("expected last dispatch to be set, got %+v", s2)
	}
}

func TestSetLastDispatch(t *testing.T) {
	SetLastDispatch(time.Unix(123456789, 0))
	if got := GetSnapshot().LastDispatch; got != 123456789 {
		t.Fatalf("expected last dispatch timestamp 123456789, got %d", got)
	}
}

func TestPromHandler(t *testing.T) {
	ObserveDispatch("push", OutcomeOK, 1, time.Millisecond)
	rec := httptest.NewRecorder()
	PromHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	if !strings.Contains(body, `notihub_dispatches_total{channel="push",outcome="ok"}`) {
		t.Fatalf("expected push dispatch series in output, got:\n%s", body)
	}
}

func TestJSONHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	var snap StatsSnapshot
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
}

func TestLineProtocol(t *testing.T) {
	s := StatsSnapshot{Dispatches: 3, DispatchesFailed: 1, ChannelNotFound: 1, SubscribersNotified: 4, LastDispatch: 10}
	got := lineProtocol(s, time.Unix(20, 0))
	want := "notihub dispatches=3i,dispatches_failed=1i,channel_not_found=1i,send_failures=0i,subscribers_notified=4i,last_dispatch=10i 20"
	if got != want {
		t.Fatalf("unexpected line protocol:\n got %s\nwant %s", got, want)
	}
}

func TestInfluxPusherFinalPush(t *testing.T) {
	bodies := make(chan string, 4)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/write" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("bucket") != "b" || r.URL.Query().Get("org") != "o" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if r.Header.Get("Authorization") != "Token tok" {
			t.Errorf("missing token header")
		}
		b, _ := io.ReadAll(r.Body)
		bodies <- string(b)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		StartInfluxPusher(ctx, server.URL+"/", "tok", "o", "b", time.Hour)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("pusher did not stop after cancel")
	}
	select {
	case b := <-bodies:
		if !strings.HasPrefix(b, "notihub dispatches=") {
			t.Fatalf("unexpected body %q", b)
		}
	default:
		t.Fatal("expected a final push on cancel")
	}
}

func TestInfluxPusherDisabled(t *testing.T) {
	// returns immediately when not configured
	StartInfluxPusher(context.Background(), "", "", "", "", time.Second)
	StartInfluxPusher(context.Background(), "http://x", "", "", "b", 0)
}
