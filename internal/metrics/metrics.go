// Package metrics provides counters, Prometheus collectors, and HTTP
// handlers for exporting notihub dispatch metrics.
package metrics

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dispatch outcomes used as the "outcome" label.
const (
	OutcomeOK              = "ok"
	OutcomeChannelNotFound = "channel_not_found"
	OutcomeSendFailed      = "send_failed"
)

// unknownChannel replaces unregistered tags in labels so arbitrary input can't
// grow label cardinality.
const unknownChannel = "unknown"

// 1. Internal State (Source of Truth)
var (
	dispatches          int64
	dispatchesFailed    int64
	channelNotFound     int64
	sendFailures        int64
	subscribersNotified int64
	lastDispatch        int64
)

const counterInc int64 = 1

// 2. Prometheus Collectors
var (
	promDispatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notihub_dispatches_total",
			Help: "Total dispatch requests by channel and outcome",
		},
		[]string{"channel", "outcome"},
	)
	promNotified = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notihub_subscribers_notified_total",
			Help: "Total subscriber notifications delivered",
		},
	)
	promSendFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notihub_send_failures_total",
			Help: "Total dispatches whose sender returned an error",
		},
	)
	promChannelNotFound = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notihub_channel_not_found_total",
			Help: "Total dispatches for a channel with no registered sender",
		},
	)
	promDispatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name: "notihub_dispatch_duration_seconds",
			Help: "Duration of dispatch calls including subscriber fan-out",
			Buckets: []float64{
				0.0005,
				0.001,
				0.005,
				0.01,
				0.05,
				0.1,
				0.5,
				1,
				5,
			},
		},
	)
	promLastDispatch = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "notihub_last_dispatch_timestamp_seconds",
			Help: "Unix timestamp of the last dispatch",
		},
	)
)

func init() {
	prometheus.MustRegister(
		promDispatches,
		promNotified,
		promSendFailures,
		promChannelNotFound,
		promDispatchDuration,
		promLastDispatch,
	)
}

// 3. Public API (Updates both Atomic and Prometheus)

// ObserveDispatch records one dispatch: its outcome, how many subscribers were
// notified and how long it took.
func ObserveDispatch(channel, outcome string, notified int, d time.Duration) {
	atomic.AddInt64(&dispatches, counterInc)
	switch outcome {
	case OutcomeChannelNotFound:
		channel = unknownChannel
		atomic.AddInt64(&dispatchesFailed, counterInc)
		atomic.AddInt64(&channelNotFound, counterInc)
		promChannelNotFound.Inc()
	case OutcomeSendFailed:
		atomic.AddInt64(&dispatchesFailed, counterInc)
		atomic.AddInt64(&sendFailures, counterInc)
		promSendFailures.Inc()
	}
	promDispatches.WithLabelValues(channel, outcome).Inc()

	if notified > 0 {
		atomic.AddInt64(&subscribersNotified, int64(notified))
		promNotified.Add(float64(notified))
	}
	promDispatchDuration.Observe(d.Seconds())
	SetLastDispatch(time.Now())
}

// SetLastDispatch stores the provided time as the last dispatch timestamp and
// updates the corresponding Prometheus gauge.
func SetLastDispatch(t time.Time) {
	atomic.StoreInt64(&lastDispatch, t.Unix())
	promLastDispatch.Set(float64(t.Unix()))
}

// 4. JSON Snapshot Struct

// StatsSnapshot is a snapshot of metrics for JSON encoding.
type StatsSnapshot struct {
	Dispatches          int64  `json:"dispatches"`
	DispatchesFailed    int64  `json:"dispatches_failed"`
	ChannelNotFound     int64  `json:"channel_not_found"`
	SendFailures        int64  `json:"send_failures"`
	SubscribersNotified int64  `json:"subscribers_notified"`
	LastDispatch        int64  `json:"last_dispatch_timestamp"`
	LastDispatchHuman   string `json:"last_dispatch_human"`
}

// GetSnapshot returns a StatsSnapshot with the current values of all
// internal counters and timestamps.
func GetSnapshot() StatsSnapshot {
	ts := atomic.LoadInt64(&lastDispatch)
	human := ""
	if ts > 0 {
		human = time.Unix(ts, 0).Format(time.RFC3339)
	}
	return StatsSnapshot{
		Dispatches:          atomic.LoadInt64(&dispatches),
		DispatchesFailed:    atomic.LoadInt64(&dispatchesFailed),
		ChannelNotFound:     atomic.LoadInt64(&channelNotFound),
		SendFailures:        atomic.LoadInt64(&sendFailures),
		SubscribersNotified: atomic.LoadInt64(&subscribersNotified),
		LastDispatch:        ts,
		LastDispatchHuman:   human,
	}
}

// 5. Handlers

// PromHandler returns an HTTP handler that exposes Prometheus metrics.
func PromHandler() http.Handler { return promhttp.Handler() }

// JSONHandler returns an HTTP handler that serves the current metrics as
// a JSON-encoded StatsSnapshot.
func JSONHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(GetSnapshot())
	})
}
