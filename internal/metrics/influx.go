package metrics

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/notihub/notihub/internal/logging"
)

// StartInfluxPusher pushes the current snapshot to InfluxDB every interval
// until ctx is cancelled. A final push is made on cancellation so short-lived
// runs still report their dispatches.
func StartInfluxPusher(ctx context.Context, baseURL, token, org, bucket string, interval time.Duration) {
	if baseURL == "" || bucket == "" || interval <= 0 {
		return
	}
	logging.Get().Info().Str("url", baseURL).Dur("interval", interval).Msg("starting influxdb pusher")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	client := &http.Client{Timeout: 5 * time.Second}
	writeURL := influxWriteURL(baseURL, org, bucket)

	for {
		select {
		case <-ctx.Done():
			pushToInflux(client, writeURL, token)
			return
		case <-ticker.C:
			pushToInflux(client, writeURL, token)
		}
	}
}

func influxWriteURL(baseURL, org, bucket string) string {
	q := url.Values{}
	q.Set("org", org)
	q.Set("bucket", bucket)
	q.Set("precision", "s")
	return fmt.Sprintf("%s/api/v2/write?%s", strings.TrimRight(baseURL, "/"), q.Encode())
}

// lineProtocol renders s as a single Influx line-protocol record.
func lineProtocol(s StatsSnapshot, now time.Time) string {
	return fmt.Sprintf(
		"notihub dispatches=%di,dispatches_failed=%di,channel_not_found=%di,send_failures=%di,subscribers_notified=%di,last_dispatch=%di %d",
		s.Dispatches, s.DispatchesFailed, s.ChannelNotFound, s.SendFailures, s.SubscribersNotified, s.LastDispatch, now.Unix(),
	)
}

func pushToInflux(client *http.Client, writeURL, token string) {
	body := lineProtocol(GetSnapshot(), time.Now())

	req, err := http.NewRequest(http.MethodPost, writeURL, bytes.NewReader([]byte(body)))
	if err != nil {
		logging.Get().Error().Err(err).Msg("influxdb request creation failed")
		return
	}

	req.Header.Set("Authorization", "Token "+token)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	resp, err := client.Do(req)
	if err != nil {
		logging.Get().Error().Err(err).Msg("influxdb push failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		logging.Get().Warn().Int("status", resp.StatusCode).Msg("influxdb rejected metrics")
	}
}
