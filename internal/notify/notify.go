// Package notify provides hub senders and subscribers: console output, SMTP,
// SMS and push gateways, chat webhooks and a NATS forwarder.
//
// Every sender implements hub.Sender. Transport senders prefix the message
// with a title (DefaultTitle unless set) where the remote API has one.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultTitle is used by senders whose Title field is empty.
const DefaultTitle = "Notification"

// httpTimeout bounds every webhook call
var httpTimeout = 10 * time.Second

func titleOr(t string) string {
	if t == "" {
		return DefaultTitle
	}
	return t
}

// postJSON is a shared helper used by providers. Extra headers are set after
// the content type.
func postJSON(ctx context.Context, url string, data interface{}, headers ...string) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	client := &http.Client{Timeout: httpTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("api returned status %d", resp.StatusCode)
	}
	return nil
}
