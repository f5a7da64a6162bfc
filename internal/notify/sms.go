package notify

import (
	"context"
	"fmt"
)

// SMSGateway posts each message to an HTTP SMS gateway, one request per
// recipient number.
type SMSGateway struct {
	URL   string
	Token string
	From  string
	To    []string
}

func (s *SMSGateway) Name() string { return "SMSGateway" }

func (s *SMSGateway) Send(ctx context.Context, message string) error {
	if len(s.To) == 0 {
		return fmt.Errorf("sms: no recipients configured")
	}
	var headers []string
	if s.Token != "" {
		headers = []string{"Authorization", "Bearer " + s.Token}
	}
	for _, to := range s.To {
		payload := map[string]string{"from": s.From, "to": to, "body": message}
		if err := postJSON(ctx, s.URL, payload, headers...); err != nil {
			return fmt.Errorf("sms to %s: %w", to, err)
		}
	}
	return nil
}
