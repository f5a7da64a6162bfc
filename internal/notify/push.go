package notify

import (
	"context"
	"fmt"
	"strings"
)

// --- Gotify (Self-Hosted Push) ---
type Gotify struct {
	ServerURL, Token string
	Title            string
	Priority         int
}

func (g *Gotify) Name() string { return "Gotify" }
func (g *Gotify) Send(ctx context.Context, message string) error {
	url := fmt.Sprintf("%s/message", strings.TrimRight(g.ServerURL, "/"))
	prio := g.Priority
	if prio == 0 {
		prio = 5
	}
	payload := map[string]interface{}{"title": titleOr(g.Title), "message": message, "priority": prio}
	if err := postJSON(ctx, url, payload, "X-Gotify-Key", g.Token); err != nil {
		return fmt.Errorf("gotify: %w", err)
	}
	return nil
}

// --- Pushover (Mobile Push) ---
var pushoverAPIURL = "https://api.pushover.net/1/messages.json"

type Pushover struct {
	UserKey, APIToken string
	Title             string
}

func (p *Pushover) Name() string { return "Pushover" }
func (p *Pushover) Send(ctx context.Context, message string) error {
	payload := map[string]string{"token": p.APIToken, "user": p.UserKey, "title": titleOr(p.Title), "message": message, "html": "0"}
	if err := postJSON(ctx, pushoverAPIURL, payload); err != nil {
		return fmt.Errorf("pushover: %w", err)
	}
	return nil
}
