package notify

import "context"

// --- Apprise (Gateway) ---
type Apprise struct {
	APIURL string
	Title  string
}

func (a *Apprise) Name() string { return "Apprise" }
func (a *Apprise) Send(ctx context.Context, message string) error {
	payload := map[string]string{"title": titleOr(a.Title), "body": message, "format": "markdown", "type": "info"}
	return postJSON(ctx, a.APIURL, payload)
}

// --- Generic Webhook ---
type Generic struct {
	WebhookURL string
	Title      string
}

func (g *Generic) Name() string { return "GenericWebhook" }
func (g *Generic) Send(ctx context.Context, message string) error {
	payload := map[string]string{"title": titleOr(g.Title), "message": message, "agent": "notihub"}
	return postJSON(ctx, g.WebhookURL, payload)
}
