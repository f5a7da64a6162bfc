// Package setup builds a hub from configuration: it registers a sender for
// every configured channel and subscribes the configured subscribers.
package setup

import (
	"fmt"
	"io"

	"github.com/nats-io/nats.go"

	"github.com/notihub/notihub/internal/config"
	"github.com/notihub/notihub/internal/hub"
	"github.com/notihub/notihub/internal/logging"
	"github.com/notihub/notihub/internal/notify"
)

// Channel tags known to the default wiring.
const (
	ChannelEmail    = "email"
	ChannelSMS      = "sms"
	ChannelPush     = "push"
	ChannelSlack    = "slack"
	ChannelDiscord  = "discord"
	ChannelTeams    = "teams"
	ChannelTelegram = "telegram"
	ChannelMastodon = "mastodon"
	ChannelApprise  = "apprise"
	ChannelWebhook  = "webhook"
)

// connectNATS is swapped in tests.
var connectNATS = notify.ConnectNATS

// Build returns a hub wired from cfg. Console senders and subscribers write to
// out. The returned cleanup closes any connection Build opened.
func Build(cfg *config.Config, out io.Writer) (*hub.Hub, func(), error) {
	for _, w := range cfg.Validate() {
		logging.Get().Warn().Str("warning", w).Msg("config validation")
	}

	h := hub.New()
	registerChannels(h, cfg, out)

	nc, err := connectIfNeeded(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if nc != nil {
			_ = nc.Drain()
		}
	}
	subscribeAll(h, cfg, out, nc)
	logging.Get().Info().Strs("channels", h.Channels()).Int("subscribers", len(cfg.Subscribers)).Msg("hub ready")
	return h, cleanup, nil
}

// registerChannels installs console defaults first so configured transports
// can replace them tag by tag.
func registerChannels(h *hub.Hub, cfg *config.Config, out io.Writer) {
	if cfg.ConsoleChannels {
		for tag, label := range map[string]string{
			ChannelEmail: "Email",
			ChannelSMS:   "SMS",
			ChannelPush:  "Push Notification",
		} {
			c := &notify.Console{Label: label, Out: out}
			h.RegisterChannel(tag, func() hub.Sender { return c })
		}
	}

	title := cfg.Title
	push := notify.NewMulti()
	entries := []struct {
		enabled bool
		tag     string
		sender  func() hub.Sender
	}{
		{cfg.EmailHost != "" && len(cfg.EmailTo) > 0, ChannelEmail, func() hub.Sender {
			return &notify.Email{Host: cfg.EmailHost, Port: cfg.EmailPort, User: cfg.EmailUser, Pass: cfg.EmailPass, From: cfg.EmailFrom, To: cfg.EmailTo, Title: title}
		}},
		{cfg.SMSGatewayURL != "" && len(cfg.SMSTo) > 0, ChannelSMS, func() hub.Sender {
			return &notify.SMSGateway{URL: cfg.SMSGatewayURL, Token: cfg.SMSGatewayToken, From: cfg.SMSFrom, To: cfg.SMSTo}
		}},
		{cfg.SlackWebhook != "", ChannelSlack, func() hub.Sender { return &notify.Slack{WebhookURL: cfg.SlackWebhook, Title: title} }},
		{cfg.DiscordWebhook != "", ChannelDiscord, func() hub.Sender { return &notify.Discord{WebhookURL: cfg.DiscordWebhook, Title: title} }},
		{cfg.TeamsWebhook != "", ChannelTeams, func() hub.Sender { return &notify.Teams{WebhookURL: cfg.TeamsWebhook, Title: title} }},
		{cfg.TelegramToken != "" && cfg.TelegramChatID != "", ChannelTelegram, func() hub.Sender {
			return &notify.Telegram{BotToken: cfg.TelegramToken, ChatID: cfg.TelegramChatID, Title: title}
		}},
		{cfg.MastodonServer != "" && cfg.MastodonToken != "", ChannelMastodon, func() hub.Sender {
			return &notify.Mastodon{ServerURL: cfg.MastodonServer, AccessToken: cfg.MastodonToken, Title: title}
		}},
		{cfg.AppriseURL != "", ChannelApprise, func() hub.Sender { return &notify.Apprise{APIURL: cfg.AppriseURL, Title: title} }},
		{cfg.GenericWebhookURL != "", ChannelWebhook, func() hub.Sender { return &notify.Generic{WebhookURL: cfg.GenericWebhookURL, Title: title} }},
	}
	for _, e := range entries {
		if e.enabled {
			h.RegisterChannel(e.tag, e.sender)
		}
	}

	// push may be backed by several providers at once
	if cfg.GotifyURL != "" && cfg.GotifyToken != "" {
		push.Add(&notify.Gotify{ServerURL: cfg.GotifyURL, Token: cfg.GotifyToken, Title: title})
	}
	if cfg.PushoverUser != "" && cfg.PushoverToken != "" {
		push.Add(&notify.Pushover{UserKey: cfg.PushoverUser, APIToken: cfg.PushoverToken, Title: title})
	}
	if push.Len() > 0 {
		h.RegisterChannel(ChannelPush, func() hub.Sender { return push })
	}
}

func connectIfNeeded(cfg *config.Config) (*nats.Conn, error) {
	if cfg.NATSURL == "" {
		return nil, nil
	}
	for _, s := range cfg.Subscribers {
		if s.NATSSubject != "" {
			nc, err := connectNATS(cfg.NATSURL)
			if err != nil {
				return nil, fmt.Errorf("connect nats %s: %w", cfg.NATSURL, err)
			}
			return nc, nil
		}
	}
	return nil, nil
}

// subscribeAll registers subscribers in config order, which is the order they
// are notified in.
func subscribeAll(h *hub.Hub, cfg *config.Config, out io.Writer, nc *nats.Conn) {
	for _, sc := range cfg.Subscribers {
		if sc.Name == "" {
			continue
		}
		console := &notify.ConsoleSubscriber{Name: sc.Name, Out: out}
		var fwd *notify.NATSSubscriber
		if nc != nil && sc.NATSSubject != "" {
			fwd = notify.NewNATSSubscriber(nc, sc.Name, sc.NATSSubject)
		}
		for _, ch := range sc.Channels {
			h.Subscribe(ch, console)
			if fwd != nil {
				h.Subscribe(ch, fwd)
			}
			logging.Get().Debug().Str("subscriber", sc.Name).Str("channel", ch).Msg("subscribed")
		}
	}
}
