package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/notihub/notihub/internal/logging"
)

// SubscriberConfig declares one subscriber and the channels it listens on.
type SubscriberConfig struct {
	Name     string   `json:"name" yaml:"name"`
	Channels []string `json:"channels" yaml:"channels"`
	// NATSSubject, when set, also forwards every received message to NATS
	NATSSubject string `json:"nats_subject" yaml:"nats_subject"`
}

// Config holds runtime configuration for notihub
type Config struct {
	LogLevel string `json:"log_level" yaml:"log_level"`
	LogFile  string `json:"log_file" yaml:"log_file"`

	// Title is the subject/heading used by transports that have one
	Title string `json:"title" yaml:"title"`

	// ConsoleChannels registers the stdout senders for email, sms and push.
	// Configured transports replace them channel by channel.
	ConsoleChannels bool `json:"console_channels" yaml:"console_channels"`

	// Metrics
	MetricsEnabled bool `json:"metrics_enabled" yaml:"metrics_enabled"`
	MetricsPort    int  `json:"metrics_port" yaml:"metrics_port"`

	// InfluxDB (push)
	InfluxURL      string        `json:"influx_url" yaml:"influx_url"`
	InfluxToken    string        `json:"influx_token" yaml:"influx_token"`
	InfluxOrg      string        `json:"influx_org" yaml:"influx_org"`
	InfluxBucket   string        `json:"influx_bucket" yaml:"influx_bucket"`
	InfluxInterval time.Duration `json:"influx_interval" yaml:"influx_interval"`

	// email channel
	EmailHost string   `json:"email_host" yaml:"email_host"`
	EmailPort int      `json:"email_port" yaml:"email_port"`
	EmailUser string   `json:"email_user" yaml:"email_user"`
	EmailPass string   `json:"email_pass" yaml:"email_pass"`
	EmailFrom string   `json:"email_from" yaml:"email_from"`
	EmailTo   []string `json:"email_to" yaml:"email_to"`

	// sms channel
	SMSGatewayURL   string   `json:"sms_gateway_url" yaml:"sms_gateway_url"`
	SMSGatewayToken string   `json:"sms_gateway_token" yaml:"sms_gateway_token"`
	SMSFrom         string   `json:"sms_from" yaml:"sms_from"`
	SMSTo           []string `json:"sms_to" yaml:"sms_to"`

	// push channel
	GotifyURL     string `json:"gotify_url" yaml:"gotify_url"`
	GotifyToken   string `json:"gotify_token" yaml:"gotify_token"`
	PushoverUser  string `json:"pushover_user" yaml:"pushover_user"`
	PushoverToken string `json:"pushover_token" yaml:"pushover_token"`

	// extra channels, each registered under its own tag
	SlackWebhook      string `json:"slack_webhook" yaml:"slack_webhook"`
	DiscordWebhook    string `json:"discord_webhook" yaml:"discord_webhook"`
	TeamsWebhook      string `json:"teams_webhook" yaml:"teams_webhook"`
	TelegramToken     string `json:"telegram_token" yaml:"telegram_token"`
	TelegramChatID    string `json:"telegram_chat_id" yaml:"telegram_chat_id"`
	MastodonServer    string `json:"mastodon_server" yaml:"mastodon_server"`
	MastodonToken     string `json:"mastodon_token" yaml:"mastodon_token"`
	AppriseURL        string `json:"apprise_url" yaml:"apprise_url"`
	GenericWebhookURL string `json:"generic_webhook_url" yaml:"generic_webhook_url"`

	// NATSURL enables forwarding for subscribers that set nats_subject
	NATSURL string `json:"nats_url" yaml:"nats_url"`

	Subscribers []SubscriberConfig `json:"subscribers" yaml:"subscribers"`
}

// DefaultConfig returns a sane default configuration
func DefaultConfig() *Config {
	return &Config{
		LogLevel:        "info",
		Title:           "Notification",
		ConsoleChannels: true,

		// Metrics defaults (opt-in)
		MetricsEnabled: false,
		MetricsPort:    9090,

		InfluxInterval: 1 * time.Minute,

		EmailPort: 587,
	}
}

// Validate returns a list of non-fatal configuration warnings, such as
// incomplete credential combinations.
func (c *Config) Validate() []string {
	var warnings []string
	checks := []struct {
		cond bool
		msg  string
	}{
		{c.GotifyURL != "" && c.GotifyToken == "", "gotify URL provided but token is missing"},
		{c.GotifyToken != "" && c.GotifyURL == "", "gotify token provided but URL is missing"},
		{c.PushoverUser != "" && c.PushoverToken == "", "pushover user provided but token is missing"},
		{c.PushoverToken != "" && c.PushoverUser == "", "pushover token provided but user is missing"},
		{c.EmailHost != "" && len(c.EmailTo) == 0, "email host provided but no recipients configured (email_to)"},
		{c.EmailHost == "" && len(c.EmailTo) > 0, "email recipients configured but email host is empty"},
		{c.SMSGatewayURL != "" && len(c.SMSTo) == 0, "sms gateway provided but no recipients configured (sms_to)"},
		{c.TelegramToken != "" && c.TelegramChatID == "", "telegram token provided but chat id is missing"},
		{c.MastodonServer != "" && c.MastodonToken == "", "mastodon server provided but token is missing"},
		{c.MetricsEnabled && (c.MetricsPort <= 0 || c.MetricsPort > 65535), fmt.Sprintf("metrics enabled but port %d is invalid", c.MetricsPort)},
	}
	for _, ch := range checks {
		if ch.cond {
			warnings = append(warnings, ch.msg)
		}
	}
	if _, ok := logging.ParseLevel(c.LogLevel); !ok {
		warnings = append(warnings, fmt.Sprintf("unknown log level %q, using info", c.LogLevel))
	}
	warnings = append(warnings, c.validateSubscribers()...)
	return warnings
}

// validateSubscribers reports subscribers that can never receive anything or
// that ask for NATS forwarding without a server.
func (c *Config) validateSubscribers() []string {
	var warnings []string
	for i, s := range c.Subscribers {
		label := s.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i)
			warnings = append(warnings, fmt.Sprintf("subscriber %s has no name", label))
		}
		if len(s.Channels) == 0 {
			warnings = append(warnings, fmt.Sprintf("subscriber %s has no channels", label))
		}
		if s.NATSSubject != "" && c.NATSURL == "" {
			warnings = append(warnings, fmt.Sprintf("subscriber %s sets nats_subject but nats_url is empty", label))
		}
	}
	return warnings
}

// LoadConfigFromFile loads config from a YAML/JSON file
func LoadConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
