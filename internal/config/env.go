package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides reads configuration values from environment variables and
// overrides fields in the provided Config. Returns an error if parsing fails.
//
// Environment variables supported:
// - NOTIHUB_LOG_LEVEL, NOTIHUB_LOG_FILE
// - NOTIHUB_TITLE, NOTIHUB_CONSOLE_CHANNELS (bool)
// - NOTIHUB_METRICS_ENABLED (bool), NOTIHUB_METRICS_PORT (int)
// - NOTIHUB_INFLUX_URL, _TOKEN, _ORG, _BUCKET, _INTERVAL (duration)
// - NOTIHUB_EMAIL_HOST, _PORT, _USER, _PASS, _FROM, _TO (comma separated)
// - NOTIHUB_SMS_GATEWAY_URL, NOTIHUB_SMS_GATEWAY_TOKEN, NOTIHUB_SMS_FROM, NOTIHUB_SMS_TO
// - NOTIHUB_GOTIFY_URL, NOTIHUB_GOTIFY_TOKEN, NOTIHUB_PUSHOVER_USER, NOTIHUB_PUSHOVER_TOKEN
// - NOTIHUB_SLACK_WEBHOOK, NOTIHUB_DISCORD_WEBHOOK, NOTIHUB_TEAMS_WEBHOOK,
//   NOTIHUB_TELEGRAM_TOKEN, NOTIHUB_TELEGRAM_CHAT_ID, NOTIHUB_MASTODON_SERVER,
//   NOTIHUB_MASTODON_TOKEN, NOTIHUB_APPRISE_URL, NOTIHUB_GENERIC_WEBHOOK_URL
// - NOTIHUB_NATS_URL
// - NOTIHUB_SUBSCRIBERS ("Alice:email,push;Bob:sms,push"), replaces the file's list
func ApplyEnvOverrides(cfg *Config) error {
	if err := applyBasicEnv(cfg); err != nil {
		return err
	}
	if err := applyMetricsEnv(cfg); err != nil {
		return err
	}
	if err := applyInfluxEnv(cfg); err != nil {
		return err
	}
	if err := applyEmailEnv(cfg); err != nil {
		return err
	}
	applySMSEnv(cfg)
	applyPushEnv(cfg)
	applyChatEnv(cfg)
	if err := applySubscribersEnv(cfg); err != nil {
		return err
	}
	return nil
}

func applyBasicEnv(cfg *Config) error {
	setStringEnv("NOTIHUB_LOG_LEVEL", &cfg.LogLevel)
	setStringEnv("NOTIHUB_LOG_FILE", &cfg.LogFile)
	setStringEnv("NOTIHUB_TITLE", &cfg.Title)
	setStringEnv("NOTIHUB_NATS_URL", &cfg.NATSURL)
	return setBoolEnv("NOTIHUB_CONSOLE_CHANNELS", func(b bool) { cfg.ConsoleChannels = b })
}

// setStringEnv copies a non-empty variable into dst
func setStringEnv(env string, dst *string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

// setBoolEnv is a small helper to parse boolean environment variables
func setBoolEnv(env string, setter func(bool)) error {
	if v := os.Getenv(env); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", env, err)
		}
		setter(b)
	}
	return nil
}

func setIntEnv(env string, dst *int) error {
	if v := os.Getenv(env); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", env, err)
		}
		*dst = n
	}
	return nil
}

// splitList splits a comma separated value and drops empty entries
func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func applyMetricsEnv(cfg *Config) error {
	if err := setBoolEnv("NOTIHUB_METRICS_ENABLED", func(b bool) { cfg.MetricsEnabled = b }); err != nil {
		return err
	}
	return setIntEnv("NOTIHUB_METRICS_PORT", &cfg.MetricsPort)
}

func applyInfluxEnv(cfg *Config) error {
	setStringEnv("NOTIHUB_INFLUX_URL", &cfg.InfluxURL)
	setStringEnv("NOTIHUB_INFLUX_TOKEN", &cfg.InfluxToken)
	setStringEnv("NOTIHUB_INFLUX_ORG", &cfg.InfluxOrg)
	setStringEnv("NOTIHUB_INFLUX_BUCKET", &cfg.InfluxBucket)
	if v := os.Getenv("NOTIHUB_INFLUX_INTERVAL"); v != "" {
		dur, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid NOTIHUB_INFLUX_INTERVAL: %w", err)
		}
		cfg.InfluxInterval = dur
	}
	return nil
}

func applyEmailEnv(cfg *Config) error {
	setStringEnv("NOTIHUB_EMAIL_HOST", &cfg.EmailHost)
	setStringEnv("NOTIHUB_EMAIL_USER", &cfg.EmailUser)
	setStringEnv("NOTIHUB_EMAIL_PASS", &cfg.EmailPass)
	setStringEnv("NOTIHUB_EMAIL_FROM", &cfg.EmailFrom)
	if err := setIntEnv("NOTIHUB_EMAIL_PORT", &cfg.EmailPort); err != nil {
		return err
	}
	if v := os.Getenv("NOTIHUB_EMAIL_TO"); v != "" {
		cfg.EmailTo = splitList(v)
	}
	return nil
}

func applySMSEnv(cfg *Config) {
	setStringEnv("NOTIHUB_SMS_GATEWAY_URL", &cfg.SMSGatewayURL)
	setStringEnv("NOTIHUB_SMS_GATEWAY_TOKEN", &cfg.SMSGatewayToken)
	setStringEnv("NOTIHUB_SMS_FROM", &cfg.SMSFrom)
	if v := os.Getenv("NOTIHUB_SMS_TO"); v != "" {
		cfg.SMSTo = splitList(v)
	}
}

func applyPushEnv(cfg *Config) {
	setStringEnv("NOTIHUB_GOTIFY_URL", &cfg.GotifyURL)
	setStringEnv("NOTIHUB_GOTIFY_TOKEN", &cfg.GotifyToken)
	setStringEnv("NOTIHUB_PUSHOVER_USER", &cfg.PushoverUser)
	setStringEnv("NOTIHUB_PUSHOVER_TOKEN", &cfg.PushoverToken)
}

func applyChatEnv(cfg *Config) {
	setStringEnv("NOTIHUB_SLACK_WEBHOOK", &cfg.SlackWebhook)
	setStringEnv("NOTIHUB_DISCORD_WEBHOOK", &cfg.DiscordWebhook)
	setStringEnv("NOTIHUB_TEAMS_WEBHOOK", &cfg.TeamsWebhook)
	setStringEnv("NOTIHUB_TELEGRAM_TOKEN", &cfg.TelegramToken)
	setStringEnv("NOTIHUB_TELEGRAM_CHAT_ID", &cfg.TelegramChatID)
	setStringEnv("NOTIHUB_MASTODON_SERVER", &cfg.MastodonServer)
	setStringEnv("NOTIHUB_MASTODON_TOKEN", &cfg.MastodonToken)
	setStringEnv("NOTIHUB_APPRISE_URL", &cfg.AppriseURL)
	setStringEnv("NOTIHUB_GENERIC_WEBHOOK_URL", &cfg.GenericWebhookURL)
}

func applySubscribersEnv(cfg *Config) error {
	v := os.Getenv("NOTIHUB_SUBSCRIBERS")
	if v == "" {
		return nil
	}
	subs, err := ParseSubscribers(v)
	if err != nil {
		return fmt.Errorf("invalid NOTIHUB_SUBSCRIBERS: %w", err)
	}
	cfg.Subscribers = subs
	return nil
}

// ParseSubscribers parses "Name:chan1,chan2;Other:chan3". Order is kept.
func ParseSubscribers(v string) ([]SubscriberConfig, error) {
	var out []SubscriberConfig
	for _, entry := range strings.Split(v, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, chans, ok := strings.Cut(entry, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("entry %q: expected name:channel[,channel]", entry)
		}
		out = append(out, SubscriberConfig{Name: name, Channels: splitList(chans)})
	}
	return out, nil
}
