package config

import (
	"testing"
	"time"
)

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("NOTIHUB_LOG_LEVEL", "warn")
	t.Setenv("NOTIHUB_CONSOLE_CHANNELS", "false")
	t.Setenv("NOTIHUB_METRICS_ENABLED", "true")
	t.Setenv("NOTIHUB_METRICS_PORT", "9100")
	t.Setenv("NOTIHUB_INFLUX_URL", "http://influx:8086")
	t.Setenv("NOTIHUB_INFLUX_BUCKET", "b")
	t.Setenv("NOTIHUB_INFLUX_INTERVAL", "30s")
	t.Setenv("NOTIHUB_EMAIL_HOST", "smtp.example")
	t.Setenv("NOTIHUB_EMAIL_PORT", "25")
	t.Setenv("NOTIHUB_EMAIL_TO", "a@example.com, b@example.com,")
	t.Setenv("NOTIHUB_SMS_TO", "+1,+2")
	t.Setenv("NOTIHUB_GOTIFY_URL", "https://gotify")
	t.Setenv("NOTIHUB_SLACK_WEBHOOK", "https://hooks.slack")
	t.Setenv("NOTIHUB_APPRISE_URL", "https://apprise.example/send")
	t.Setenv("NOTIHUB_NATS_URL", "nats://localhost:4222")
	t.Setenv("NOTIHUB_SUBSCRIBERS", "Alice:email,push; Bob:sms,push")

	cfg := DefaultConfig()
	if err := ApplyEnvOverrides(cfg); err != nil {
		t.Fatalf("ApplyEnvOverrides failed: %v", err)
	}

	if cfg.LogLevel != "warn" || cfg.ConsoleChannels {
		t.Fatalf("unexpected basic fields: %+v", cfg)
	}
	if !cfg.MetricsEnabled || cfg.MetricsPort != 9100 {
		t.Fatalf("unexpected metrics config: %v %d", cfg.MetricsEnabled, cfg.MetricsPort)
	}
	if cfg.InfluxURL != "http://influx:8086" || cfg.InfluxBucket != "b" || cfg.InfluxInterval != 30*time.Second {
		t.Fatalf("unexpected influx config: %+v", cfg)
	}
	if cfg.EmailHost != "smtp.example" || cfg.EmailPort != 25 {
		t.Fatalf("unexpected email config: %+v", cfg)
	}
	if len(cfg.EmailTo) != 2 || cfg.EmailTo[1] != "b@example.com" {
		t.Fatalf("unexpected email recipients: %v", cfg.EmailTo)
	}
	if len(cfg.SMSTo) != 2 {
		t.Fatalf("unexpected sms recipients: %v", cfg.SMSTo)
	}
	if cfg.GotifyURL != "https://gotify" || cfg.SlackWebhook != "https://hooks.slack" || cfg.AppriseURL != "https://apprise.example/send" {
		t.Fatalf("unexpected transport urls: %+v", cfg)
	}
	if cfg.NATSURL != "nats://localhost:4222" {
		t.Fatalf("unexpected nats url: %s", cfg.NATSURL)
	}
	if len(cfg.Subscribers) != 2 || cfg.Subscribers[1].Name != "Bob" || cfg.Subscribers[1].Channels[0] != "sms" {
		t.Fatalf("unexpected subscribers: %+v", cfg.Subscribers)
	}
}

func TestApplyEnvOverridesErrors(t *testing.T) {
	tests := []struct {
		env, value string
	}{
		{"NOTIHUB_METRICS_PORT", "ninety"},
		{"NOTIHUB_METRICS_ENABLED", "maybe"},
		{"NOTIHUB_INFLUX_INTERVAL", "soon"},
		{"NOTIHUB_EMAIL_PORT", "x"},
		{"NOTIHUB_CONSOLE_CHANNELS", "nope"},
		{"NOTIHUB_SUBSCRIBERS", "nameless"},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv(tt.env, tt.value)
			if err := ApplyEnvOverrides(DefaultConfig()); err == nil {
				t.Fatalf("expected error for %s=%q", tt.env, tt.value)
			}
		})
	}
}

func TestParseSubscribers(t *testing.T) {
	subs, err := ParseSubscribers("Alice:email,push;;Bob:")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("expected 2 subscribers, got %+v", subs)
	}
	if subs[0].Name != "Alice" || len(subs[0].Channels) != 2 || subs[0].Channels[1] != "push" {
		t.Fatalf("unexpected first subscriber %+v", subs[0])
	}
	if subs[1].Name != "Bob" || len(subs[1].Channels) != 0 {
		t.Fatalf("unexpected second subscriber %+v", subs[1])
	}
	if _, err := ParseSubscribers(":email"); err == nil {
		t.Fatal("expected error for empty name")
	}
}
