package setup

import "github.com/notihub/notihub/internal/config"

// DemoSubscribers are used by the -demo flag when the config declares none.
func DemoSubscribers() []config.SubscriberConfig {
	return []config.SubscriberConfig{
		{Name: "Alice", Channels: []string{ChannelEmail, ChannelPush}},
		{Name: "Bob", Channels: []string{ChannelSMS, ChannelPush}},
	}
}

// DemoMessage is one step of the demo run.
type DemoMessage struct {
	Channel string
	Message string
}

// DemoMessages is the order-lifecycle sequence dispatched by -demo.
func DemoMessages() []DemoMessage {
	return []DemoMessage{
		{ChannelEmail, "Your order has been placed."},
		{ChannelSMS, "Your order is on the way."},
		{ChannelPush, "Your order has been delivered."},
	}
}
