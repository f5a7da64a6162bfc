package notify

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/notihub/notihub/internal/logging"
)

// publisher is the part of *nats.Conn the forwarder needs.
type publisher interface {
	Publish(subj string, data []byte) error
}

// Envelope is the JSON body published for every forwarded message.
type Envelope struct {
	Subscriber string    `json:"subscriber"`
	Message    string    `json:"message"`
	ReceivedAt time.Time `json:"received_at"`
}

// NATSSubscriber republishes every message it receives on Subject.
type NATSSubscriber struct {
	Name    string
	Subject string
	pub     publisher
	now     func() time.Time
}

// ConnectNATS opens a connection named after the process.
func ConnectNATS(url string) (*nats.Conn, error) {
	return nats.Connect(url, nats.Name("notihub"))
}

func NewNATSSubscriber(nc *nats.Conn, name, subject string) *NATSSubscriber {
	return &NATSSubscriber{Name: name, Subject: subject, pub: nc, now: time.Now}
}

// Receive publishes message. Failures are logged; the hub has no way to act
// on them.
func (s *NATSSubscriber) Receive(message string) {
	b, err := json.Marshal(Envelope{Subscriber: s.Name, Message: message, ReceivedAt: s.now().UTC()})
	if err != nil {
		logging.Get().Error().Err(err).Str("subject", s.Subject).Msg("nats envelope encoding failed")
		return
	}
	if err := s.pub.Publish(s.Subject, b); err != nil {
		logging.Get().Error().Err(err).Str("subject", s.Subject).Str("subscriber", s.Name).Msg("nats publish failed")
	}
}
