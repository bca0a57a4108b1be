package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"orderdesk/internal/model"
)

// Publisher is the part of *nats.Conn used by the NATS sink.
type Publisher interface {
	Publish(subject string, data []byte) error
}

type natsNotifier struct {
	pub    Publisher
	prefix string
	logger zerolog.Logger
}

// ConnectNATS opens a named connection to the NATS server at url.
func ConnectNATS(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(url, nats.Name("orderdesk"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return conn, nil
}

// NewNATSNotifier publishes each event as JSON on "<prefix>.<type>".
func NewNATSNotifier(pub Publisher, subjectPrefix string, logger zerolog.Logger) Notifier {
	return &natsNotifier{
		pub:    pub,
		prefix: subjectPrefix,
		logger: logger.With().Str("component", "nats-notifier").Logger(),
	}
}

func (n *natsNotifier) Notify(_ context.Context, ev model.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := string(ev.Type)
	if n.prefix != "" {
		subject = n.prefix + "." + subject
	}

	if err := n.pub.Publish(subject, data); err != nil {
		n.logger.Error().Err(err).Str("subject", subject).Msg("failed to publish event")
		return fmt.Errorf("failed to publish event to %s: %w", subject, err)
	}

	n.logger.Debug().Str("subject", subject).Str("event_id", ev.ID.String()).Msg("event published")
	return nil
}
