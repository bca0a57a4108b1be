// Package notify delivers order desk events to the outside world.
// Delivery is best effort: a failing sink never undoes the change that
// produced the event.
package notify

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"orderdesk/internal/model"
)

// Notifier delivers a single event.
type Notifier interface {
	Notify(ctx context.Context, ev model.Event) error
}

type multiNotifier struct {
	sinks []Notifier
}

// Multi fans an event out to every sink and joins their errors. Nil sinks
// are skipped.
func Multi(sinks ...Notifier) Notifier {
	m := &multiNotifier{}
	for _, sink := range sinks {
		if sink != nil {
			m.sinks = append(m.sinks, sink)
		}
	}
	return m
}

func (m *multiNotifier) Notify(ctx context.Context, ev model.Event) error {
	var errs []error
	for _, sink := range m.sinks {
		if err := sink.Notify(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// logNotifier writes every event to the audit log.
type logNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates the audit log sink.
func NewLogNotifier(logger zerolog.Logger) Notifier {
	return &logNotifier{
		logger: logger.With().Str("component", "audit").Logger(),
	}
}

func (n *logNotifier) Notify(_ context.Context, ev model.Event) error {
	entry := n.logger.Info().
		Str("event_id", ev.ID.String()).
		Str("event_type", string(ev.Type)).
		Time("occurred_at", ev.OccurredAt)
	if ev.OrderCode != "" {
		entry = entry.Str("order_code", ev.OrderCode)
	}
	if ev.Recipient != "" {
		entry = entry.Str("recipient", ev.Recipient)
	}
	if ev.Actor != "" {
		entry = entry.Str("actor", ev.Actor)
	}
	if len(ev.Data) > 0 {
		entry = entry.Interface("data", ev.Data)
	}
	entry.Msg(ev.Message)
	return nil
}
