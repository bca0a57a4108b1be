package service

import (
	"context"

	"github.com/rs/zerolog"

	"orderdesk/internal/notify"
	"orderdesk/internal/queue"
	"orderdesk/internal/repository"
)

// dispatcher runs the persist-then-notify step shared by every mutating
// command.
type dispatcher struct {
	store    *queue.Store
	repo     repository.SnapshotRepository
	notifier notify.Notifier
	logger   zerolog.Logger
}

func newDispatcher(store *queue.Store, repo repository.SnapshotRepository, notifier notify.Notifier, logger zerolog.Logger) *dispatcher {
	return &dispatcher{
		store:    store,
		repo:     repo,
		notifier: notifier,
		logger:   logger,
	}
}

// commit saves a snapshot and delivers the pending events. Failures are
// logged; the in-memory change stands either way.
func (d *dispatcher) commit(ctx context.Context) {
	if err := d.save(ctx); err != nil {
		d.logger.Error().Err(err).Msg("failed to persist snapshot")
	}
	d.publish(ctx)
}

func (d *dispatcher) save(ctx context.Context) error {
	if d.repo == nil {
		return nil
	}
	return d.repo.Save(ctx, d.store.Snapshot())
}

func (d *dispatcher) publish(ctx context.Context) {
	events := d.store.DrainEvents()
	if d.notifier == nil {
		return
	}
	for _, ev := range events {
		if err := d.notifier.Notify(ctx, ev); err != nil {
			d.logger.Warn().
				Err(err).
				Str("event_type", string(ev.Type)).
				Str("order_code", ev.OrderCode).
				Msg("failed to deliver event")
		}
	}
}
