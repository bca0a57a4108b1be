package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"orderdesk/internal/model"
	"orderdesk/internal/notify"
	"orderdesk/internal/queue"
	"orderdesk/internal/repository"
)

// maintenanceService implements MaintenanceService.
type maintenanceService struct {
	store     *queue.Store
	repo      repository.SnapshotRepository
	notifier  notify.Notifier
	threshold time.Duration
	disp      *dispatcher
	logger    zerolog.Logger
}

// NewMaintenanceService creates the persistence and sweep service.
// threshold is how long an order may stay pending before the sweep
// reports it.
func NewMaintenanceService(
	store *queue.Store,
	repo repository.SnapshotRepository,
	notifier notify.Notifier,
	threshold time.Duration,
	logger zerolog.Logger,
) MaintenanceService {
	logger = logger.With().Str("service", "maintenance").Logger()
	return &maintenanceService{
		store:     store,
		repo:      repo,
		notifier:  notifier,
		threshold: threshold,
		disp:      newDispatcher(store, repo, notifier, logger),
		logger:    logger,
	}
}

func (s *maintenanceService) Restore(ctx context.Context) error {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}
	if snap == nil {
		s.logger.Info().Msg("no saved state, starting empty")
		return nil
	}
	s.store.Restore(snap)
	return nil
}

func (s *maintenanceService) SaveNow(ctx context.Context) error {
	start := time.Now()
	if err := s.disp.save(ctx); err != nil {
		s.logger.Error().Err(err).Msg("snapshot failed")
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	s.logger.Debug().Dur("took", time.Since(start)).Msg("snapshot saved")
	return nil
}

func (s *maintenanceService) Sweep(ctx context.Context) model.Attention {
	attention := s.store.Attention(s.threshold)
	if attention.Empty() {
		s.logger.Debug().Msg("nothing needs attention")
		return attention
	}

	s.logger.Warn().
		Int("overdue", len(attention.Overdue)).
		Int("long_pending", len(attention.LongPending)).
		Msg("orders need attention")

	if s.notifier != nil {
		ev := model.NewEvent(model.EventOrdersAttention, time.Now().UTC())
		ev.Message = fmt.Sprintf("%d overdue and %d long-pending orders need attention",
			len(attention.Overdue), len(attention.LongPending))
		ev.Data = map[string]any{
			"overdue":     attentionCodes(attention.Overdue, func(o model.OverdueOrder) string { return o.Order.Code }),
			"longPending": attentionCodes(attention.LongPending, func(o model.StaleOrder) string { return o.Order.Code }),
		}
		if err := s.notifier.Notify(ctx, ev); err != nil {
			s.logger.Warn().Err(err).Msg("failed to deliver attention event")
		}
	}
	return attention
}

func attentionCodes[T any](items []T, code func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, code(it))
	}
	return out
}
