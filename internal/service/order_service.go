package service

import (
	"context"

	"github.com/rs/zerolog"

	"orderdesk/internal/model"
	"orderdesk/internal/notify"
	"orderdesk/internal/queue"
	"orderdesk/internal/repository"
)

// orderService implements OrderService.
type orderService struct {
	store  *queue.Store
	disp   *dispatcher
	logger zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	store *queue.Store,
	repo repository.SnapshotRepository,
	notifier notify.Notifier,
	logger zerolog.Logger,
) OrderService {
	logger = logger.With().Str("service", "order").Logger()
	return &orderService{
		store:  store,
		disp:   newDispatcher(store, repo, notifier, logger),
		logger: logger,
	}
}

func (s *orderService) Create(ctx context.Context, in model.NewOrder) (model.Order, error) {
	order, err := s.store.Create(in)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("customer_id", in.CustomerID).
			Msg("order rejected")
		return model.Order{}, err
	}

	s.logger.Info().
		Str("order_code", order.Code).
		Str("priority", string(order.Priority)).
		Str("created_by", in.CreatedBy).
		Msg("order created")

	s.disp.commit(ctx)
	return order, nil
}

func (s *orderService) SetStatus(ctx context.Context, code string, status model.Status, actor string) (model.Order, error) {
	order, err := s.store.SetStatus(code, status, actor)
	if err != nil {
		return model.Order{}, err
	}
	s.disp.commit(ctx)
	return order, nil
}

func (s *orderService) Complete(ctx context.Context, code, actor string) (model.CompletionResult, error) {
	result, err := s.store.Complete(code, actor)
	if err != nil {
		s.logger.Debug().Err(err).Str("order_code", code).Msg("completion refused")
		return model.CompletionResult{}, err
	}

	s.logger.Info().
		Str("order_code", result.Order.Code).
		Strs("ready", result.Ready).
		Bool("token_consumed", result.TokenConsumed).
		Msg("order completed")

	s.disp.commit(ctx)
	return result, nil
}

func (s *orderService) BulkComplete(ctx context.Context, codes []string, actor string) model.BulkResult {
	result := s.store.BulkComplete(codes, actor)

	s.logger.Info().
		Int("completed", len(result.Completed)).
		Int("failed", len(result.Failed)).
		Str("actor", actor).
		Msg("bulk completion finished")

	if len(result.Completed) > 0 {
		s.disp.commit(ctx)
	}
	return result
}

func (s *orderService) Remove(ctx context.Context, code, actor string) (model.Order, error) {
	order, err := s.store.Remove(code, actor)
	if err != nil {
		return model.Order{}, err
	}
	s.disp.commit(ctx)
	return order, nil
}

func (s *orderService) Erase(ctx context.Context, code, actor, reason string) (model.ErasedOrder, error) {
	erased, err := s.store.Erase(code, actor, reason)
	if err != nil {
		return model.ErasedOrder{}, err
	}
	s.disp.commit(ctx)
	return erased, nil
}

func (s *orderService) Move(ctx context.Context, code string, position int, actor string) (int, error) {
	pos, err := s.store.MoveToPosition(code, position, actor)
	if err != nil {
		return 0, err
	}
	s.disp.commit(ctx)
	return pos, nil
}

func (s *orderService) Rush(ctx context.Context, code, actor string) (model.Order, error) {
	order, err := s.store.Rush(code, actor)
	if err != nil {
		return model.Order{}, err
	}
	s.disp.commit(ctx)
	return order, nil
}

func (s *orderService) AddDependency(ctx context.Context, dependent, prerequisite, actor string) error {
	if err := s.store.AddDependency(dependent, prerequisite, actor); err != nil {
		return err
	}
	s.disp.commit(ctx)
	return nil
}

func (s *orderService) SetDueDate(ctx context.Context, code, date, actor string) (string, error) {
	stored, err := s.store.SetDueDate(code, date, actor)
	if err != nil {
		return "", err
	}
	s.disp.commit(ctx)
	return stored, nil
}

func (s *orderService) AddReview(ctx context.Context, in model.NewReview) (model.Review, error) {
	review, err := s.store.AddReview(in)
	if err != nil {
		return model.Review{}, err
	}
	s.disp.commit(ctx)
	return review, nil
}

func (s *orderService) Find(code string) (model.OrderDetails, error) {
	return s.store.Find(code)
}

func (s *orderService) Position(code string) (int, error) {
	return s.store.Position(code)
}

func (s *orderService) Queue() []model.QueueEntry {
	return s.store.Queue()
}

func (s *orderService) OrdersFor(customerID string) model.CustomerOrders {
	return s.store.OrdersFor(customerID)
}

func (s *orderService) History(q model.HistoryQuery) (model.HistoryPage, error) {
	return s.store.History(q)
}

func (s *orderService) Overdue() []model.OverdueOrder {
	return s.store.Overdue()
}

func (s *orderService) Stats() model.StatsView {
	return s.store.Stats()
}
