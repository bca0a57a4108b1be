package queue

import (
	"orderdesk/internal/model"
)

// Snapshot returns a deep copy of the whole store state.
func (s *Store) Snapshot() *model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &model.Snapshot{
		Orders:       make(map[string]model.Order, len(s.orders)),
		History:      make(map[string]model.Order, len(s.history)),
		Reviews:      make(map[string]model.Review, len(s.reviews)),
		Dependencies: s.deps.snapshot(),
		DueDates:     make(map[string]string, len(s.dueDates)),
		Tokens:       s.tokens.Snapshot(),
		Statistics:   s.stats.stats.Clone(),
		OrderCounter: s.counter,
	}
	for code, o := range s.orders {
		snap.Orders[code] = o.Clone()
	}
	for code, o := range s.history {
		snap.History[code] = o.Clone()
	}
	for code, r := range s.reviews {
		snap.Reviews[code] = r.Clone()
	}
	for code, date := range s.dueDates {
		snap.DueDates[code] = date
	}
	return snap
}

// Restore replaces the store state with snap. Pending events are dropped.
func (s *Store) Restore(snap *model.Snapshot) {
	if snap == nil {
		snap = model.NewSnapshot()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = make(map[string]*model.Order, len(snap.Orders))
	for code, o := range snap.Orders {
		oc := o.Clone()
		s.orders[code] = &oc
	}
	s.history = make(map[string]model.Order, len(snap.History))
	for code, o := range snap.History {
		s.history[code] = o.Clone()
	}
	s.reviews = make(map[string]model.Review, len(snap.Reviews))
	for code, r := range snap.Reviews {
		s.reviews[code] = r.Clone()
	}
	s.deps.restore(snap.Dependencies)
	s.dueDates = make(map[string]string, len(snap.DueDates))
	for code, date := range snap.DueDates {
		s.dueDates[code] = date
	}
	s.tokens.Restore(snap.Tokens)

	s.stats = newAggregator()
	s.stats.stats.TotalCreated = snap.Statistics.TotalCreated
	s.stats.stats.TotalCompleted = snap.Statistics.TotalCompleted
	for p, records := range snap.Statistics.CompletionTimesByPriority {
		s.stats.stats.CompletionTimesByPriority[p] = append([]model.CompletionRecord(nil), records...)
	}
	s.stats.recompute()

	s.counter = snap.OrderCounter
	if s.counter < 1 {
		s.counter = 1
	}
	s.outbox = nil

	s.logger.Info().
		Int("orders", len(s.orders)).
		Int("history", len(s.history)).
		Int("tokens", len(snap.Tokens)).
		Int64("order_counter", s.counter).
		Msg("store restored")
}
