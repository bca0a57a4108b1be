package queue

import (
	"fmt"
	"sort"

	"orderdesk/internal/model"
)

// ordered returns the active orders in queue order.
//
// The natural order is priority weight descending, then creation time
// ascending, with equal keys keeping code order. After a manual move
// every active order carries a QueuePosition hint and the hints decide
// the order instead, until the next insertion or priority change clears
// them.
func (s *Store) ordered() []*model.Order {
	list := make([]*model.Order, 0, len(s.orders))
	manual := len(s.orders) > 0
	for _, o := range s.orders {
		list = append(list, o)
		if o.QueuePosition == nil {
			manual = false
		}
	}

	sort.Slice(list, func(i, j int) bool { return lessCode(list[i].Code, list[j].Code) })

	if manual {
		sort.SliceStable(list, func(i, j int) bool {
			return *list[i].QueuePosition < *list[j].QueuePosition
		})
		return list
	}

	sort.SliceStable(list, func(i, j int) bool {
		wi, wj := list[i].Priority.Weight(), list[j].Priority.Weight()
		if wi != wj {
			return wi > wj
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list
}

func (s *Store) position(code string) (int, bool) {
	for i, o := range s.ordered() {
		if o.Code == code {
			return i + 1, true
		}
	}
	return 0, false
}

// clearManualOrder drops every QueuePosition hint so the natural order
// applies again.
func (s *Store) clearManualOrder() {
	for _, o := range s.orders {
		o.QueuePosition = nil
	}
}

// Position returns the 1-based rank of an active order.
func (s *Store) Position(code string) (int, error) {
	code = normalizeCode(code)

	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.position(code)
	if !ok {
		return 0, fmt.Errorf("order %s is not in the queue: %w", code, model.ErrOrderNotFound)
	}
	return pos, nil
}

// Queue returns every active order with its position.
func (s *Store) Queue() []model.QueueEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.ordered()
	out := make([]model.QueueEntry, 0, len(list))
	for i, o := range list {
		out = append(out, model.QueueEntry{Position: i + 1, Order: o.Clone()})
	}
	return out
}

// MoveToPosition takes the order out of its current place and reinserts
// it at target. Targets past the end of the queue place it last. It
// returns the resulting position.
func (s *Store) MoveToPosition(code string, target int, actor string) (int, error) {
	code = normalizeCode(code)
	if target < 1 {
		return 0, model.ErrInvalidPosition
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[code]
	if !ok {
		return 0, fmt.Errorf("order %s is not in the queue: %w", code, model.ErrOrderNotFound)
	}

	from, pos := s.moveTo(o, target)
	o.LastUpdated = s.clock()

	s.emit(model.EventOrderMoved, o, actor,
		fmt.Sprintf("Order %s moved from position %d to %d", code, from, pos),
		map[string]any{"from": from, "to": pos})

	return pos, nil
}

func (s *Store) moveTo(o *model.Order, target int) (from, to int) {
	list := s.ordered()

	rest := make([]*model.Order, 0, len(list))
	for i, cur := range list {
		if cur == o {
			from = i + 1
			continue
		}
		rest = append(rest, cur)
	}

	idx := target - 1
	if idx > len(rest) {
		idx = len(rest)
	}
	rest = append(rest, nil)
	copy(rest[idx+1:], rest[idx:])
	rest[idx] = o

	for i, cur := range rest {
		p := i + 1
		cur.QueuePosition = &p
	}
	return from, idx + 1
}

// Rush raises the order to urgent and moves it to the front of the queue.
func (s *Store) Rush(code, actor string) (model.Order, error) {
	code = normalizeCode(code)

	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[code]
	if !ok {
		return model.Order{}, fmt.Errorf("order %s is not in the queue: %w", code, model.ErrOrderNotFound)
	}

	previous := o.Priority
	o.Priority = model.PriorityUrgent
	s.clearManualOrder()
	s.moveTo(o, 1)
	o.LastUpdated = s.clock()

	s.emit(model.EventOrderRushed, o, actor,
		fmt.Sprintf("Order %s was rushed to the front of the queue", code),
		map[string]any{"previousPriority": string(previous)})

	return o.Clone(), nil
}
