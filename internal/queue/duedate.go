package queue

import (
	"fmt"
	"sort"
	"time"

	"orderdesk/internal/model"
)

// DueDateLayout is the accepted due date format.
const DueDateLayout = "2006-01-02"

// DefaultPendingThreshold is how long an order may stay pending before
// the attention sweep reports it.
const DefaultPendingThreshold = 7 * 24 * time.Hour

const day = 24 * time.Hour

// SetDueDate records a due date for an active order.
func (s *Store) SetDueDate(code, date, actor string) (string, error) {
	code = normalizeCode(code)
	due, err := time.Parse(DueDateLayout, date)
	if err != nil {
		return "", model.ErrInvalidDueDate
	}
	date = due.Format(DueDateLayout)

	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[code]
	if !ok {
		return "", fmt.Errorf("order %s is not in the queue: %w", code, model.ErrOrderNotFound)
	}

	s.dueDates[code] = date
	o.LastUpdated = s.clock()

	s.emit(model.EventDueDateSet, o, actor,
		fmt.Sprintf("Order %s is due on %s", code, date),
		map[string]any{"dueDate": date})

	return date, nil
}

// daysOverdue returns how far now is past the start of the due date.
// ok is false when the order has no due date or is not overdue.
func (s *Store) daysOverdue(code string, now time.Time) (days int, ok bool) {
	date, has := s.dueDates[code]
	if !has {
		return 0, false
	}
	due, err := time.Parse(DueDateLayout, date)
	if err != nil || !now.After(due) {
		return 0, false
	}
	return int(now.Sub(due) / day), true
}

func (s *Store) isOverdue(code string, now time.Time) bool {
	_, ok := s.daysOverdue(code, now)
	return ok
}

func (s *Store) overdue(now time.Time) []model.OverdueOrder {
	var out []model.OverdueOrder
	for code, o := range s.orders {
		days, ok := s.daysOverdue(code, now)
		if !ok {
			continue
		}
		out = append(out, model.OverdueOrder{
			Order:       o.Clone(),
			DueDate:     s.dueDates[code],
			DaysOverdue: days,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DueDate != out[j].DueDate {
			return out[i].DueDate < out[j].DueDate
		}
		return lessCode(out[i].Order.Code, out[j].Order.Code)
	})
	return out
}

// Overdue lists active orders whose due date has passed, earliest first.
func (s *Store) Overdue() []model.OverdueOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overdue(s.clock())
}

// Attention lists overdue orders and orders that have been pending for
// longer than threshold. A non-positive threshold uses the default.
func (s *Store) Attention(threshold time.Duration) model.Attention {
	if threshold <= 0 {
		threshold = DefaultPendingThreshold
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	out := model.Attention{Overdue: s.overdue(now)}
	for _, o := range s.orders {
		age := now.Sub(o.CreatedAt)
		if o.Status != model.StatusPending || age <= threshold {
			continue
		}
		out.LongPending = append(out.LongPending, model.StaleOrder{
			Order:   o.Clone(),
			DaysOld: int(age / day),
		})
	}
	sort.Slice(out.LongPending, func(i, j int) bool {
		a, b := out.LongPending[i].Order, out.LongPending[j].Order
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return lessCode(a.Code, b.Code)
	})
	return out
}
