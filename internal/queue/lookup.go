package queue

import (
	"fmt"
	"math"
	"sort"

	"orderdesk/internal/model"
)

// Find returns an order from the queue or history with everything known
// about it.
func (s *Store) Find(code string) (model.OrderDetails, error) {
	code = normalizeCode(code)

	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.lookup(code)
	if !ok {
		return model.OrderDetails{}, fmt.Errorf("order %s: %w", code, model.ErrOrderNotFound)
	}

	details := model.OrderDetails{
		Order:       order.Clone(),
		DueDate:     s.dueDates[code],
		DependsOn:   s.deps.prerequisites(code),
		Dependents:  s.deps.dependentsOf(code),
		CanComplete: len(s.unmet(code)) == 0,
	}
	if pos, active := s.position(code); active {
		details.Active = true
		details.Position = pos
		details.DaysOverdue, details.Overdue = s.daysOverdue(code, s.clock())
	}
	if r, reviewed := s.reviews[code]; reviewed {
		rc := r.Clone()
		details.Review = &rc
	}
	return details, nil
}

// OrdersFor lists one customer's active orders with their positions and
// completed orders newest first.
func (s *Store) OrdersFor(customerID string) model.CustomerOrders {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := model.CustomerOrders{
		Active:    []model.QueueEntry{},
		Completed: []model.Order{},
	}
	for i, o := range s.ordered() {
		if o.CustomerID == customerID {
			out.Active = append(out.Active, model.QueueEntry{Position: i + 1, Order: o.Clone()})
		}
	}
	for code, o := range s.history {
		if o.CustomerID != customerID {
			continue
		}
		out.Completed = append(out.Completed, o.Clone())
		if _, reviewed := s.reviews[code]; !reviewed {
			out.Unreviewed++
		}
	}
	sortHistory(out.Completed, model.HistoryNewest)
	return out
}

// History returns one page of completed orders.
func (s *Store) History(q model.HistoryQuery) (model.HistoryPage, error) {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Page < 1 {
		return model.HistoryPage{}, model.ErrInvalidPage
	}
	switch q.Sort {
	case "":
		q.Sort = model.HistoryNewest
	case model.HistoryNewest, model.HistoryOldest, model.HistoryByCode:
	default:
		return model.HistoryPage{}, model.NewDomainError(model.ErrCodeInvalidRange, "unknown sort: "+string(q.Sort))
	}
	if q.Priority != "" && !q.Priority.IsValid() {
		return model.HistoryPage{}, model.NewDomainError(model.ErrCodeInvalidRange, "unknown priority: "+string(q.Priority))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var orders []model.Order
	for _, o := range s.history {
		if q.CustomerID != "" && o.CustomerID != q.CustomerID {
			continue
		}
		if q.Priority != "" && o.Priority != q.Priority {
			continue
		}
		orders = append(orders, o)
	}
	sortHistory(orders, q.Sort)

	total := len(orders)
	totalPages := (total + model.HistoryPageSize - 1) / model.HistoryPageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if q.Page > totalPages {
		return model.HistoryPage{}, fmt.Errorf("page %d of %d: %w", q.Page, totalPages, model.ErrInvalidPage)
	}

	page := model.HistoryPage{
		Page:              q.Page,
		TotalPages:        totalPages,
		TotalOrders:       total,
		Entries:           []model.HistoryEntry{},
		AverageProcessing: "N/A",
		PriorityBreakdown: make(map[model.Priority]int),
	}

	var sum int64
	for _, o := range orders {
		sum += processingMs(o)
		page.PriorityBreakdown[o.Priority]++
		if _, reviewed := s.reviews[o.Code]; reviewed {
			page.Reviewed++
		}
	}
	if total > 0 {
		page.AverageProcessing = FormatDuration(sum / int64(total))
		page.ReviewCoverage = int(math.Round(float64(page.Reviewed) * 100 / float64(total)))
	}

	start := (q.Page - 1) * model.HistoryPageSize
	end := min(start+model.HistoryPageSize, total)
	for i, o := range orders[start:end] {
		ms := processingMs(o)
		_, reviewed := s.reviews[o.Code]
		page.Entries = append(page.Entries, model.HistoryEntry{
			Index:          start + i + 1,
			Order:          o.Clone(),
			ProcessingMs:   ms,
			ProcessingTime: FormatDuration(ms),
			HasReview:      reviewed,
		})
	}

	return page, nil
}

func completedAt(o model.Order) int64 {
	if o.CompletedAt != nil {
		return o.CompletedAt.UnixMilli()
	}
	return o.LastUpdated.UnixMilli()
}

func processingMs(o model.Order) int64 {
	return completedAt(o) - o.CreatedAt.UnixMilli()
}

func sortHistory(orders []model.Order, by model.HistorySort) {
	sort.Slice(orders, func(i, j int) bool {
		a, b := orders[i], orders[j]
		switch by {
		case model.HistoryByCode:
			return lessCode(a.Code, b.Code)
		case model.HistoryOldest:
			if completedAt(a) != completedAt(b) {
				return completedAt(a) < completedAt(b)
			}
			return lessCode(a.Code, b.Code)
		default:
			if completedAt(a) != completedAt(b) {
				return completedAt(a) > completedAt(b)
			}
			return lessCode(b.Code, a.Code)
		}
	})
}
