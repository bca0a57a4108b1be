package queue

import (
	"fmt"

	"orderdesk/internal/model"
)

// aggregator maintains the completion statistics. It is driven only by
// completion and erasure.
type aggregator struct {
	stats model.Statistics
}

func newAggregator() *aggregator {
	return &aggregator{stats: model.Statistics{
		CompletionTimesByPriority: make(map[model.Priority][]model.CompletionRecord),
	}}
}

func (a *aggregator) created() {
	a.stats.TotalCreated++
}

// recordCompletion appends the duration to the priority bucket and
// recomputes the overall mean.
func (a *aggregator) recordCompletion(priority model.Priority, code string, durationMs int64) {
	a.stats.TotalCompleted++
	a.stats.CompletionTimesByPriority[priority] = append(
		a.stats.CompletionTimesByPriority[priority],
		model.CompletionRecord{OrderCode: code, DurationMs: durationMs},
	)
	a.recompute()
}

// erase removes the record of a completed order. It reports whether one
// was found.
func (a *aggregator) erase(code string) bool {
	for p, records := range a.stats.CompletionTimesByPriority {
		for i, r := range records {
			if r.OrderCode != code {
				continue
			}
			a.stats.CompletionTimesByPriority[p] = append(records[:i:i], records[i+1:]...)
			if a.stats.TotalCompleted > 0 {
				a.stats.TotalCompleted--
			}
			a.recompute()
			return true
		}
	}
	return false
}

func (a *aggregator) recompute() {
	var sum int64
	var n int
	for _, records := range a.stats.CompletionTimesByPriority {
		for _, r := range records {
			sum += r.DurationMs
			n++
		}
	}
	if n == 0 {
		a.stats.AverageCompletionTime = 0
		return
	}
	a.stats.AverageCompletionTime = float64(sum) / float64(n)
}

// averageFor returns the mean duration for priority, or 0 when there is
// no data.
func (a *aggregator) averageFor(priority model.Priority) float64 {
	records := a.stats.CompletionTimesByPriority[priority]
	if len(records) == 0 {
		return 0
	}
	var sum int64
	for _, r := range records {
		sum += r.DurationMs
	}
	return float64(sum) / float64(len(records))
}

// AverageFor returns the mean completion time in milliseconds for a
// priority. 0 means no data.
func (s *Store) AverageFor(priority model.Priority) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats.averageFor(priority)
}

// Statistics returns a copy of the aggregate counters.
func (s *Store) Statistics() model.Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats.stats.Clone()
}

// Stats builds the statistics view.
func (s *Store) Stats() model.StatsView {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	view := model.StatsView{
		ActiveOrders:   len(s.orders),
		TotalCreated:   s.stats.stats.TotalCreated,
		TotalCompleted: s.stats.stats.TotalCompleted,
		AverageMs:      s.stats.stats.AverageCompletionTime,
		AverageDisplay: formatAverage(s.stats.stats.AverageCompletionTime),
		ByStatus:       make(map[model.Status]int),
		Tokens:         s.tokens.Summary(),
		ReviewCount:    len(s.reviews),
	}

	activeByPriority := make(map[model.Priority]int)
	for code, o := range s.orders {
		view.ByStatus[o.Status]++
		activeByPriority[o.Priority]++
		if s.isOverdue(code, now) {
			view.OverdueOrders++
		}
	}

	for i := len(model.Priorities) - 1; i >= 0; i-- {
		p := model.Priorities[i]
		avg := s.stats.averageFor(p)
		view.ByPriority = append(view.ByPriority, model.PriorityStats{
			Priority:       p,
			Active:         activeByPriority[p],
			Completed:      len(s.stats.stats.CompletionTimesByPriority[p]),
			AverageMs:      avg,
			AverageDisplay: formatAverage(avg),
		})
	}

	if len(s.reviews) > 0 {
		var total int
		for _, r := range s.reviews {
			total += r.Rating
		}
		view.AverageRating = float64(total) / float64(len(s.reviews))
	}

	return view
}

// FormatDuration renders milliseconds as "2d 3h", "4h 5m" or "6m".
func FormatDuration(ms int64) string {
	const (
		minute = int64(60 * 1000)
		hour   = 60 * minute
		day    = 24 * hour
	)
	days := ms / day
	hours := (ms % day) / hour
	minutes := (ms % hour) / minute

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

func formatAverage(ms float64) string {
	if ms == 0 {
		return "N/A"
	}
	return FormatDuration(int64(ms))
}
