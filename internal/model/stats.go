package model

// CompletionRecord is the time one order took from creation to completion.
type CompletionRecord struct {
	OrderCode  string `json:"orderCode"`
	DurationMs int64  `json:"durationMs"`
}

// Statistics holds the aggregate completion counters.
type Statistics struct {
	TotalCreated              int                             `json:"totalCreated"`
	TotalCompleted            int                             `json:"totalCompleted"`
	AverageCompletionTime     float64                         `json:"averageCompletionTime"`
	CompletionTimesByPriority map[Priority][]CompletionRecord `json:"completionTimesByPriority"`
}

// Clone returns a deep copy of s.
func (s Statistics) Clone() Statistics {
	out := s
	out.CompletionTimesByPriority = make(map[Priority][]CompletionRecord, len(s.CompletionTimesByPriority))
	for p, records := range s.CompletionTimesByPriority {
		out.CompletionTimesByPriority[p] = append([]CompletionRecord(nil), records...)
	}
	return out
}

// PriorityStats is the per-priority line of the statistics view.
type PriorityStats struct {
	Priority       Priority `json:"priority"`
	Active         int      `json:"active"`
	Completed      int      `json:"completed"`
	AverageMs      float64  `json:"averageMs"`
	AverageDisplay string   `json:"averageDisplay"`
}

// StatsView is the read model returned by the statistics query.
type StatsView struct {
	ActiveOrders   int             `json:"activeOrders"`
	TotalCreated   int             `json:"totalCreated"`
	TotalCompleted int             `json:"totalCompleted"`
	AverageMs      float64         `json:"averageMs"`
	AverageDisplay string          `json:"averageDisplay"`
	OverdueOrders  int             `json:"overdueOrders"`
	ByStatus       map[Status]int  `json:"byStatus"`
	ByPriority     []PriorityStats `json:"byPriority"`
	Tokens         TokenSummary    `json:"tokens"`
	ReviewCount    int             `json:"reviewCount"`
	AverageRating  float64         `json:"averageRating"`
}
