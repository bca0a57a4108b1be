package model

// HistorySort selects the ordering of a history query.
type HistorySort string

const (
	HistoryNewest HistorySort = "newest"
	HistoryOldest HistorySort = "oldest"
	HistoryByCode HistorySort = "code"
)

// HistoryPageSize is the number of completed orders per page.
const HistoryPageSize = 8

// HistoryQuery filters and pages completed orders.
type HistoryQuery struct {
	Page       int
	CustomerID string
	Priority   Priority
	Sort       HistorySort
}

// HistoryEntry is a completed order with derived fields.
type HistoryEntry struct {
	Index          int    `json:"index"`
	Order          Order  `json:"order"`
	ProcessingMs   int64  `json:"processingMs"`
	ProcessingTime string `json:"processingTime"`
	HasReview      bool   `json:"hasReview"`
}

// HistoryPage is one page of history plus a summary of the filtered set.
type HistoryPage struct {
	Page              int              `json:"page"`
	TotalPages        int              `json:"totalPages"`
	TotalOrders       int              `json:"totalOrders"`
	Entries           []HistoryEntry   `json:"entries"`
	AverageProcessing string           `json:"averageProcessing"`
	PriorityBreakdown map[Priority]int `json:"priorityBreakdown"`
	Reviewed          int              `json:"reviewed"`
	ReviewCoverage    int              `json:"reviewCoverage"`
}
