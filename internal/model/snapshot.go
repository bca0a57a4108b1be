package model

// Snapshot is the complete serialisable state of the order desk. Each
// entity kind is a flat mapping keyed by code.
type Snapshot struct {
	Orders       map[string]Order    `json:"orders"`
	History      map[string]Order    `json:"history"`
	Reviews      map[string]Review   `json:"reviews"`
	Dependencies map[string][]string `json:"dependencies"`
	DueDates     map[string]string   `json:"dueDates"`
	Tokens       map[string]Token    `json:"tokens"`
	Statistics   Statistics          `json:"statistics"`
	OrderCounter int64               `json:"orderCounter"`
}

// NewSnapshot returns an empty snapshot with every map allocated.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Orders:       map[string]Order{},
		History:      map[string]Order{},
		Reviews:      map[string]Review{},
		Dependencies: map[string][]string{},
		DueDates:     map[string]string{},
		Tokens:       map[string]Token{},
		Statistics: Statistics{
			CompletionTimesByPriority: map[Priority][]CompletionRecord{},
		},
		OrderCounter: 1,
	}
}

// Snapshot entity kinds, used as file names, table keys and hash names by
// the persistence backends.
const (
	KindOrders       = "orders"
	KindHistory      = "history"
	KindReviews      = "reviews"
	KindDependencies = "dependencies"
	KindDueDates     = "due_dates"
	KindTokens       = "tokens"
	KindStatistics   = "statistics"
	KindCounter      = "order_counter"
)
