// Package queue holds the in-memory order desk: the active queue, the
// history of completed orders, the dependency graph between orders,
// reviews, due dates, completion statistics and the token ledger.
//
// Every exported method of Store runs as one critical section. Mutations
// queue notification events in an outbox which the caller drains after
// the call returns, so no I/O happens while the lock is held.
package queue

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"orderdesk/internal/model"
	"orderdesk/internal/token"
)

// DefaultCodePrefix is prepended to the order sequence number.
const DefaultCodePrefix = "ED"

// Store owns all order desk state.
type Store struct {
	mu sync.Mutex

	orders   map[string]*model.Order
	history  map[string]model.Order
	reviews  map[string]model.Review
	deps     *dependencyGraph
	dueDates map[string]string
	tokens   *token.Ledger
	stats    *aggregator
	counter  int64

	prefix string
	now    func() time.Time
	outbox []model.Event
	logger zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithCodePrefix sets the order code prefix.
func WithCodePrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithTokenGenerator sets the generator used for new token codes.
func WithTokenGenerator(gen *token.Generator) Option {
	return func(s *Store) {
		s.tokens = token.NewLedger(gen, s.clock)
	}
}

// NewStore creates an empty store.
func NewStore(logger zerolog.Logger, opts ...Option) *Store {
	s := &Store{
		orders:   make(map[string]*model.Order),
		history:  make(map[string]model.Order),
		reviews:  make(map[string]model.Review),
		deps:     newDependencyGraph(),
		dueDates: make(map[string]string),
		stats:    newAggregator(),
		counter:  1,
		prefix:   DefaultCodePrefix,
		now:      time.Now,
		logger:   logger.With().Str("component", "order-store").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tokens == nil {
		s.tokens = token.NewLedger(nil, s.clock)
	}
	return s
}

// clock returns the current time in UTC without a monotonic reading, so
// stored timestamps compare equal after a snapshot round trip.
func (s *Store) clock() time.Time {
	return s.now().UTC()
}

// DrainEvents returns and clears the queued notification events.
func (s *Store) DrainEvents() []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.outbox
	s.outbox = nil
	return events
}

func (s *Store) emit(eventType model.EventType, order *model.Order, actor, message string, data map[string]any) {
	ev := model.NewEvent(eventType, s.clock())
	ev.Actor = actor
	ev.Message = message
	ev.Data = data
	if order != nil {
		ev.OrderCode = order.Code
		ev.Recipient = order.CustomerID
	}
	s.outbox = append(s.outbox, ev)
}

// normalizeCode canonicalises an order code typed by a user.
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// lessCode orders codes by length, then lexically, so ED1000 sorts
// after ED999.
func lessCode(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// lookup returns the order from the queue or history.
func (s *Store) lookup(code string) (model.Order, bool) {
	if o, ok := s.orders[code]; ok {
		return *o, true
	}
	o, ok := s.history[code]
	return o, ok
}
