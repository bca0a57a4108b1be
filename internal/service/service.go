// Package service runs order desk commands: it calls the in-memory store,
// persists a snapshot after every change and hands the resulting events
// to the notification sink.
package service

import (
	"context"

	"orderdesk/internal/model"
)

// OrderService defines the order commands and queries.
type OrderService interface {
	// Create places a new order in the queue.
	Create(ctx context.Context, in model.NewOrder) (model.Order, error)

	// SetStatus assigns an active status to an active order.
	SetStatus(ctx context.Context, code string, status model.Status, actor string) (model.Order, error)

	// Complete moves an order to history once its prerequisites are done.
	Complete(ctx context.Context, code, actor string) (model.CompletionResult, error)

	// BulkComplete completes several orders in turn.
	BulkComplete(ctx context.Context, codes []string, actor string) model.BulkResult

	// Remove drops an active order without recording it in history.
	Remove(ctx context.Context, code, actor string) (model.Order, error)

	// Erase permanently deletes an order and everything attached to it.
	Erase(ctx context.Context, code, actor, reason string) (model.ErasedOrder, error)

	// Move places an order at a 1-based queue position.
	Move(ctx context.Context, code string, position int, actor string) (int, error)

	// Rush makes an order urgent and puts it first.
	Rush(ctx context.Context, code, actor string) (model.Order, error)

	// AddDependency makes dependent wait for prerequisite.
	AddDependency(ctx context.Context, dependent, prerequisite, actor string) error

	// SetDueDate records a YYYY-MM-DD due date on an active order.
	SetDueDate(ctx context.Context, code, date, actor string) (string, error)

	// AddReview records the customer's rating of a completed order.
	AddReview(ctx context.Context, in model.NewReview) (model.Review, error)

	Find(code string) (model.OrderDetails, error)
	Position(code string) (int, error)
	Queue() []model.QueueEntry
	OrdersFor(customerID string) model.CustomerOrders
	History(q model.HistoryQuery) (model.HistoryPage, error)
	Overdue() []model.OverdueOrder
	Stats() model.StatsView
}

// TokenService defines promotional token management.
type TokenService interface {
	Issue(ctx context.Context, description, notes, actor string) model.Token
	Get(code string) (model.Token, error)
	List(filter model.TokenFilter) []model.Token
	Summary() model.TokenSummary
	Remove(ctx context.Context, code, reason, actor string) (model.Token, error)

	// Import loads a gzip batch of pre-printed codes.
	Import(ctx context.Context, path, actor string) (ImportResult, error)
}

// MaintenanceService covers persistence and the periodic sweep.
type MaintenanceService interface {
	// Restore replaces the store state with the saved snapshot, if any.
	Restore(ctx context.Context) error

	// SaveNow persists the current state.
	SaveNow(ctx context.Context) error

	// Sweep reports orders needing attention and notifies about them.
	Sweep(ctx context.Context) model.Attention
}

// ImportResult reports a token batch import.
type ImportResult struct {
	Path     string   `json:"path"`
	Imported []string `json:"imported"`
	Skipped  []string `json:"skipped,omitempty"`
}
