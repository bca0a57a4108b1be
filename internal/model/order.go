package model

import "time"

// Attachment references a file hosted by the chat platform. It is stored
// as given and never fetched.
type Attachment struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	ContentType string `json:"contentType,omitempty"`
}

// Order is a tracked work item. Active orders live in the queue; completed
// orders live in history under the same code.
type Order struct {
	Code          string      `json:"code"`
	Description   string      `json:"description"`
	CustomerID    string      `json:"customerId"`
	CustomerTag   string      `json:"customerTag,omitempty"`
	Priority      Priority    `json:"priority"`
	Status        Status      `json:"status"`
	CreatedAt     time.Time   `json:"createdAt"`
	LastUpdated   time.Time   `json:"lastUpdated"`
	CreatedBy     string      `json:"createdBy"`
	ChannelID     string      `json:"channelId,omitempty"`
	Attachment    *Attachment `json:"attachment,omitempty"`
	TokenCode     string      `json:"tokenCode,omitempty"`
	QueuePosition *int        `json:"queuePosition,omitempty"`
	CompletedAt   *time.Time  `json:"completedAt,omitempty"`
	CompletedBy   string      `json:"completedBy,omitempty"`
}

// Clone returns a deep copy of o.
func (o Order) Clone() Order {
	if o.Attachment != nil {
		a := *o.Attachment
		o.Attachment = &a
	}
	if o.QueuePosition != nil {
		p := *o.QueuePosition
		o.QueuePosition = &p
	}
	if o.CompletedAt != nil {
		t := *o.CompletedAt
		o.CompletedAt = &t
	}
	return o
}

// NewOrder is the input for creating an order.
type NewOrder struct {
	Description string      `json:"description"`
	CustomerID  string      `json:"customerId"`
	CustomerTag string      `json:"customerTag,omitempty"`
	Priority    Priority    `json:"priority,omitempty"`
	Status      Status      `json:"status,omitempty"`
	CreatedBy   string      `json:"-"`
	ChannelID   string      `json:"channelId,omitempty"`
	Attachment  *Attachment `json:"attachment,omitempty"`
	TokenCode   string      `json:"tokenCode,omitempty"`
}

// QueueEntry is an active order together with its computed position.
type QueueEntry struct {
	Position int   `json:"position"`
	Order    Order `json:"order"`
}

// OrderDetails is the lookup view of a single order.
type OrderDetails struct {
	Order       Order    `json:"order"`
	Active      bool     `json:"active"`
	Position    int      `json:"position,omitempty"`
	DueDate     string   `json:"dueDate,omitempty"`
	Overdue     bool     `json:"overdue"`
	DependsOn   []string `json:"dependsOn,omitempty"`
	Dependents  []string `json:"dependents,omitempty"`
	CanComplete bool     `json:"canComplete"`
	Review      *Review  `json:"review,omitempty"`
	DaysOverdue int      `json:"daysOverdue,omitempty"`
}

// CustomerOrders lists one customer's active and completed orders.
type CustomerOrders struct {
	Active     []QueueEntry `json:"active"`
	Completed  []Order      `json:"completed"`
	Unreviewed int          `json:"unreviewed"`
}

// OverdueOrder is an active order whose due date has passed.
type OverdueOrder struct {
	Order       Order  `json:"order"`
	DueDate     string `json:"dueDate"`
	DaysOverdue int    `json:"daysOverdue"`
}

// StaleOrder is an order that has stayed pending longer than allowed.
type StaleOrder struct {
	Order   Order `json:"order"`
	DaysOld int   `json:"daysOld"`
}

// Attention is the result of the periodic sweep.
type Attention struct {
	Overdue     []OverdueOrder `json:"overdue"`
	LongPending []StaleOrder   `json:"longPending"`
}

// Empty reports whether nothing needs attention.
func (a Attention) Empty() bool {
	return len(a.Overdue) == 0 && len(a.LongPending) == 0
}

// CompletionResult describes a successful completion.
type CompletionResult struct {
	Order         Order    `json:"order"`
	Ready         []string `json:"ready,omitempty"`
	TokenConsumed bool     `json:"tokenConsumed"`
}

// BulkFailure explains why one code of a bulk completion failed.
type BulkFailure struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// BulkResult collects the outcome of a bulk completion.
type BulkResult struct {
	Completed []CompletionResult `json:"completed"`
	Failed    []BulkFailure      `json:"failed,omitempty"`
}

// ErasedOrder records what was erased.
type ErasedOrder struct {
	Order     Order     `json:"order"`
	WasActive bool      `json:"wasActive"`
	ErasedAt  time.Time `json:"erasedAt"`
	ErasedBy  string    `json:"erasedBy"`
	Reason    string    `json:"reason"`
}
