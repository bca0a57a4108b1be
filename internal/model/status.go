package model

import "strings"

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPending       Status = "pending"
	StatusPreparing     Status = "preparing"
	StatusManufacturing Status = "manufacturing"
	StatusQualityCheck  Status = "quality_check"
	StatusReady         Status = "ready"
	StatusCompleted     Status = "completed"
	StatusCancelled     Status = "cancelled"
	StatusOnHold        Status = "on_hold"
)

// StatusInfo is the display metadata of a status.
type StatusInfo struct {
	Name        string `json:"name"`
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
}

var statuses = map[Status]StatusInfo{
	StatusPending:       {Name: "Pending", Emoji: "⏳", Description: "Order received, waiting to start"},
	StatusPreparing:     {Name: "Preparing", Emoji: "📋", Description: "Gathering materials and planning"},
	StatusManufacturing: {Name: "Manufacturing", Emoji: "🔨", Description: "Currently being created"},
	StatusQualityCheck:  {Name: "Quality Check", Emoji: "🔍", Description: "Reviewing and testing"},
	StatusReady:         {Name: "Ready for Delivery", Emoji: "📦", Description: "Completed and ready for pickup/delivery"},
	StatusCompleted:     {Name: "Completed", Emoji: "✅", Description: "Order fulfilled and delivered"},
	StatusCancelled:     {Name: "Cancelled", Emoji: "❌", Description: "Order was cancelled"},
	StatusOnHold:        {Name: "On Hold", Emoji: "⏸️", Description: "Temporarily paused"},
}

// ParseStatus normalises s into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", NewDomainError(ErrCodeInvalidRange, "unknown status: "+s)
	}
	return st, nil
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	_, ok := statuses[s]
	return ok
}

// IsActive reports whether an order in status s lives in the active queue.
func (s Status) IsActive() bool {
	return s.IsValid() && s != StatusCompleted
}

// IsInitial reports whether s may be chosen when an order is created.
func (s Status) IsInitial() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusManufacturing:
		return true
	}
	return false
}

// Info returns the display metadata for s.
func (s Status) Info() StatusInfo {
	if info, ok := statuses[s]; ok {
		return info
	}
	return StatusInfo{Name: "Unknown", Emoji: "⚪"}
}
