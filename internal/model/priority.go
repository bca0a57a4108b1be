package model

import "strings"

// Priority ranks an order within the queue.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// PriorityInfo is the display metadata of a priority.
type PriorityInfo struct {
	Weight int    `json:"weight"`
	Name   string `json:"name"`
	Emoji  string `json:"emoji"`
}

var priorities = map[Priority]PriorityInfo{
	PriorityLow:    {Weight: 1, Name: "Low", Emoji: "🟢"},
	PriorityNormal: {Weight: 2, Name: "Normal", Emoji: "🟡"},
	PriorityHigh:   {Weight: 3, Name: "High", Emoji: "🟠"},
	PriorityUrgent: {Weight: 4, Name: "Urgent", Emoji: "🔴"},
}

// Priorities lists every priority from lowest to highest weight.
var Priorities = []Priority{PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent}

// ParsePriority normalises s into a Priority. An empty string yields
// PriorityNormal.
func ParsePriority(s string) (Priority, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PriorityNormal, nil
	}
	p := Priority(s)
	if !p.IsValid() {
		return "", NewDomainError(ErrCodeInvalidRange, "unknown priority: "+s)
	}
	return p, nil
}

// IsValid reports whether p is a known priority.
func (p Priority) IsValid() bool {
	_, ok := priorities[p]
	return ok
}

// Weight returns the ordering weight; unknown priorities weigh as normal.
func (p Priority) Weight() int {
	if info, ok := priorities[p]; ok {
		return info.Weight
	}
	return priorities[PriorityNormal].Weight
}

// Info returns the display metadata for p.
func (p Priority) Info() PriorityInfo {
	if info, ok := priorities[p]; ok {
		return info
	}
	return PriorityInfo{Weight: p.Weight(), Name: "Unknown", Emoji: "⚪"}
}
