package model

import "time"

// Token is a promotional code that can be redeemed by exactly one order.
type Token struct {
	Code        string     `json:"code"`
	Description string     `json:"description"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CreatedBy   string     `json:"createdBy"`
	Used        bool       `json:"used"`
	UsedAt      *time.Time `json:"usedAt,omitempty"`
	UsedBy      string     `json:"usedBy,omitempty"`
	UsedInOrder string     `json:"usedInOrder,omitempty"`
}

// Clone returns a deep copy of t.
func (t Token) Clone() Token {
	if t.UsedAt != nil {
		at := *t.UsedAt
		t.UsedAt = &at
	}
	return t
}

// TokenFilter selects tokens by consumption state.
type TokenFilter string

const (
	TokenFilterAll       TokenFilter = "all"
	TokenFilterAvailable TokenFilter = "available"
	TokenFilterUsed      TokenFilter = "used"
)

// Matches reports whether t passes the filter. Unknown filters match all.
func (f TokenFilter) Matches(t Token) bool {
	switch f {
	case TokenFilterAvailable:
		return !t.Used
	case TokenFilterUsed:
		return t.Used
	}
	return true
}

// TokenSummary counts tokens by state.
type TokenSummary struct {
	Total     int `json:"total"`
	Used      int `json:"used"`
	Available int `json:"available"`
}
