package token

import (
	"fmt"
	"sort"
	"time"

	"orderdesk/internal/model"
)

// Ledger tracks issued promotional tokens. It is not safe for concurrent
// use; the order store serialises access to it.
type Ledger struct {
	tokens map[string]model.Token
	gen    *Generator
	now    func() time.Time
}

// NewLedger creates an empty ledger.
func NewLedger(gen *Generator, now func() time.Time) *Ledger {
	if gen == nil {
		gen = NewGenerator(nil)
	}
	if now == nil {
		now = time.Now
	}
	return &Ledger{
		tokens: make(map[string]model.Token),
		gen:    gen,
		now:    now,
	}
}

// Issue allocates a fresh unused token.
func (l *Ledger) Issue(description, notes, createdBy string) model.Token {
	code := l.gen.Next(l.exists)
	t := model.Token{
		Code:        code,
		Description: description,
		Notes:       notes,
		CreatedAt:   l.now().UTC(),
		CreatedBy:   createdBy,
	}
	l.tokens[code] = t
	return t.Clone()
}

// Validate reports whether code names an existing, unused token.
func (l *Ledger) Validate(code string) bool {
	t, ok := l.tokens[Normalize(code)]
	return ok && !t.Used
}

// Consume marks the token used by orderCode. It returns false, changing
// nothing, when the token is missing or already used.
func (l *Ledger) Consume(code, orderCode, usedBy string) bool {
	code = Normalize(code)
	t, ok := l.tokens[code]
	if !ok || t.Used {
		return false
	}
	at := l.now().UTC()
	t.Used = true
	t.UsedAt = &at
	t.UsedBy = usedBy
	t.UsedInOrder = orderCode
	l.tokens[code] = t
	return true
}

// Remove deletes a token regardless of its state and returns it.
func (l *Ledger) Remove(code string) (model.Token, error) {
	code = Normalize(code)
	t, ok := l.tokens[code]
	if !ok {
		return model.Token{}, fmt.Errorf("token %s: %w", code, model.ErrTokenNotFound)
	}
	delete(l.tokens, code)
	return t, nil
}

// Get returns a copy of the token.
func (l *Ledger) Get(code string) (model.Token, error) {
	code = Normalize(code)
	t, ok := l.tokens[code]
	if !ok {
		return model.Token{}, fmt.Errorf("token %s: %w", code, model.ErrTokenNotFound)
	}
	return t.Clone(), nil
}

// List returns the tokens passing filter, newest first.
func (l *Ledger) List(filter model.TokenFilter) []model.Token {
	out := make([]model.Token, 0, len(l.tokens))
	for _, t := range l.tokens {
		if filter.Matches(t) {
			out = append(out, t.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// Summary counts tokens by state.
func (l *Ledger) Summary() model.TokenSummary {
	var s model.TokenSummary
	for _, t := range l.tokens {
		s.Total++
		if t.Used {
			s.Used++
		}
	}
	s.Available = s.Total - s.Used
	return s
}

// Import registers every well-formed code of set that is not already
// live. Malformed and colliding codes are returned as skipped.
func (l *Ledger) Import(set CodeSet, description, createdBy string) (imported, skipped []string) {
	at := l.now().UTC()
	for _, raw := range set.Codes() {
		code := Normalize(raw)
		if !IsWellFormed(code) || l.exists(code) {
			skipped = append(skipped, raw)
			continue
		}
		l.tokens[code] = model.Token{
			Code:        code,
			Description: description,
			CreatedAt:   at,
			CreatedBy:   createdBy,
		}
		imported = append(imported, code)
	}
	return imported, skipped
}

// Snapshot returns a deep copy of every token keyed by code.
func (l *Ledger) Snapshot() map[string]model.Token {
	out := make(map[string]model.Token, len(l.tokens))
	for code, t := range l.tokens {
		out[code] = t.Clone()
	}
	return out
}

// Restore replaces the ledger contents with tokens.
func (l *Ledger) Restore(tokens map[string]model.Token) {
	l.tokens = make(map[string]model.Token, len(tokens))
	for code, t := range tokens {
		l.tokens[code] = t.Clone()
	}
}

func (l *Ledger) exists(code string) bool {
	_, ok := l.tokens[code]
	return ok
}
