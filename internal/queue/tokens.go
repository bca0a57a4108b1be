package queue

import (
	"fmt"

	"orderdesk/internal/model"
	"orderdesk/internal/token"
)

// IssueToken allocates a fresh promotional token.
func (s *Store) IssueToken(description, notes, actor string) model.Token {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tokens.Issue(description, notes, actor)
	s.emit(model.EventTokenIssued, nil, actor,
		fmt.Sprintf("Token %s issued: %s", t.Code, description),
		map[string]any{"token": t.Code})
	return t
}

// ValidateToken reports whether code is an existing unused token.
func (s *Store) ValidateToken(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens.Validate(code)
}

// ConsumeToken marks a token used by an order. It returns true exactly
// once per token.
func (s *Store) ConsumeToken(code, orderCode, usedBy string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens.Consume(code, normalizeCode(orderCode), usedBy)
}

// RemoveToken deletes a token whatever its state. The reason only goes to
// the removal event.
func (s *Store) RemoveToken(code, reason, actor string) (model.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.tokens.Remove(code)
	if err != nil {
		return model.Token{}, err
	}
	s.emit(model.EventTokenRemoved, nil, actor,
		fmt.Sprintf("Token %s removed", t.Code),
		map[string]any{"token": t.Code, "reason": reason, "wasUsed": t.Used})
	return t, nil
}

// Token returns one token.
func (s *Store) Token(code string) (model.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens.Get(code)
}

// Tokens lists tokens matching filter, newest first.
func (s *Store) Tokens(filter model.TokenFilter) []model.Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens.List(filter)
}

// TokenSummary counts tokens by state.
func (s *Store) TokenSummary() model.TokenSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens.Summary()
}

// ImportTokens registers a batch of pre-printed codes.
func (s *Store) ImportTokens(set token.CodeSet, description, actor string) (imported, skipped []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens.Import(set, description, actor)
}
