package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"orderdesk/internal/model"
	"orderdesk/internal/notify"
	"orderdesk/internal/queue"
	"orderdesk/internal/repository"
	"orderdesk/internal/token"
)

// tokenService implements TokenService.
type tokenService struct {
	store       *queue.Store
	loader      token.Loader
	description string
	disp        *dispatcher
	logger      zerolog.Logger
}

// NewTokenService creates a new token service. loader may be nil when
// batch imports are not configured; description labels imported tokens.
func NewTokenService(
	store *queue.Store,
	loader token.Loader,
	description string,
	repo repository.SnapshotRepository,
	notifier notify.Notifier,
	logger zerolog.Logger,
) TokenService {
	logger = logger.With().Str("service", "token").Logger()
	return &tokenService{
		store:       store,
		loader:      loader,
		description: description,
		disp:        newDispatcher(store, repo, notifier, logger),
		logger:      logger,
	}
}

func (s *tokenService) Issue(ctx context.Context, description, notes, actor string) model.Token {
	t := s.store.IssueToken(description, notes, actor)
	s.logger.Info().Str("token", t.Code).Str("actor", actor).Msg("token issued")
	s.disp.commit(ctx)
	return t
}

func (s *tokenService) Get(code string) (model.Token, error) {
	return s.store.Token(code)
}

func (s *tokenService) List(filter model.TokenFilter) []model.Token {
	return s.store.Tokens(filter)
}

func (s *tokenService) Summary() model.TokenSummary {
	return s.store.TokenSummary()
}

func (s *tokenService) Remove(ctx context.Context, code, reason, actor string) (model.Token, error) {
	t, err := s.store.RemoveToken(code, reason, actor)
	if err != nil {
		return model.Token{}, err
	}

	s.logger.Info().
		Str("token", t.Code).
		Str("actor", actor).
		Str("reason", reason).
		Bool("was_used", t.Used).
		Msg("token removed")

	s.disp.commit(ctx)
	return t, nil
}

func (s *tokenService) Import(ctx context.Context, path, actor string) (ImportResult, error) {
	if s.loader == nil {
		return ImportResult{}, fmt.Errorf("token import is not configured")
	}

	set, err := s.loader.Load(ctx, path)
	if err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("failed to load token batch")
		return ImportResult{}, fmt.Errorf("failed to import %s: %w", path, err)
	}

	imported, skipped := s.store.ImportTokens(set, s.description, actor)

	s.logger.Info().
		Str("path", path).
		Int("imported", len(imported)).
		Int("skipped", len(skipped)).
		Msg("token batch imported")

	if len(imported) > 0 {
		s.disp.commit(ctx)
	}
	return ImportResult{Path: path, Imported: imported, Skipped: skipped}, nil
}
