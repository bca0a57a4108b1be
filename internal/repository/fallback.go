package repository

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"orderdesk/internal/model"
)

// fallbackRepository writes to two backends and reads from the first one
// that has data.
type fallbackRepository struct {
	primary   SnapshotRepository
	secondary SnapshotRepository
	logger    zerolog.Logger
}

// NewFallbackRepository saves to both repositories. Save fails only when
// both fail. Load prefers primary and falls back to secondary when primary
// errors or is empty.
func NewFallbackRepository(primary, secondary SnapshotRepository, logger zerolog.Logger) SnapshotRepository {
	return &fallbackRepository{
		primary:   primary,
		secondary: secondary,
		logger:    logger.With().Str("repository", "fallback").Logger(),
	}
}

func (r *fallbackRepository) Save(ctx context.Context, snap *model.Snapshot) error {
	primaryErr := r.primary.Save(ctx, snap)
	if primaryErr != nil {
		r.logger.Warn().Err(primaryErr).Msg("primary save failed")
	}
	secondaryErr := r.secondary.Save(ctx, snap)
	if secondaryErr != nil {
		r.logger.Warn().Err(secondaryErr).Msg("secondary save failed")
	}
	if primaryErr != nil && secondaryErr != nil {
		return errors.Join(primaryErr, secondaryErr)
	}
	return nil
}

func (r *fallbackRepository) Load(ctx context.Context) (*model.Snapshot, error) {
	snap, err := r.primary.Load(ctx)
	if err == nil && snap != nil {
		return snap, nil
	}
	if err != nil {
		r.logger.Warn().Err(err).Msg("primary load failed, trying secondary")
	} else {
		r.logger.Info().Msg("primary empty, trying secondary")
	}
	return r.secondary.Load(ctx)
}
