package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"orderdesk/internal/model"
)

// fileRepository keeps one JSON file per entity kind in a directory.
type fileRepository struct {
	dir    string
	logger zerolog.Logger
}

// NewFileRepository creates a JSON file backed snapshot repository.
func NewFileRepository(dir string, logger zerolog.Logger) SnapshotRepository {
	return &fileRepository{
		dir:    dir,
		logger: logger.With().Str("repository", "file").Logger(),
	}
}

func (r *fileRepository) path(kind string) string {
	return filepath.Join(r.dir, kind+".json")
}

// Save writes every kind to a temporary file and renames it into place.
func (r *fileRepository) Save(ctx context.Context, snap *model.Snapshot) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	for kind, field := range snapshotFields(snap) {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := json.MarshalIndent(field, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", kind, err)
		}
		if err := writeFileAtomic(r.path(kind), data); err != nil {
			r.logger.Error().Err(err).Str("kind", kind).Msg("failed to write snapshot file")
			return fmt.Errorf("failed to write %s: %w", kind, err)
		}
	}

	r.logger.Debug().Str("dir", r.dir).Msg("snapshot saved")
	return nil
}

// Load reads every kind file. A directory without a counter file has
// never been saved to.
func (r *fileRepository) Load(ctx context.Context) (*model.Snapshot, error) {
	if _, err := os.Stat(r.path(model.KindCounter)); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	snap := model.NewSnapshot()
	for kind, field := range snapshotFields(snap) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(r.path(kind))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", kind, err)
		}
		if err := json.Unmarshal(data, field); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", kind, err)
		}
	}
	if snap.Statistics.CompletionTimesByPriority == nil {
		snap.Statistics.CompletionTimesByPriority = map[model.Priority][]model.CompletionRecord{}
	}

	r.logger.Debug().Str("dir", r.dir).Int("orders", len(snap.Orders)).Msg("snapshot loaded")
	return snap, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
