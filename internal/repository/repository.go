// Package repository persists order desk snapshots. Every backend stores
// the same flat per-kind layout: one record per code for each entity
// kind, plus the statistics and the order counter.
package repository

import (
	"context"

	"orderdesk/internal/model"
)

// SnapshotRepository defines the persistence gateway of the order store.
type SnapshotRepository interface {
	// Save replaces the stored state with snap.
	Save(ctx context.Context, snap *model.Snapshot) error

	// Load returns the stored state, or nil when nothing was saved yet.
	Load(ctx context.Context) (*model.Snapshot, error)
}
