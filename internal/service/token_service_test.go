package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"orderdesk/internal/model"
	"orderdesk/internal/token"
)

func TestTokenService_IssueAndRemove(t *testing.T) {
	store, _ := newTestStore(t)
	repo := new(MockSnapshotRepository)
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)
	rec := &recordingNotifier{}

	svc := NewTokenService(store, nil, "", repo, rec, zerolog.Nop())
	ctx := context.Background()

	issued := svc.Issue(ctx, "spring promo", "flyer", "staff-1")
	assert.True(t, token.IsWellFormed(issued.Code))

	got, err := svc.Get(issued.Code)
	require.NoError(t, err)
	assert.Equal(t, "spring promo", got.Description)
	assert.Equal(t, model.TokenSummary{Total: 1, Available: 1}, svc.Summary())
	assert.Len(t, svc.List(model.TokenFilterAvailable), 1)
	assert.Empty(t, svc.List(model.TokenFilterUsed))

	removed, err := svc.Remove(ctx, issued.Code, "printed twice", "staff-1")
	require.NoError(t, err)
	assert.Equal(t, issued.Code, removed.Code)

	_, err = svc.Remove(ctx, issued.Code, "again", "staff-1")
	assert.True(t, model.IsKind(err, model.ErrCodeNotFound))

	assert.Equal(t, []model.EventType{model.EventTokenIssued, model.EventTokenRemoved}, rec.types())
	repo.AssertNumberOfCalls(t, "Save", 2)
}

func TestTokenService_Import(t *testing.T) {
	tests := []struct {
		name          string
		loader        func() *MockLoader
		wantImported  []string
		wantSkipped   []string
		expectError   bool
		errorContains string
		wantSaves     int
	}{
		{
			name: "Success - malformed and duplicate codes skipped",
			loader: func() *MockLoader {
				l := new(MockLoader)
				l.On("Load", mock.Anything, "batch.gz").
					Return(token.NewCodeSet("AAAA1", "BBBB2", "TOOLONG", "aaaa1"), nil)
				return l
			},
			wantImported: []string{"AAAA1", "BBBB2"},
			wantSkipped:  []string{"TOOLONG", "aaaa1"},
			wantSaves:    1,
		},
		{
			name: "Error - loader fails",
			loader: func() *MockLoader {
				l := new(MockLoader)
				l.On("Load", mock.Anything, "batch.gz").Return(nil, errors.New("no such bucket"))
				return l
			},
			expectError:   true,
			errorContains: "failed to import batch.gz",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _ := newTestStore(t)
			repo := new(MockSnapshotRepository)
			repo.On("Save", mock.Anything, mock.Anything).Return(nil)
			loader := tt.loader()

			svc := NewTokenService(store, loader, "batch", repo, nil, zerolog.Nop())
			result, err := svc.Import(context.Background(), "batch.gz", "system")

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				require.NoError(t, err)
				assert.ElementsMatch(t, tt.wantImported, result.Imported)
				assert.ElementsMatch(t, tt.wantSkipped, result.Skipped)
			}
			loader.AssertExpectations(t)
			repo.AssertNumberOfCalls(t, "Save", tt.wantSaves)
		})
	}
}

func TestTokenService_ImportNotConfigured(t *testing.T) {
	store, _ := newTestStore(t)
	svc := NewTokenService(store, nil, "", nil, nil, zerolog.Nop())

	_, err := svc.Import(context.Background(), "batch.gz", "system")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
