package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"orderdesk/internal/model"
)

type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) Save(ctx context.Context, snap *model.Snapshot) error {
	args := m.Called(ctx, snap)
	return args.Error(0)
}

func (m *MockSnapshotRepository) Load(ctx context.Context) (*model.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Snapshot), args.Error(1)
}

func TestFallbackRepository_Save(t *testing.T) {
	errPrimary := errors.New("primary down")
	errSecondary := errors.New("disk full")

	tests := []struct {
		name         string
		primaryErr   error
		secondaryErr error
		wantErr      bool
	}{
		{name: "both succeed"},
		{name: "primary fails", primaryErr: errPrimary},
		{name: "secondary fails", secondaryErr: errSecondary},
		{name: "both fail", primaryErr: errPrimary, secondaryErr: errSecondary, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			snap := sampleSnapshot()
			primary := new(MockSnapshotRepository)
			secondary := new(MockSnapshotRepository)
			primary.On("Save", ctx, snap).Return(tt.primaryErr)
			secondary.On("Save", ctx, snap).Return(tt.secondaryErr)

			repo := NewFallbackRepository(primary, secondary, zerolog.Nop())
			err := repo.Save(ctx, snap)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errPrimary)
				assert.ErrorIs(t, err, errSecondary)
			} else {
				assert.NoError(t, err)
			}
			primary.AssertExpectations(t)
			secondary.AssertExpectations(t)
		})
	}
}

func TestFallbackRepository_Load(t *testing.T) {
	ctx := context.Background()
	fromPrimary := sampleSnapshot()
	fromSecondary := model.NewSnapshot()

	tests := []struct {
		name          string
		setupMocks    func(primary, secondary *MockSnapshotRepository)
		want          *model.Snapshot
		wantErr       bool
		secondaryUsed bool
	}{
		{
			name: "primary has data",
			setupMocks: func(primary, secondary *MockSnapshotRepository) {
				primary.On("Load", ctx).Return(fromPrimary, nil)
			},
			want: fromPrimary,
		},
		{
			name: "primary empty",
			setupMocks: func(primary, secondary *MockSnapshotRepository) {
				primary.On("Load", ctx).Return(nil, nil)
				secondary.On("Load", ctx).Return(fromSecondary, nil)
			},
			want:          fromSecondary,
			secondaryUsed: true,
		},
		{
			name: "primary error",
			setupMocks: func(primary, secondary *MockSnapshotRepository) {
				primary.On("Load", ctx).Return(nil, errors.New("connection refused"))
				secondary.On("Load", ctx).Return(fromSecondary, nil)
			},
			want:          fromSecondary,
			secondaryUsed: true,
		},
		{
			name: "both fail",
			setupMocks: func(primary, secondary *MockSnapshotRepository) {
				primary.On("Load", ctx).Return(nil, errors.New("connection refused"))
				secondary.On("Load", ctx).Return(nil, errors.New("permission denied"))
			},
			wantErr:       true,
			secondaryUsed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary := new(MockSnapshotRepository)
			secondary := new(MockSnapshotRepository)
			tt.setupMocks(primary, secondary)

			repo := NewFallbackRepository(primary, secondary, zerolog.Nop())
			got, err := repo.Load(ctx)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Same(t, tt.want, got)
			}
			primary.AssertExpectations(t)
			if !tt.secondaryUsed {
				secondary.AssertNotCalled(t, "Load", mock.Anything)
			}
		})
	}
}
