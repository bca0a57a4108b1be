package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"orderdesk/internal/model"
)

type countingMaintainer struct {
	saves   atomic.Int32
	sweeps  atomic.Int32
	saveErr error
}

func (m *countingMaintainer) SaveNow(context.Context) error {
	m.saves.Add(1)
	return m.saveErr
}

func (m *countingMaintainer) Sweep(context.Context) model.Attention {
	m.sweeps.Add(1)
	return model.Attention{}
}

func TestScheduler_Run(t *testing.T) {
	tests := []struct {
		name    string
		saveErr error
	}{
		{name: "snapshots succeed"},
		{name: "snapshot failures keep the loop alive", saveErr: errors.New("disk full")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			maint := &countingMaintainer{saveErr: tt.saveErr}
			s := New(maint, 5*time.Millisecond, 10*time.Millisecond, zerolog.Nop())

			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				s.Run(ctx)
				close(done)
			}()

			assert.Eventually(t, func() bool {
				return maint.saves.Load() >= 2 && maint.sweeps.Load() >= 2
			}, 2*time.Second, 5*time.Millisecond)

			cancel()
			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("scheduler did not stop after cancel")
			}
		})
	}
}
