package queue

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderdesk/internal/model"
)

func TestCreate_Validation(t *testing.T) {
	s, _ := newTestStore(t)

	tests := []struct {
		name    string
		input   model.NewOrder
		wantErr error
		errCode string
	}{
		{
			name:    "missing description",
			input:   model.NewOrder{Description: "  ", CustomerID: "cust"},
			wantErr: model.ErrDescriptionMissing,
		},
		{
			name:    "missing customer",
			input:   model.NewOrder{Description: "mug"},
			wantErr: model.ErrCustomerMissing,
		},
		{
			name:    "unknown priority",
			input:   model.NewOrder{Description: "mug", CustomerID: "cust", Priority: "asap"},
			errCode: model.ErrCodeInvalidRange,
		},
		{
			name:    "status that is not initial",
			input:   model.NewOrder{Description: "mug", CustomerID: "cust", Status: model.StatusReady},
			wantErr: model.ErrInvalidStatus,
		},
		{
			name:    "unknown token",
			input:   model.NewOrder{Description: "mug", CustomerID: "cust", TokenCode: "ZZZZZ"},
			wantErr: model.ErrTokenUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(tt.input)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.errCode != "" {
				assert.Equal(t, tt.errCode, model.Kind(err))
			}
		})
	}

	assert.Empty(t, s.Queue())
	assert.Equal(t, 0, s.Statistics().TotalCreated)
}

func TestCreate_Defaults(t *testing.T) {
	s, clock := newTestStore(t)

	o, err := s.Create(model.NewOrder{
		Description: "  engraved mug ",
		CustomerID:  "cust",
		CreatedBy:   "staff",
		Attachment:  &model.Attachment{Name: "sketch.png", URL: "https://cdn.example/sketch.png"},
	})
	require.NoError(t, err)

	assert.Equal(t, "engraved mug", o.Description)
	assert.Equal(t, model.PriorityNormal, o.Priority)
	assert.Equal(t, model.StatusPending, o.Status)
	assert.Equal(t, clock.Now(), o.CreatedAt)
	assert.Equal(t, o.CreatedAt, o.LastUpdated)
	require.NotNil(t, o.Attachment)
	assert.Equal(t, "sketch.png", o.Attachment.Name)
	assert.Equal(t, 1, s.Statistics().TotalCreated)
}

func TestSetStatus(t *testing.T) {
	s, clock := newTestStore(t)
	o := createOrder(t, s, clock, model.PriorityNormal)
	s.DrainEvents()

	clock.Advance(time.Minute)
	updated, err := s.SetStatus(o.Code, model.StatusOnHold, "staff")
	require.NoError(t, err)
	assert.Equal(t, model.StatusOnHold, updated.Status)
	assert.True(t, updated.LastUpdated.After(o.LastUpdated))

	// Any active status may follow any other.
	updated, err = s.SetStatus(o.Code, model.StatusPending, "staff")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, updated.Status)

	events := s.DrainEvents()
	require.Len(t, events, 2)
	assert.Equal(t, model.EventOrderStatusChanged, events[0].Type)
	assert.Equal(t, "pending", events[0].Data["from"])
	assert.Equal(t, "on_hold", events[0].Data["to"])

	_, err = s.SetStatus(o.Code, model.StatusCompleted, "staff")
	assert.ErrorIs(t, err, model.ErrStatusNotSettable)

	_, err = s.SetStatus(o.Code, "shipped", "staff")
	assert.True(t, model.IsKind(err, model.ErrCodeInvalidRange))

	_, err = s.SetStatus("ED404", model.StatusReady, "staff")
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}

func TestComplete_GatedByDependencies(t *testing.T) {
	s, clock := newTestStore(t)
	first := createOrder(t, s, clock, model.PriorityNormal)
	second := createOrder(t, s, clock, model.PriorityNormal)
	require.Equal(t, "ED001", first.Code)
	require.Equal(t, "ED002", second.Code)

	require.NoError(t, s.AddDependency("ED002", "ED001", "staff"))

	_, err := s.Complete("ED002", "staff")
	var unmet *model.DependencyUnmetError
	require.True(t, errors.As(err, &unmet))
	assert.Equal(t, []string{"ED001"}, unmet.Unmet)
	assert.Equal(t, model.ErrCodeDependencyUnmet, model.Kind(err))

	_, err = s.Complete("ED002", "staff")
	assert.True(t, model.IsKind(err, model.ErrCodeDependencyUnmet), "still gated")

	_, err = s.Complete("ED001", "staff")
	require.NoError(t, err)

	res, err := s.Complete("ED002", "staff")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, res.Order.Status)
}

func TestComplete_MovesOrderToHistory(t *testing.T) {
	s, clock := newTestStore(t)
	o := createOrder(t, s, clock, model.PriorityHigh)
	clock.Advance(2 * time.Hour)

	res, err := s.Complete(o.Code, "staff-2")
	require.NoError(t, err)

	assert.Equal(t, model.StatusCompleted, res.Order.Status)
	require.NotNil(t, res.Order.CompletedAt)
	assert.Equal(t, clock.Now(), *res.Order.CompletedAt)
	assert.Equal(t, "staff-2", res.Order.CompletedBy)
	assert.Empty(t, s.Queue())

	details, err := s.Find(o.Code)
	require.NoError(t, err)
	assert.False(t, details.Active)
	assert.Equal(t, model.StatusCompleted, details.Order.Status)

	_, err = s.Complete(o.Code, "staff-2")
	assert.ErrorIs(t, err, model.ErrOrderNotFound, "a completed order is no longer in the queue")

	stats := s.Statistics()
	assert.Equal(t, 1, stats.TotalCompleted)
	assert.Equal(t, []model.CompletionRecord{{OrderCode: o.Code, DurationMs: (2 * time.Hour).Milliseconds()}},
		stats.CompletionTimesByPriority[model.PriorityHigh])
}

func TestComplete_CascadesReady(t *testing.T) {
	s, clock := newTestStore(t)
	prerequisite := createOrder(t, s, clock, model.PriorityNormal)
	dependent := createOrder(t, s, clock, model.PriorityNormal)
	require.NoError(t, s.AddDependency(dependent.Code, prerequisite.Code, "staff"))
	s.DrainEvents()

	res, err := s.Complete(prerequisite.Code, "staff")
	require.NoError(t, err)
	assert.Equal(t, []string{dependent.Code}, res.Ready)

	events := s.DrainEvents()
	assert.Equal(t, []model.EventType{model.EventOrderCompleted, model.EventOrderReady}, eventTypes(events))
	assert.Equal(t, dependent.Code, events[1].OrderCode)
	assert.Equal(t, dependent.CustomerID, events[1].Recipient)

	details, err := s.Find(dependent.Code)
	require.NoError(t, err)
	assert.Equal(t, model.StatusReady, details.Order.Status)
	assert.True(t, details.Active, "ready is not terminal")
}

func TestComplete_NoCascadeWhileOtherPrerequisitesUnmet(t *testing.T) {
	s, clock := newTestStore(t)
	a := createOrder(t, s, clock, model.PriorityNormal)
	b := createOrder(t, s, clock, model.PriorityNormal)
	c := createOrder(t, s, clock, model.PriorityNormal)
	require.NoError(t, s.AddDependency(c.Code, a.Code, "staff"))
	require.NoError(t, s.AddDependency(c.Code, b.Code, "staff"))
	s.DrainEvents()

	res, err := s.Complete(a.Code, "staff")
	require.NoError(t, err)
	assert.Empty(t, res.Ready)
	assert.Equal(t, []model.EventType{model.EventOrderCompleted}, eventTypes(s.DrainEvents()))

	res, err = s.Complete(b.Code, "staff")
	require.NoError(t, err)
	assert.Equal(t, []string{c.Code}, res.Ready)
}

func TestComplete_ConsumesToken(t *testing.T) {
	s, clock := newTestStore(t)
	tok := s.IssueToken("free engraving", "", "staff")

	clock.Advance(time.Second)
	o, err := s.Create(model.NewOrder{Description: "mug", CustomerID: "cust", TokenCode: tok.Code})
	require.NoError(t, err)
	assert.True(t, s.ValidateToken(tok.Code), "token is only consumed at completion")

	res, err := s.Complete(o.Code, "staff")
	require.NoError(t, err)
	assert.True(t, res.TokenConsumed)

	used, err := s.Token(tok.Code)
	require.NoError(t, err)
	assert.True(t, used.Used)
	assert.Equal(t, o.Code, used.UsedInOrder)

	_, err = s.Create(model.NewOrder{Description: "mug", CustomerID: "cust", TokenCode: tok.Code})
	assert.ErrorIs(t, err, model.ErrTokenUnavailable)
}

func TestBulkComplete(t *testing.T) {
	s, clock := newTestStore(t)
	a := createOrder(t, s, clock, model.PriorityNormal)
	b := createOrder(t, s, clock, model.PriorityNormal)
	c := createOrder(t, s, clock, model.PriorityNormal)
	require.NoError(t, s.AddDependency(b.Code, a.Code, "staff"))
	require.NoError(t, s.AddDependency(a.Code, c.Code, "staff"))

	res := s.BulkComplete([]string{b.Code, c.Code, "ed002", a.Code, "ED404", ""}, "staff")

	var completed []string
	for _, r := range res.Completed {
		completed = append(completed, r.Order.Code)
	}
	assert.Equal(t, []string{c.Code, a.Code}, completed)

	var failed []string
	for _, f := range res.Failed {
		failed = append(failed, f.Code)
	}
	assert.Equal(t, []string{b.Code, "ED404"}, failed)
}

func TestRemove(t *testing.T) {
	s, clock := newTestStore(t)
	a := createOrder(t, s, clock, model.PriorityNormal)
	b := createOrder(t, s, clock, model.PriorityNormal)
	require.NoError(t, s.AddDependency(b.Code, a.Code, "staff"))
	_, err := s.SetDueDate(a.Code, "2026-05-01", "staff")
	require.NoError(t, err)

	removed, err := s.Remove(a.Code, "staff")
	require.NoError(t, err)
	assert.Equal(t, a.Code, removed.Code)

	_, err = s.Find(a.Code)
	assert.ErrorIs(t, err, model.ErrOrderNotFound, "removed orders do not go to history")
	assert.True(t, s.CanComplete(b.Code), "no dangling prerequisite")
	assert.NotContains(t, s.Snapshot().DueDates, a.Code)
	assert.Equal(t, 0, s.Statistics().TotalCompleted)

	_, err = s.Remove(a.Code, "staff")
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}

func TestErase_CleansEverything(t *testing.T) {
	s, clock := newTestStore(t)
	x := createOrder(t, s, clock, model.PriorityNormal)
	b := createOrder(t, s, clock, model.PriorityNormal)
	c := createOrder(t, s, clock, model.PriorityNormal)
	require.NoError(t, s.AddDependency(b.Code, x.Code, "staff"))
	require.NoError(t, s.AddDependency(c.Code, b.Code, "staff"))
	require.NoError(t, s.AddDependency(c.Code, x.Code, "staff"))
	_, err := s.SetDueDate(x.Code, "2026-05-01", "staff")
	require.NoError(t, err)

	clock.Advance(time.Minute)
	_, err = s.Complete(x.Code, "staff")
	require.NoError(t, err)
	_, err = s.AddReview(model.NewReview{OrderCode: x.Code, CustomerID: "cust-1", Rating: 4})
	require.NoError(t, err)
	require.Equal(t, 1, s.Statistics().TotalCompleted)
	s.DrainEvents()

	erased, err := s.Erase(x.Code, "staff", "test data")
	require.NoError(t, err)
	assert.False(t, erased.WasActive)
	assert.Equal(t, "test data", erased.Reason)

	snap := s.Snapshot()
	assert.NotContains(t, snap.History, x.Code)
	assert.NotContains(t, snap.Reviews, x.Code)
	assert.NotContains(t, snap.DueDates, x.Code)
	assert.NotContains(t, snap.Dependencies, b.Code)
	assert.Equal(t, []string{b.Code}, snap.Dependencies[c.Code])
	assert.Empty(t, s.Dependents(x.Code))

	stats := s.Statistics()
	assert.Equal(t, 0, stats.TotalCompleted)
	assert.Empty(t, stats.CompletionTimesByPriority[model.PriorityNormal])
	assert.Equal(t, float64(0), stats.AverageCompletionTime)

	events := s.DrainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, model.EventOrderErased, events[0].Type)
	assert.Equal(t, "test data", events[0].Data["reason"])

	_, err = s.Erase(x.Code, "staff", "again")
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}

func TestErase_ActiveOrder(t *testing.T) {
	s, clock := newTestStore(t)
	o := createOrder(t, s, clock, model.PriorityNormal)

	erased, err := s.Erase(o.Code, "staff", "duplicate")
	require.NoError(t, err)
	assert.True(t, erased.WasActive)
	assert.Empty(t, s.Queue())
	assert.Equal(t, 1, s.Statistics().TotalCreated)
}
