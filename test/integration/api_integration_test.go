package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderdesk/internal/handler"
	"orderdesk/internal/middleware"
	"orderdesk/internal/model"
	"orderdesk/internal/queue"
	"orderdesk/internal/repository"
	"orderdesk/internal/router"
	"orderdesk/internal/service"
)

const testSecret = "integration-secret"

// desk is one running server instance over a shared repository.
type desk struct {
	handler     http.Handler
	maintenance service.MaintenanceService
}

func startDesk(t *testing.T, repo repository.SnapshotRepository) desk {
	t.Helper()

	logger := zerolog.Nop()
	store := queue.NewStore(logger)
	maintenance := service.NewMaintenanceService(store, repo, nil, 0, logger)
	require.NoError(t, maintenance.Restore(context.Background()))

	h := router.Handlers{
		Orders: handler.NewOrderHandler(service.NewOrderService(store, repo, nil, logger), logger),
		Tokens: handler.NewTokenHandler(service.NewTokenService(store, nil, "", repo, nil, logger), logger),
		Admin:  handler.NewAdminHandler(maintenance, logger),
	}
	return desk{
		handler:     router.New(h, router.Auth{Secret: testSecret}, logger),
		maintenance: maintenance,
	}
}

func (d desk) call(t *testing.T, method, path string, id middleware.Identity, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	raw, err := middleware.IssueToken(testSecret, "", id, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+raw)
	w := httptest.NewRecorder()
	d.handler.ServeHTTP(w, req)
	return w
}

func TestOrderDesk_SurvivesRestart(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	CleanupDB(t, testDB.Pool)
	repo := repository.NewPostgresRepository(testDB.Pool, zerolog.Nop())

	staff := middleware.Identity{UserID: "staff-1", Tag: "desk#0001", Role: middleware.RoleStaff}
	customer := middleware.Identity{UserID: "cust-1", Tag: "ann#1234", Role: middleware.RoleCustomer}

	first := startDesk(t, repo)

	w := first.call(t, http.MethodPost, "/api/tokens", staff, map[string]string{"description": "free engraving"})
	require.Equal(t, http.StatusCreated, w.Code)
	var tok model.Token
	require.NoError(t, json.NewDecoder(w.Body).Decode(&tok))

	w = first.call(t, http.MethodPost, "/api/orders", staff, map[string]string{
		"description": "Walnut box",
		"customerId":  customer.UserID,
		"tokenCode":   tok.Code,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = first.call(t, http.MethodPost, "/api/orders", staff, map[string]string{
		"description": "Lid",
		"customerId":  customer.UserID,
		"priority":    "low",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = first.call(t, http.MethodPost, "/api/orders/ED002/dependencies", staff, map[string]string{"dependsOn": "ED001"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = first.call(t, http.MethodPut, "/api/orders/ED002/due-date", staff, map[string]string{"dueDate": "2030-01-31"})
	require.Equal(t, http.StatusOK, w.Code)

	w = first.call(t, http.MethodPost, "/api/orders/ED001/complete", staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var done model.CompletionResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&done))
	assert.True(t, done.TokenConsumed)
	assert.Equal(t, []string{"ED002"}, done.Ready)

	w = first.call(t, http.MethodPost, "/api/orders/ED001/review", customer, map[string]any{"rating": 5, "comment": "perfect"})
	require.Equal(t, http.StatusCreated, w.Code)

	// A second instance sees everything the first one committed.
	second := startDesk(t, repo)

	w = second.call(t, http.MethodGet, "/api/orders/ED002", staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var details model.OrderDetails
	require.NoError(t, json.NewDecoder(w.Body).Decode(&details))
	assert.Equal(t, model.StatusReady, details.Order.Status)
	assert.Equal(t, []string{"ED001"}, details.DependsOn)
	assert.Equal(t, "2030-01-31", details.DueDate)
	assert.True(t, details.CanComplete)

	w = second.call(t, http.MethodGet, "/api/orders/ED001", customer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	details = model.OrderDetails{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&details))
	require.NotNil(t, details.Review)
	assert.Equal(t, 5, details.Review.Rating)

	w = second.call(t, http.MethodGet, "/api/tokens/"+tok.Code, staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var restored model.Token
	require.NoError(t, json.NewDecoder(w.Body).Decode(&restored))
	assert.True(t, restored.Used)
	assert.Equal(t, "ED001", restored.UsedInOrder)

	w = second.call(t, http.MethodGet, "/api/stats", customer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats model.StatsView
	require.NoError(t, json.NewDecoder(w.Body).Decode(&stats))
	assert.Equal(t, 2, stats.TotalCreated)
	assert.Equal(t, 1, stats.TotalCompleted)
	assert.Equal(t, 1, stats.ActiveOrders)

	// The counter carries on rather than reusing ED001.
	w = second.call(t, http.MethodPost, "/api/orders", staff, map[string]string{"description": "Hinges", "customerId": "cust-2"})
	require.Equal(t, http.StatusCreated, w.Code)
	var next model.Order
	require.NoError(t, json.NewDecoder(w.Body).Decode(&next))
	assert.Equal(t, "ED003", next.Code)
}
