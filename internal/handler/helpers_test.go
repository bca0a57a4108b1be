package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"orderdesk/internal/middleware"
	"orderdesk/internal/queue"
	"orderdesk/internal/service"
)

var (
	staffID    = middleware.Identity{UserID: "staff-1", Tag: "desk#0001", Role: middleware.RoleStaff}
	customerID = middleware.Identity{UserID: "cust-1", Tag: "ann#1234", Role: middleware.RoleCustomer}
)

func newRequest(t *testing.T, method, path string, body any, vars map[string]string, id middleware.Identity) *http.Request {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	return req.WithContext(middleware.WithIdentity(req.Context(), id))
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// newOrderHandler wires a handler to a real store at a fixed time.
func newOrderHandler(t *testing.T) (*OrderHandler, *queue.Store) {
	t.Helper()
	now := time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)
	store := queue.NewStore(zerolog.Nop(), queue.WithClock(func() time.Time { return now }))
	svc := service.NewOrderService(store, nil, nil, zerolog.Nop())
	return NewOrderHandler(svc, zerolog.Nop()), store
}
