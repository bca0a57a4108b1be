package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"orderdesk/internal/handler"
	"orderdesk/internal/middleware"
)

// Handlers groups everything the router mounts. Live may be nil to
// disable the websocket feed.
type Handlers struct {
	Orders *handler.OrderHandler
	Tokens *handler.TokenHandler
	Admin  *handler.AdminHandler
	Live   http.Handler
}

// Auth configures bearer token verification.
type Auth struct {
	Secret string
	Issuer string
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, auth Auth, logger zerolog.Logger) http.Handler {
	r := mux.NewRouter()
	staff := func(fn http.HandlerFunc) http.Handler {
		return middleware.RequireStaff(fn)
	}

	// Health check endpoint (no authentication required)
	r.HandleFunc("/health", h.Admin.Health).Methods(http.MethodGet)

	if h.Live != nil {
		r.Handle("/ws", h.Live).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()

	// Fixed paths are registered before /orders/{code} so they win.
	api.HandleFunc("/orders", h.Orders.Queue).Methods(http.MethodGet)
	api.Handle("/orders", staff(h.Orders.Create)).Methods(http.MethodPost)
	api.Handle("/orders/complete", staff(h.Orders.BulkComplete)).Methods(http.MethodPost)
	api.HandleFunc("/orders/overdue", h.Orders.Overdue).Methods(http.MethodGet)

	api.HandleFunc("/orders/{code}", h.Orders.Find).Methods(http.MethodGet)
	api.Handle("/orders/{code}", staff(h.Orders.Remove)).Methods(http.MethodDelete)
	api.HandleFunc("/orders/{code}/position", h.Orders.Position).Methods(http.MethodGet)
	api.Handle("/orders/{code}/position", staff(h.Orders.Move)).Methods(http.MethodPut)
	api.Handle("/orders/{code}/status", staff(h.Orders.SetStatus)).Methods(http.MethodPut)
	api.Handle("/orders/{code}/complete", staff(h.Orders.Complete)).Methods(http.MethodPost)
	api.Handle("/orders/{code}/erase", staff(h.Orders.Erase)).Methods(http.MethodPost)
	api.Handle("/orders/{code}/rush", staff(h.Orders.Rush)).Methods(http.MethodPost)
	api.Handle("/orders/{code}/dependencies", staff(h.Orders.AddDependency)).Methods(http.MethodPost)
	api.Handle("/orders/{code}/due-date", staff(h.Orders.SetDueDate)).Methods(http.MethodPut)
	api.HandleFunc("/orders/{code}/review", h.Orders.Review).Methods(http.MethodPost)

	api.HandleFunc("/me/orders", h.Orders.MyOrders).Methods(http.MethodGet)
	api.Handle("/history", staff(h.Orders.History)).Methods(http.MethodGet)
	api.HandleFunc("/stats", h.Orders.Stats).Methods(http.MethodGet)
	api.Handle("/snapshot", staff(h.Admin.Snapshot)).Methods(http.MethodPost)

	api.Handle("/tokens", staff(h.Tokens.List)).Methods(http.MethodGet)
	api.Handle("/tokens", staff(h.Tokens.Issue)).Methods(http.MethodPost)
	api.Handle("/tokens/{code}", staff(h.Tokens.Get)).Methods(http.MethodGet)
	api.Handle("/tokens/{code}", staff(h.Tokens.Remove)).Methods(http.MethodDelete)

	// Apply middleware in order: RequestID -> Recovery -> Logging -> CORS -> Authenticate
	var handler http.Handler = r
	handler = middleware.Authenticate(auth.Secret, auth.Issuer, logger)(handler)
	handler = middleware.CORS(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)
	handler = middleware.RequestID(handler)

	return handler
}
