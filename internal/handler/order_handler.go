package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"orderdesk/internal/model"
	"orderdesk/internal/service"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

type statusRequest struct {
	Status model.Status `json:"status"`
}

type bulkCompleteRequest struct {
	Codes []string `json:"codes"`
}

type eraseRequest struct {
	Reason  string `json:"reason"`
	Confirm bool   `json:"confirm"`
}

type moveRequest struct {
	Position int `json:"position"`
}

type dependencyRequest struct {
	DependsOn string `json:"dependsOn"`
}

type dueDateRequest struct {
	DueDate string `json:"dueDate"`
}

type positionResponse struct {
	Code     string `json:"code"`
	Position int    `json:"position"`
}

// Queue handles GET /api/orders.
func (h *OrderHandler) Queue(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Queue())
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.NewOrder
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	req.CreatedBy = caller(r).UserID

	order, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// BulkComplete handles POST /api/orders/complete.
func (h *OrderHandler) BulkComplete(w http.ResponseWriter, r *http.Request) {
	var req bulkCompleteRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if len(req.Codes) == 0 {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "codes are required", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, h.service.BulkComplete(r.Context(), req.Codes, caller(r).UserID))
}

// Overdue handles GET /api/orders/overdue.
func (h *OrderHandler) Overdue(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Overdue())
}

// Find handles GET /api/orders/{code}.
func (h *OrderHandler) Find(w http.ResponseWriter, r *http.Request) {
	details, err := h.service.Find(pathCode(r))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// Position handles GET /api/orders/{code}/position.
func (h *OrderHandler) Position(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(pathCode(r))
	pos, err := h.service.Position(code)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, positionResponse{Code: code, Position: pos})
}

// SetStatus handles PUT /api/orders/{code}/status.
func (h *OrderHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	status, err := model.ParseStatus(string(req.Status))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	order, err := h.service.SetStatus(r.Context(), pathCode(r), status, caller(r).UserID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// Complete handles POST /api/orders/{code}/complete.
func (h *OrderHandler) Complete(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Complete(r.Context(), pathCode(r), caller(r).UserID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Remove handles DELETE /api/orders/{code}.
func (h *OrderHandler) Remove(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.Remove(r.Context(), pathCode(r), caller(r).UserID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// Erase handles POST /api/orders/{code}/erase. The caller must confirm
// and give a reason.
func (h *OrderHandler) Erase(w http.ResponseWriter, r *http.Request) {
	var req eraseRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if !req.Confirm {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "erasure must be confirmed", h.logger)
		return
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "reason is required", h.logger)
		return
	}

	erased, err := h.service.Erase(r.Context(), pathCode(r), caller(r).UserID, reason)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, erased)
}

// Move handles PUT /api/orders/{code}/position.
func (h *OrderHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	code := strings.ToUpper(pathCode(r))
	pos, err := h.service.Move(r.Context(), code, req.Position, caller(r).UserID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, positionResponse{Code: code, Position: pos})
}

// Rush handles POST /api/orders/{code}/rush.
func (h *OrderHandler) Rush(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.Rush(r.Context(), pathCode(r), caller(r).UserID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// AddDependency handles POST /api/orders/{code}/dependencies.
func (h *OrderHandler) AddDependency(w http.ResponseWriter, r *http.Request) {
	var req dependencyRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if strings.TrimSpace(req.DependsOn) == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "dependsOn is required", h.logger)
		return
	}

	code := pathCode(r)
	if err := h.service.AddDependency(r.Context(), code, req.DependsOn, caller(r).UserID); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	details, err := h.service.Find(code)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, details)
}

// SetDueDate handles PUT /api/orders/{code}/due-date.
func (h *OrderHandler) SetDueDate(w http.ResponseWriter, r *http.Request) {
	var req dueDateRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	code := strings.ToUpper(pathCode(r))
	date, err := h.service.SetDueDate(r.Context(), code, req.DueDate, caller(r).UserID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, dueDateRequest{DueDate: date})
}

// Review handles POST /api/orders/{code}/review. The caller reviews as
// themselves.
func (h *OrderHandler) Review(w http.ResponseWriter, r *http.Request) {
	var req model.NewReview
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	id := caller(r)
	req.OrderCode = pathCode(r)
	req.CustomerID = id.UserID
	req.CustomerTag = id.Tag

	review, err := h.service.AddReview(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

// MyOrders handles GET /api/me/orders.
func (h *OrderHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.OrdersFor(caller(r).UserID))
}

// History handles GET /api/history?page=&customer=&priority=&sort=.
func (h *OrderHandler) History(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := model.HistoryQuery{
		CustomerID: q.Get("customer"),
		Priority:   model.Priority(strings.ToLower(q.Get("priority"))),
		Sort:       model.HistorySort(strings.ToLower(q.Get("sort"))),
	}
	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			writeError(w, http.StatusBadRequest, model.ErrCodeInvalidRange, "page must be a positive number", h.logger)
			return
		}
		query.Page = page
	}

	page, err := h.service.History(query)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Stats handles GET /api/stats.
func (h *OrderHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Stats())
}
