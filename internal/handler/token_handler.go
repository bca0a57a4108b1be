package handler

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"orderdesk/internal/model"
	"orderdesk/internal/service"
)

// TokenHandler handles promotional token requests. All of them are staff
// only.
type TokenHandler struct {
	service service.TokenService
	logger  zerolog.Logger
}

// NewTokenHandler creates a new token handler.
func NewTokenHandler(service service.TokenService, logger zerolog.Logger) *TokenHandler {
	return &TokenHandler{
		service: service,
		logger:  logger.With().Str("handler", "token").Logger(),
	}
}

type issueTokenRequest struct {
	Description string `json:"description"`
	Notes       string `json:"notes"`
}

type removeTokenRequest struct {
	Reason string `json:"reason"`
}

type tokenListResponse struct {
	Tokens  []model.Token      `json:"tokens"`
	Summary model.TokenSummary `json:"summary"`
}

// List handles GET /api/tokens?status=all|available|used.
func (h *TokenHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := model.TokenFilter(strings.ToLower(r.URL.Query().Get("status")))
	switch filter {
	case "":
		filter = model.TokenFilterAll
	case model.TokenFilterAll, model.TokenFilterAvailable, model.TokenFilterUsed:
	default:
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidRange, "status must be all, available or used", h.logger)
		return
	}

	tokens := h.service.List(filter)
	if tokens == nil {
		tokens = []model.Token{}
	}
	writeJSON(w, http.StatusOK, tokenListResponse{Tokens: tokens, Summary: h.service.Summary()})
}

// Issue handles POST /api/tokens.
func (h *TokenHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req issueTokenRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "description is required", h.logger)
		return
	}

	t := h.service.Issue(r.Context(), description, strings.TrimSpace(req.Notes), caller(r).UserID)
	writeJSON(w, http.StatusCreated, t)
}

// Get handles GET /api/tokens/{code}.
func (h *TokenHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.service.Get(pathCode(r))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// Remove handles DELETE /api/tokens/{code}. The body with a reason is
// optional.
func (h *TokenHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var req removeTokenRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	t, err := h.service.Remove(r.Context(), pathCode(r), strings.TrimSpace(req.Reason), caller(r).UserID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, t)
}
