package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"orderdesk/internal/service"
)

// AdminHandler handles persistence requests.
type AdminHandler struct {
	service service.MaintenanceService
	logger  zerolog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(service service.MaintenanceService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		logger:  logger.With().Str("handler", "admin").Logger(),
	}
}

// Snapshot handles POST /api/snapshot.
func (h *AdminHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	if err := h.service.SaveNow(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("manual snapshot failed")
		writeError(w, http.StatusInternalServerError, "SNAPSHOT_FAILED", "failed to save data", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// Health handles GET /health.
func (h *AdminHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
