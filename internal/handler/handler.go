// Package handler exposes the order desk commands over HTTP with JSON
// request and response bodies.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"orderdesk/internal/middleware"
	"orderdesk/internal/model"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string   `json:"error"`
	Code  string   `json:"code"`
	Unmet []string `json:"unmet,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	entry := logger.Warn()
	if status >= http.StatusInternalServerError {
		entry = logger.Error()
	}
	entry.Str("error", message).Str("code", code).Int("status", status).Msg("handler error")
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// statusFor maps a domain error kind to an HTTP status.
func statusFor(kind string) int {
	switch kind {
	case model.ErrCodeNotFound:
		return http.StatusNotFound
	case model.ErrCodeSelfDependency, model.ErrCodeInvalidRange,
		model.ErrCodeMissingField, model.ErrCodeInvalidJSON:
		return http.StatusBadRequest
	case model.ErrCodeDependencyUnmet, model.ErrCodeDuplicateReview:
		return http.StatusConflict
	case model.ErrCodeUnauthorised, model.ErrCodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError translates a service error. Anything that is not a
// domain failure becomes a generic 500.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	kind := model.Kind(err)
	if kind == "" {
		logger.Error().Err(err).Msg("command failed")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: "internal server error",
			Code:  model.ErrCodeInternalError,
		})
		return
	}

	status := statusFor(kind)
	logger.Debug().Err(err).Str("code", kind).Int("status", status).Msg("command rejected")

	resp := ErrorResponse{Error: err.Error(), Code: kind}
	var unmet *model.DependencyUnmetError
	if errors.As(err, &unmet) {
		resp.Unmet = unmet.Unmet
	}
	writeJSON(w, status, resp)
}

// decodeJSON reads the request body into dst. An empty body is accepted
// when optional is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, optional bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return model.NewDomainError(model.ErrCodeInvalidJSON, "invalid request body: "+err.Error())
	}
	return nil
}

// pathCode returns the {code} route variable.
func pathCode(r *http.Request) string {
	return mux.Vars(r)["code"]
}

// caller returns the authenticated identity. Routes are always mounted
// behind Authenticate, so a missing identity is a wiring bug.
func caller(r *http.Request) middleware.Identity {
	id, _ := middleware.IdentityFrom(r.Context())
	return id
}
