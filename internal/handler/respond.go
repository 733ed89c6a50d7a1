package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"cinecomments/internal/service"

	"go.uber.org/zap"
)

const (
	msgInvalidBody = "Invalid request body"
	msgInternal    = "Internal server error"
)

type errorResponse struct {
	Message   string   `json:"message"`
	Errors    []string `json:"errors,omitempty"`
	RequestID string   `json:"requestId,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, errorResponse{Message: msg, RequestID: RequestIDFromContext(r.Context())})
}

// statusFor maps a service error kind onto an HTTP status.
func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindUnauthenticated:
		return http.StatusUnauthorized
	case service.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError is the single place service errors become responses. Anything
// unclassified is logged and reported with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	rid := RequestIDFromContext(r.Context())
	status := statusFor(service.KindOf(err))

	if status == http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", rid),
			zap.Error(err),
		)
		writeJSON(w, status, errorResponse{Message: msgInternal, RequestID: rid})
		return
	}

	resp := errorResponse{Message: err.Error(), RequestID: rid}
	var se *service.Error
	if errors.As(err, &se) {
		resp.Message = se.Message
		resp.Errors = se.Fields
	}
	writeJSON(w, status, resp)
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
