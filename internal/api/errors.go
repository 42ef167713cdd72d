package api

import (
	"encoding/json"
	"net/http"

	apperrors "dining-recommender/internal/common/errors"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusFor maps an application error code to an HTTP status.
func statusFor(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeInvalidQuery, apperrors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case apperrors.ErrCodeResourceNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeTimeout, apperrors.ErrCodeGeocodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code apperrors.ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: string(code), Message: message})
}

// writeAppError renders any error returned by the ranker. Details are
// kept out of 5xx bodies.
func (s *Server) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := apperrors.Normalize(err)
	status := statusFor(stdErr.Code)

	fields := map[string]interface{}{
		"requestId": RequestIDFromContext(r.Context()),
		"path":      r.URL.Path,
		"code":      string(stdErr.Code),
		"error":     err.Error(),
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", fields)
		writeError(w, status, stdErr.Code, stdErr.Message)
		return
	}
	s.logger.Warn("request rejected", fields)

	message := stdErr.Message
	if stdErr.Details != "" {
		message = stdErr.Details
	}
	writeError(w, status, stdErr.Code, message)
}
