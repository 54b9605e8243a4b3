package handlers

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/umeloans/lead-capture/internal/usecase"
)

const (
	codeInvalidJSON = "INVALID_JSON"
	codeRateLimited = "RATE_LIMITED"
	codeForbidden   = "FORBIDDEN"

	maxBodyBytes = 1 << 20
)

type ErrorResponse struct {
	Error   string                    `json:"error"`
	Code    string                    `json:"code,omitempty"`
	Details []usecase.ValidationError `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// writeUseCaseError maps a use case error to its HTTP response. Anything that
// is not a DomainError is logged and reported as a generic 500.
func writeUseCaseError(w http.ResponseWriter, logger *logrus.Logger, r *http.Request, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		writeJSON(w, domainStatus(de.Code), ErrorResponse{
			Error:   de.Message,
			Code:    de.Code,
			Details: de.Details,
		})
		return
	}

	logger.WithError(err).WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	}).Error("Request failed")
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}

func domainStatus(code string) int {
	switch code {
	case usecase.CodeLeadNotFound:
		return http.StatusNotFound
	case usecase.CodeOTPAttempts:
		return http.StatusTooManyRequests
	default:
		return http.StatusBadRequest
	}
}

// decodeJSON reads a JSON body into v, answering 400 itself on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, codeInvalidJSON, "Invalid JSON")
		return false
	}
	return true
}

// getClientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then
// the connection address. The headers are client controlled, so the result
// is only fit for recording provenance.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return remoteIP(r)
}

// remoteIP is the host of r.RemoteAddr, as set by the server or RealIP.
func remoteIP(r *http.Request) string {
	if r.RemoteAddr != "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			return host
		}
		return r.RemoteAddr
	}
	return "unknown"
}
