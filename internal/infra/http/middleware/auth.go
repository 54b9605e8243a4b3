package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/umeloans/lead-capture/internal/infra/auth"
)

type contextKey string

const leadIDKey contextKey = "lead_id"

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	tokens TokenVerifier
	logger *logrus.Logger
}

func NewAuthMiddleware(tokens TokenVerifier, logger *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, logger: logger}
}

// RequireApplicationToken accepts only a valid application token and puts
// its lead id in the request context.
func (m *AuthMiddleware) RequireApplicationToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.respondUnauthorized(w, "Missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			m.respondUnauthorized(w, "Invalid authorization header format")
			return
		}

		claims, err := m.tokens.Verify(parts[1])
		if err != nil {
			m.logger.WithError(err).Debug("Application token rejected")
			m.respondUnauthorized(w, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), leadIDKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LeadIDFromContext returns the lead id of an authenticated request.
func LeadIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(leadIDKey).(string)
	return id, ok && id != ""
}

func (m *AuthMiddleware) respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
		"code":  "UNAUTHORIZED",
	})
}
