package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/umeloans/lead-capture/internal/infra/ratelimit"
)

// allowRequest applies limiter to the connection address under scope. A
// failing limiter lets the request through.
func allowRequest(w http.ResponseWriter, r *http.Request, limiter ratelimit.Limiter, logger *logrus.Logger, scope string) bool {
	if limiter == nil {
		return true
	}

	ip := remoteIP(r)
	ok, err := limiter.Allow(r.Context(), scope+":"+ip)
	if err != nil {
		logger.WithError(err).WithField("scope", scope).Warn("Rate limiter unavailable")
		return true
	}
	if !ok {
		logger.WithFields(logrus.Fields{"ip": ip, "scope": scope}).Info("Rate limit exceeded")
		writeErrorResponse(w, http.StatusTooManyRequests, codeRateLimited, "Too many requests. Please try again later.")
		return false
	}
	return true
}
