package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/umeloans/lead-capture/internal/infra/http/middleware"
	"github.com/umeloans/lead-capture/internal/infra/ratelimit"
	"github.com/umeloans/lead-capture/internal/usecase"
)

type OTPVerifier interface {
	Execute(ctx context.Context, input usecase.VerifyOTPInput) (*usecase.VerifyOTPOutput, error)
}

type OTPResender interface {
	Execute(ctx context.Context, input usecase.ResendOTPInput) (*usecase.ResendOTPOutput, error)
}

type OTPHandler struct {
	Verifier OTPVerifier
	Resender OTPResender
	Limiter  ratelimit.Limiter
	Logger   *logrus.Logger
}

func NewOTPHandler(verifier OTPVerifier, resender OTPResender, limiter ratelimit.Limiter, logger *logrus.Logger) *OTPHandler {
	return &OTPHandler{
		Verifier: verifier,
		Resender: resender,
		Limiter:  limiter,
		Logger:   logger,
	}
}

// Verify handles POST /api/verify-otp.
func (h *OTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	if !allowRequest(w, r, h.Limiter, h.Logger, "verify-otp") {
		return
	}

	var input usecase.VerifyOTPInput
	if !decodeJSON(w, r, &input) {
		return
	}

	output, err := h.Verifier.Execute(r.Context(), input)
	middleware.RecordOTPVerification(verificationResult(err))
	if err != nil {
		writeUseCaseError(w, h.Logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, output)
}

// Resend handles PUT /api/verify-otp.
func (h *OTPHandler) Resend(w http.ResponseWriter, r *http.Request) {
	if !allowRequest(w, r, h.Limiter, h.Logger, "verify-otp-resend") {
		return
	}

	var input usecase.ResendOTPInput
	if !decodeJSON(w, r, &input) {
		return
	}

	output, err := h.Resender.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, h.Logger, r, err)
		return
	}
	middleware.RecordOTPResend()
	writeJSON(w, http.StatusOK, output)
}

func verificationResult(err error) string {
	if err == nil {
		return "success"
	}
	var de *usecase.DomainError
	if !errors.As(err, &de) {
		return "error"
	}
	switch de.Code {
	case usecase.CodeOTPInvalid:
		return "invalid"
	case usecase.CodeOTPExpired:
		return "expired"
	case usecase.CodeOTPAttempts:
		return "locked"
	default:
		return "rejected"
	}
}
