package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/umeloans/lead-capture/internal/entity"
	"github.com/umeloans/lead-capture/internal/infra/http/middleware"
	"github.com/umeloans/lead-capture/internal/infra/ratelimit"
	"github.com/umeloans/lead-capture/internal/usecase"
)

type LeadSubmitter interface {
	Execute(ctx context.Context, input usecase.SubmitLeadInput, meta usecase.RequestMetadata) (*usecase.SubmitLeadOutput, error)
}

type LeadReader interface {
	Execute(ctx context.Context, id string) (*entity.LeadDetails, error)
}

type LeadHandler struct {
	Submit  LeadSubmitter
	Reader  LeadReader
	Limiter ratelimit.Limiter
	Logger  *logrus.Logger
}

func NewLeadHandler(submit LeadSubmitter, reader LeadReader, limiter ratelimit.Limiter, logger *logrus.Logger) *LeadHandler {
	return &LeadHandler{
		Submit:  submit,
		Reader:  reader,
		Limiter: limiter,
		Logger:  logger,
	}
}

// SubmitApplication handles POST /api/loan-application.
func (h *LeadHandler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	if !allowRequest(w, r, h.Limiter, h.Logger, "loan-application") {
		return
	}

	var input usecase.SubmitLeadInput
	if !decodeJSON(w, r, &input) {
		return
	}

	meta := usecase.RequestMetadata{
		IPAddress: getClientIP(r),
		UserAgent: r.UserAgent(),
		Referrer:  r.Referer(),
	}

	output, err := h.Submit.Execute(r.Context(), input, meta)
	if err != nil {
		writeUseCaseError(w, h.Logger, r, err)
		return
	}

	middleware.RecordLeadCaptured(string(entity.ParseLoanType(input.LoanType)))
	writeJSON(w, http.StatusOK, output)
}

// ApplicationInfo handles GET /api/loan-application.
func (h *LeadHandler) ApplicationInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Loan application API endpoint"})
}

// GetLead handles GET /api/leads/{id}. The application token must belong to
// the requested lead.
func (h *LeadHandler) GetLead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if owner, ok := middleware.LeadIDFromContext(r.Context()); !ok || owner != id {
		writeErrorResponse(w, http.StatusForbidden, codeForbidden, "Token does not grant access to this lead")
		return
	}

	details, err := h.Reader.Execute(r.Context(), id)
	if err != nil {
		writeUseCaseError(w, h.Logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}
