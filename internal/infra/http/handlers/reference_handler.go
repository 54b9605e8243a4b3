package handlers

import (
	"net/http"

	"github.com/umeloans/lead-capture/internal/wizard"
)

type ReferenceData struct {
	Steps     []wizard.Step   `json:"steps"`
	LoanTypes []wizard.Option `json:"loanTypes"`
	States    []wizard.Option `json:"states"`
}

// ReferenceDataHandler handles GET /api/reference-data with the form's fixed choices.
func ReferenceDataHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ReferenceData{
		Steps:     wizard.Steps,
		LoanTypes: wizard.LoanTypes,
		States:    wizard.States,
	})
}
