package salesforce

import "github.com/umeloans/lead-capture/internal/entity"

// LeadPayload is the lead copy pushed to the CRM. It also travels as the
// body of queued sync messages.
type LeadPayload struct {
	LeadID     string  `json:"leadId"`
	Email      string  `json:"email"`
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	Phone      string  `json:"phone"`
	LoanAmount float64 `json:"loanAmount"`
	LoanType   string  `json:"loanType"`
}

// NewLeadPayload builds the CRM copy of lead. loanType is the raw form value
// the applicant picked, which the CRM expects instead of the stored enum.
func NewLeadPayload(lead *entity.Lead, loanType string) LeadPayload {
	return LeadPayload{
		LeadID:     lead.ID,
		Email:      lead.Email,
		FirstName:  lead.FName,
		LastName:   lead.LName,
		Phone:      lead.Phone,
		LoanAmount: lead.LoanAmount,
		LoanType:   loanType,
	}
}

type createLeadRequest struct {
	Data LeadPayload `json:"data"`
}
