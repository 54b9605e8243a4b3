package usecase

import (
	"fmt"
	"math"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/umeloans/lead-capture/internal/entity"
)

const (
	MinApplicantAge = 18
	MinPostcode     = 200
	MaxPostcode     = 9999
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// validatedLead carries the parsed values of a SubmitLeadInput that passed
// validation.
type validatedLead struct {
	loanAmount float64
	postcode   int
	dob        time.Time
}

// ValidateSubmitLeadInput checks a submission the way the API accepts it. The
// returned slice is empty when the input is acceptable.
func ValidateSubmitLeadInput(input SubmitLeadInput, now time.Time) []ValidationError {
	_, errs := validateSubmitLeadInput(input, now)
	return errs
}

func validateSubmitLeadInput(input SubmitLeadInput, now time.Time) (validatedLead, []ValidationError) {
	var (
		errors []ValidationError
		out    validatedLead
	)

	required := []struct {
		field string
		value string
	}{
		{"loanAmount", string(input.LoanAmount)},
		{"loanType", input.LoanType},
		{"fname", input.FName},
		{"lname", input.LName},
		{"email", input.Email},
		{"phone", input.Phone},
		{"dob", input.DOB},
		{"state", input.State},
		{"postcode", string(input.Postcode)},
	}
	missing := make(map[string]bool)
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing[r.field] = true
			errors = append(errors, ValidationError{r.field, "Missing required field: " + r.field})
		}
	}

	if !missing["loanAmount"] {
		amount, err := strconv.ParseFloat(strings.TrimSpace(string(input.LoanAmount)), 64)
		if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
			errors = append(errors, ValidationError{"loanAmount", "Invalid loan amount"})
		} else {
			out.loanAmount = amount
		}
	}

	if !missing["email"] {
		if _, err := mail.ParseAddress(strings.TrimSpace(input.Email)); err != nil {
			errors = append(errors, ValidationError{"email", "Invalid email address"})
		}
	}

	if !missing["postcode"] {
		postcode, err := strconv.Atoi(strings.TrimSpace(string(input.Postcode)))
		if err != nil || postcode < MinPostcode || postcode > MaxPostcode {
			errors = append(errors, ValidationError{"postcode", "Invalid postcode"})
		} else {
			out.postcode = postcode
		}
	}

	if !missing["dob"] {
		dob, ok := ParseDOB(input.DOB)
		switch {
		case !ok:
			errors = append(errors, ValidationError{"dob", "Invalid date of birth"})
		case AgeAt(dob, now) < MinApplicantAge:
			errors = append(errors, ValidationError{"dob", "Must be at least 18 years old"})
		default:
			out.dob = dob
		}
	}

	return out, errors
}

// ParseDOB accepts a calendar date (2006-01-02) or an RFC 3339 timestamp.
func ParseDOB(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	for _, layout := range []string{"2006-01-02", time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, v); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// AgeAt returns the number of full years between dob and now.
func AgeAt(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}

func toLead(input SubmitLeadInput, v validatedLead) *entity.Lead {
	lead := &entity.Lead{
		FName:      strings.TrimSpace(input.FName),
		LName:      strings.TrimSpace(input.LName),
		Email:      strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:      strings.TrimSpace(input.Phone),
		DOB:        v.dob,
		State:      strings.ToUpper(strings.TrimSpace(input.State)),
		Postcode:   v.postcode,
		LoanAmount: v.loanAmount,
		LoanType:   entity.ParseLoanType(input.LoanType),
		Status:     entity.LeadStatusSubmitted,
		// Only applied on insert; an upsert keeps the stored stage.
		FunnelStage: entity.FunnelStageLead,
	}
	if m := strings.TrimSpace(input.MName); m != "" {
		lead.MName = &m
	}
	return lead
}
