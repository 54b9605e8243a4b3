package usecase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FormValue is a form field that clients send either as a JSON string or as
// a bare number.
type FormValue string

func (f *FormValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FormValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*f = FormValue(n.String())
	return nil
}

type SubmitLeadInput struct {
	LoanAmount FormValue `json:"loanAmount"`
	LoanType   string    `json:"loanType"`
	FName      string    `json:"fname"`
	MName      string    `json:"mname,omitempty"`
	LName      string    `json:"lname"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	DOB        string    `json:"dob"`
	State      string    `json:"state"`
	Postcode   FormValue `json:"postcode"`
}

// RequestMetadata is the provenance of a submission.
type RequestMetadata struct {
	IPAddress string
	UserAgent string
	Referrer  string
}

type SubmitLeadOutput struct {
	Success bool   `json:"success"`
	LeadID  string `json:"leadId"`
	Message string `json:"message"`
	OTP     string `json:"otp,omitempty"`
}

type VerifyOTPInput struct {
	LeadID string `json:"leadId"`
	OTP    string `json:"otp"`
}

func (in VerifyOTPInput) normalize() VerifyOTPInput {
	return VerifyOTPInput{LeadID: strings.TrimSpace(in.LeadID), OTP: strings.TrimSpace(in.OTP)}
}

type LeadSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type VerifyOTPOutput struct {
	Success          bool        `json:"success"`
	Message          string      `json:"message"`
	Lead             LeadSummary `json:"lead"`
	ApplicationToken string      `json:"applicationToken,omitempty"`
}

type ResendOTPInput struct {
	LeadID string `json:"leadId"`
}

type ResendOTPOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	OTP     string `json:"otp,omitempty"`
}

const (
	msgSubmitted = "Application submitted successfully. Please check your email for verification code."
	msgVerified  = "Verification successful! You can now continue with your application."
	msgResent    = "New verification code sent!"
)
