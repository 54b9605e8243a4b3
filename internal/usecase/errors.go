package usecase

import (
	"errors"
	"strings"
)

const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeLeadNotFound = "LEAD_NOT_FOUND"
	CodeOTPInvalid   = "OTP_INVALID"
	CodeOTPExpired   = "OTP_EXPIRED"
	CodeOTPAttempts  = "OTP_TOO_MANY_ATTEMPTS"
	CodeDatabase     = "DATABASE_ERROR"
	CodeOTPIssue     = "OTP_ISSUE_FAILED"
)

// DomainError is a failure the caller caused and can act on.
type DomainError struct {
	Code    string
	Message string
	Details []ValidationError
	Err     error
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError is an internal failure. Its message is for logs only.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func newValidationError(errs []ValidationError) *DomainError {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return &DomainError{
		Code:    CodeValidation,
		Message: errs[0].Message,
		Details: errs,
		Err:     errors.New(strings.Join(parts, "; ")),
	}
}

func newDatabaseError(msg string, err error) *TechnicalError {
	return &TechnicalError{Code: CodeDatabase, Message: msg, Err: err}
}
