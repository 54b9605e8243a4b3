package wizard

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
)

// ErrSessionExpired is returned when the wizard has no lead to act on.
var ErrSessionExpired = errors.New("wizard session expired")

// StepError lists the fields that kept the wizard on the current step.
type StepError struct {
	Step   int
	Fields map[string]string
}

func (e *StepError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, f := range names {
		parts = append(parts, f+": "+e.Fields[f])
	}
	return strings.Join(parts, "; ")
}

// Wizard holds the state of one applicant walking through Steps.
type Wizard struct {
	Current int
	Data    map[string]string
	LeadID  string
	// DevOTP is the code echoed back by a non-production API.
	DevOTP           string
	ApplicationToken string
	Errors           map[string]string

	attempted map[int]bool
	backend   Backend
	now       func() time.Time
}

func New(backend Backend) *Wizard {
	return &Wizard{
		Current:   StepLoanDetails,
		Data:      make(map[string]string),
		Errors:    make(map[string]string),
		attempted: make(map[int]bool),
		backend:   backend,
		now:       time.Now,
	}
}

func (w *Wizard) Set(field, value string) {
	w.Data[field] = value
}

func (w *Wizard) Step() Step {
	s, _ := StepByID(w.Current)
	return s
}

// Done reports whether the applicant reached the last step.
func (w *Wizard) Done() bool {
	return w.Current == len(Steps)
}

// ShouldShowErrors reports whether the applicant already tried to leave step.
func (w *Wizard) ShouldShowErrors(step int) bool {
	return w.attempted[step]
}

// Next validates the current step and moves forward. Personal details are
// submitted and the verification code is checked on the way.
func (w *Wizard) Next(ctx context.Context) error {
	w.attempted[w.Current] = true

	if errs := ValidateStep(w.Current, w.Data, w.now()); len(errs) > 0 {
		w.Errors = errs
		return &StepError{Step: w.Current, Fields: errs}
	}
	w.Errors = make(map[string]string)

	switch w.Current {
	case StepPersonalDetails:
		res, err := w.backend.Submit(ctx, w.Data)
		if err != nil {
			return err
		}
		w.LeadID = res.LeadID
		w.DevOTP = res.OTP
	case StepVerification:
		if w.LeadID == "" {
			w.Current = StepLoanDetails
			return ErrSessionExpired
		}
		res, err := w.backend.Verify(ctx, w.LeadID, strings.TrimSpace(w.Data["otp"]))
		if err != nil {
			return err
		}
		w.ApplicationToken = res.ApplicationToken
	}

	if w.Current < len(Steps) {
		w.Current++
	}
	return nil
}

// Previous goes back one step and clears the errors of the step being left.
func (w *Wizard) Previous() {
	if w.Current <= StepLoanDetails {
		return
	}
	for _, f := range w.Step().Fields {
		delete(w.Errors, f)
	}
	w.Current--
}

// Resend asks the API for a fresh code and clears the one typed so far.
func (w *Wizard) Resend(ctx context.Context) (string, error) {
	if w.LeadID == "" {
		w.Current = StepLoanDetails
		return "", ErrSessionExpired
	}
	res, err := w.backend.Resend(ctx, w.LeadID)
	if err != nil {
		return "", err
	}
	delete(w.Data, "otp")
	if res.OTP != "" {
		w.DevOTP = res.OTP
	}
	return res.Message, nil
}
