package wizard

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MinLoanAmount = 1000
	MinAge        = 18
	MaxAge        = 100
	MinOTPLength  = 4
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern    = regexp.MustCompile(`^\+?[\d\s\-()]{10,}$`)
	postcodePattern = regexp.MustCompile(`^\d{4}$`)
)

// ValidateField checks one form field and returns the message to show, or
// "" when the value is acceptable. Unknown fields are always acceptable.
func ValidateField(field, value string, now time.Time) string {
	v := strings.TrimSpace(value)

	switch field {
	case "loanAmount":
		if v == "" {
			return "Loan amount is required"
		}
		amount, err := strconv.ParseFloat(v, 64)
		if err != nil || amount <= 0 {
			return "Please enter a valid loan amount"
		}
		if amount < MinLoanAmount {
			return "Minimum loan amount is $1,000"
		}
	case "loanType":
		if v == "" || !isOption(LoanTypes, v) {
			return "Please select a loan type"
		}
	case "fname":
		return validateName(v, "First name")
	case "lname":
		return validateName(v, "Last name")
	case "email":
		if v == "" {
			return "Email is required"
		}
		if !emailPattern.MatchString(v) {
			return "Please enter a valid email"
		}
	case "phone":
		if v == "" {
			return "Phone number is required"
		}
		if !phonePattern.MatchString(v) {
			return "Please enter a valid phone number"
		}
	case "dob":
		if v == "" {
			return "Date of birth is required"
		}
		dob, err := time.Parse("2006-01-02", v)
		if err != nil {
			return "Please enter a valid date of birth"
		}
		age := ageAt(dob, now)
		if age < MinAge {
			return "You must be at least 18 years old"
		}
		if age > MaxAge {
			return "Please enter a valid date of birth"
		}
	case "state":
		if v == "" || !isOption(States, strings.ToUpper(v)) {
			return "Please select your state"
		}
	case "postcode":
		if v == "" {
			return "Postcode is required"
		}
		if !postcodePattern.MatchString(v) {
			return "Please enter a valid 4-digit postcode"
		}
	case "otp":
		if utf8.RuneCountInString(v) < MinOTPLength {
			return "Please enter a valid OTP"
		}
	}
	return ""
}

// ValidateStep checks every field of a step and returns the failing fields
// with their messages.
func ValidateStep(stepID int, data map[string]string, now time.Time) map[string]string {
	step, ok := StepByID(stepID)
	if !ok {
		return nil
	}
	errs := make(map[string]string)
	for _, f := range step.Fields {
		if msg := ValidateField(f, data[f], now); msg != "" {
			errs[f] = msg
		}
	}
	return errs
}

func validateName(v, label string) string {
	if v == "" {
		return label + " is required"
	}
	if utf8.RuneCountInString(v) < 2 {
		return label + " must be at least 2 characters"
	}
	return ""
}

func isOption(opts []Option, v string) bool {
	for _, o := range opts {
		if o.Value == v {
			return true
		}
	}
	return false
}

func ageAt(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}
