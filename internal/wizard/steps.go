// Package wizard drives the four-step loan application form against the lead
// capture API: field rules, step navigation and the HTTP client.
package wizard

const (
	StepLoanDetails = iota + 1
	StepPersonalDetails
	StepVerification
	StepLoanApplication
)

type Step struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Fields      []string `json:"fields"`
}

var Steps = []Step{
	{
		ID:          StepLoanDetails,
		Title:       "Loan Details",
		Description: "Amount and type",
		Fields:      []string{"loanAmount", "loanType"},
	},
	{
		ID:          StepPersonalDetails,
		Title:       "Personal Details",
		Description: "Contact details",
		Fields:      []string{"fname", "mname", "lname", "email", "phone", "dob", "state", "postcode"},
	},
	{
		ID:          StepVerification,
		Title:       "Verification",
		Description: "Identification",
		Fields:      []string{"otp"},
	},
	{
		ID:          StepLoanApplication,
		Title:       "Loan Application",
		Description: "Provide ID",
		Fields:      []string{},
	},
}

// StepByID returns the step with the given id, or false.
func StepByID(id int) (Step, bool) {
	for _, s := range Steps {
		if s.ID == id {
			return s, true
		}
	}
	return Step{}, false
}

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var LoanTypes = []Option{
	{Value: "personal", Label: "Personal Loan"},
	{Value: "business", Label: "Business Loan"},
	{Value: "education", Label: "Education Loan"},
	{Value: "auto", Label: "Auto Loan"},
	{Value: "home", Label: "Home Loan"},
	{Value: "debt_consolidation", Label: "Debt Consolidation Loan"},
	{Value: "other", Label: "Other"},
}

var States = []Option{
	{Value: "NSW", Label: "New South Wales"},
	{Value: "VIC", Label: "Victoria"},
	{Value: "QLD", Label: "Queensland"},
	{Value: "WA", Label: "Western Australia"},
	{Value: "SA", Label: "South Australia"},
	{Value: "TAS", Label: "Tasmania"},
	{Value: "ACT", Label: "Australian Capital Territory"},
	{Value: "NT", Label: "Northern Territory"},
}

// OptionsFor returns the fixed choices of a select field, or nil for free
// text fields.
func OptionsFor(field string) []Option {
	switch field {
	case "loanType":
		return LoanTypes
	case "state":
		return States
	}
	return nil
}

// Label returns the display label of value in opts, or value itself.
func Label(opts []Option, value string) string {
	for _, o := range opts {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}
