package entity

import (
	"strings"
	"time"
)

type LoanType string

const (
	LoanTypePersonal          LoanType = "PERSONAL"
	LoanTypeBusiness          LoanType = "BUSINESS"
	LoanTypeEducation         LoanType = "EDUCATION"
	LoanTypeAuto              LoanType = "AUTO"
	LoanTypeHome              LoanType = "HOME"
	LoanTypeDebtConsolidation LoanType = "DEBT_CONSOLIDATION"
	LoanTypeOther             LoanType = "OTHER"
)

var loanTypesByFormValue = map[string]LoanType{
	"personal":           LoanTypePersonal,
	"business":           LoanTypeBusiness,
	"education":          LoanTypeEducation,
	"auto":               LoanTypeAuto,
	"home":               LoanTypeHome,
	"debt_consolidation": LoanTypeDebtConsolidation,
	"other":              LoanTypeOther,
}

// ParseLoanType maps the form value ("personal", "debt_consolidation", ...)
// to a LoanType. Unknown values fall back to OTHER.
func ParseLoanType(v string) LoanType {
	if lt, ok := loanTypesByFormValue[strings.ToLower(strings.TrimSpace(v))]; ok {
		return lt
	}
	return LoanTypeOther
}

type LeadStatus string

const (
	LeadStatusSubmitted LeadStatus = "SUBMITTED"
	LeadStatusVerified  LeadStatus = "VERIFIED"
	LeadStatusApproved  LeadStatus = "APPROVED"
	LeadStatusRejected  LeadStatus = "REJECTED"
	LeadStatusWithdrawn LeadStatus = "WITHDRAWN"
)

type FunnelStage string

const (
	FunnelStageLead      FunnelStage = "LEAD"
	FunnelStageApplicant FunnelStage = "APPLICANT"
	FunnelStageCustomer  FunnelStage = "CUSTOMER"
)

// Lead is a prospective loan applicant, unique on Email.
type Lead struct {
	ID          string      `json:"id" gorm:"type:uuid;primaryKey"`
	FName       string      `json:"fname" gorm:"column:fname;not null"`
	MName       *string     `json:"mname,omitempty" gorm:"column:mname"`
	LName       string      `json:"lname" gorm:"column:lname;not null"`
	Email       string      `json:"email" gorm:"uniqueIndex;not null"`
	Phone       string      `json:"phone" gorm:"not null"`
	DOB         time.Time   `json:"dob" gorm:"column:dob;type:date;not null"`
	State       string      `json:"state" gorm:"not null"`
	Postcode    int         `json:"postcode" gorm:"not null"`
	LoanAmount  float64     `json:"loan_amount" gorm:"type:numeric(12,2);not null"`
	LoanType    LoanType    `json:"loan_type" gorm:"type:varchar(32);not null"`
	Status      LeadStatus  `json:"status" gorm:"type:varchar(16);not null;default:SUBMITTED"`
	FunnelStage FunnelStage `json:"funnel_stage" gorm:"type:varchar(16);not null;default:LEAD"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (l *Lead) FullName() string {
	return l.FName + " " + l.LName
}

// LeadDetails is a lead together with everything recorded against it.
type LeadDetails struct {
	Lead          *Lead           `json:"lead"`
	Metadata      []*LeadMetadata `json:"metadata"`
	Verifications []*Verification `json:"verifications"`
	Logs          []*Log          `json:"logs"`
}
