package entity

import "time"

// Systems recorded in the integration log.
const (
	SystemLeadCapture     = "lead_capture"
	SystemOTPVerification = "otp_verification"
	SystemOTPResend       = "otp_resend"
	SystemOTPEmail        = "otp_email"
	SystemSalesforce      = "salesforce"
)

type LogStatus string

const (
	LogStatusPending LogStatus = "PENDING"
	LogStatusSuccess LogStatus = "SUCCESS"
	LogStatusFailed  LogStatus = "FAILED"
)

// Log is one append-only audit row of an integration attempt against a lead.
type Log struct {
	ID           string    `json:"id" gorm:"type:uuid;primaryKey"`
	LeadID       string    `json:"lead_id" gorm:"type:uuid;not null;index"`
	System       string    `json:"system" gorm:"type:varchar(32);not null"`
	Status       LogStatus `json:"status" gorm:"type:varchar(8);not null"`
	ResponseCode *int      `json:"response_code,omitempty"`
	ErrorMessage *string   `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`

	Lead *Lead `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (Log) TableName() string { return "integration_logs" }
