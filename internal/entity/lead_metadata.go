package entity

import "time"

const LoanApplicationPagePath = "/loan-application"

// LeadMetadata records where a single submission came from. Append-only.
type LeadMetadata struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey"`
	LeadID      string    `json:"lead_id" gorm:"type:uuid;not null;index"`
	IPAddress   string    `json:"ip_address,omitempty"`
	UserAgent   *string   `json:"user_agent,omitempty"`
	ReferrerURL *string   `json:"referrer_url,omitempty"`
	PagePath    string    `json:"page_path,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	Lead *Lead `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (LeadMetadata) TableName() string { return "lead_metadata" }
