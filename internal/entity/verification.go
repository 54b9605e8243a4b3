package entity

import "time"

type VerificationType string

const (
	VerificationTypeEmail VerificationType = "EMAIL"
	VerificationTypePhone VerificationType = "PHONE"
)

// Verification is a one-time passcode issued to a lead. Rows are never
// deleted: superseded codes are invalidated by pulling ExpiresAt back to now.
type Verification struct {
	ID         string           `json:"id" gorm:"type:uuid;primaryKey"`
	LeadID     string           `json:"lead_id" gorm:"type:uuid;not null;index"`
	Type       VerificationType `json:"type" gorm:"type:varchar(8);not null"`
	TokenHash  string           `json:"-" gorm:"not null"`
	ExpiresAt  time.Time        `json:"expires_at" gorm:"not null"`
	VerifiedAt *time.Time       `json:"verified_at,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`

	Lead *Lead `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// Active reports whether v can still be redeemed at now.
func (v *Verification) Active(now time.Time) bool {
	return v.VerifiedAt == nil && now.Before(v.ExpiresAt)
}

func (v *Verification) Expired(now time.Time) bool {
	return !now.Before(v.ExpiresAt)
}
