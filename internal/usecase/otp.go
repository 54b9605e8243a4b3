package usecase

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/umeloans/lead-capture/internal/entity"
)

// OTPIssuer generates numeric passcodes and stores only their bcrypt hash.
type OTPIssuer struct {
	Length   int
	TTL      time.Duration
	HashCost int
}

func NewOTPIssuer(length int, ttl time.Duration, hashCost int) *OTPIssuer {
	if hashCost < bcrypt.MinCost || hashCost > bcrypt.MaxCost {
		hashCost = bcrypt.DefaultCost
	}
	return &OTPIssuer{Length: length, TTL: ttl, HashCost: hashCost}
}

// Generate returns a random code of Length decimal digits. The first digit
// is never zero so the code keeps its length when handled as a number.
func (o *OTPIssuer) Generate() (string, error) {
	var b strings.Builder
	for i := 0; i < o.Length; i++ {
		span, offset := int64(10), int64(0)
		if i == 0 {
			span, offset = 9, 1
		}
		n, err := rand.Int(rand.Reader, big.NewInt(span))
		if err != nil {
			return "", fmt.Errorf("read random digit: %w", err)
		}
		b.WriteByte(byte('0' + n.Int64() + offset))
	}
	return b.String(), nil
}

// Issue creates an EMAIL verification for leadID that expires TTL after
// now, and returns it together with the plain code.
func (o *OTPIssuer) Issue(leadID string, now time.Time) (*entity.Verification, string, error) {
	code, err := o.Generate()
	if err != nil {
		return nil, "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), o.HashCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash OTP: %w", err)
	}
	return &entity.Verification{
		ID:        uuid.NewString(),
		LeadID:    leadID,
		Type:      entity.VerificationTypeEmail,
		TokenHash: string(hash),
		ExpiresAt: now.Add(o.TTL),
		CreatedAt: now,
	}, code, nil
}

// Match returns the first verification whose hash matches code.
func (o *OTPIssuer) Match(candidates []*entity.Verification, code string) *entity.Verification {
	for _, v := range candidates {
		if bcrypt.CompareHashAndPassword([]byte(v.TokenHash), []byte(code)) == nil {
			return v
		}
	}
	return nil
}
