package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/umeloans/lead-capture/internal/entity"
)

// ResendOTPUseCase invalidates every open code of a lead and issues a fresh
// one, so at most one code can be redeemed at a time.
type ResendOTPUseCase struct {
	Store      entity.Store
	OTP        *OTPIssuer
	Mailer     OTPSender
	Logger     *logrus.Logger
	Production bool
	Now        func() time.Time
}

func NewResendOTPUseCase(store entity.Store, otp *OTPIssuer, mailer OTPSender, logger *logrus.Logger, production bool) *ResendOTPUseCase {
	return &ResendOTPUseCase{
		Store:      store,
		OTP:        otp,
		Mailer:     mailer,
		Logger:     logger,
		Production: production,
		Now:        time.Now,
	}
}

func (uc *ResendOTPUseCase) Execute(ctx context.Context, input ResendOTPInput) (*ResendOTPOutput, error) {
	leadID := strings.TrimSpace(input.LeadID)
	if leadID == "" {
		return nil, &DomainError{Code: CodeValidation, Message: "Lead ID is required"}
	}

	lead, err := findLead(ctx, uc.Store, leadID)
	if err != nil {
		return nil, err
	}

	now := uc.Now()
	verification, code, err := uc.OTP.Issue(lead.ID, now)
	if err != nil {
		return nil, &TechnicalError{Code: CodeOTPIssue, Message: "failed to issue OTP", Err: err}
	}

	var expired int64
	err = uc.Store.WithinTransaction(ctx, func(tx entity.Store) error {
		n, err := tx.Verifications().ExpireOpen(ctx, lead.ID, now)
		if err != nil {
			return fmt.Errorf("expire open verifications: %w", err)
		}
		expired = n
		if err := tx.Verifications().Create(ctx, verification); err != nil {
			return fmt.Errorf("create verification: %w", err)
		}
		return tx.Logs().Create(ctx, newLog(lead.ID, entity.SystemOTPResend, entity.LogStatusSuccess, http.StatusOK, "", now))
	})
	if err != nil {
		return nil, newDatabaseError("failed to reissue OTP", err)
	}

	uc.Logger.WithFields(logrus.Fields{
		"lead_id":     lead.ID,
		"invalidated": expired,
	}).Info("OTP reissued")

	deliverOTP(ctx, uc.Store, uc.Mailer, uc.Logger, lead, code, uc.OTP.TTL, uc.Production, now)

	out := &ResendOTPOutput{Success: true, Message: msgResent}
	if !uc.Production {
		out.OTP = code
	}
	return out, nil
}
